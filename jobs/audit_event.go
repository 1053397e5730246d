package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"

	jobmetrics "github.com/petrocom/uts/internal/jobs"
	"github.com/petrocom/uts/internal/shared"
)

// AuditRecorder persists audit entries; *shared.AuditLogger satisfies it.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// AuditEventJob writes queued audit entries.
type AuditEventJob struct {
	Recorder AuditRecorder
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewAuditEventJob initialises the audit writer.
func NewAuditEventJob(recorder AuditRecorder, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditEventJob {
	return &AuditEventJob{Recorder: recorder, Logger: logger, Metrics: metrics}
}

// Handle processes TaskAuditEvent tasks. Malformed or incomplete payloads are
// not retried.
func (j *AuditEventJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Recorder == nil {
		return errors.New("audit event: handler not configured")
	}
	tracker := j.Metrics.Track(TaskAuditEvent)
	defer func() { err = tracker.End(err) }()

	var payload AuditEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("audit event: decode: %v: %w", err, asynq.SkipRetry)
	}
	if err := j.Recorder.Record(ctx, payload.Log()); err != nil {
		if errors.Is(err, shared.ErrAuditIncomplete) {
			return fmt.Errorf("audit event %s: %v: %w", payload.ID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("audit event %s: %w", payload.ID, err)
	}
	j.logger().Debug("audit event recorded", slog.String("id", payload.ID), slog.String("action", payload.Action))
	return nil
}

func (j *AuditEventJob) logger() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}

// AuditPruneJob removes audit entries older than the retention window.
type AuditPruneJob struct {
	DB      shared.Execer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAuditPruneJob initialises the prune handler.
func NewAuditPruneJob(db shared.Execer, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditPruneJob {
	return &AuditPruneJob{DB: db, Logger: logger, Metrics: metrics, clock: func() time.Time { return time.Now().UTC() }}
}

// Handle processes TaskAuditPrune tasks.
func (j *AuditPruneJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.DB == nil {
		return errors.New("audit prune: handler not configured")
	}
	tracker := j.Metrics.Track(TaskAuditPrune)
	defer func() { err = tracker.End(err) }()

	var payload AuditPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("audit prune: decode: %v: %w", err, asynq.SkipRetry)
	}
	if payload.RetentionDays <= 0 {
		return fmt.Errorf("audit prune: retention must be positive: %w", asynq.SkipRetry)
	}
	cutoff := j.clock().AddDate(0, 0, -payload.RetentionDays)
	var tag pgconn.CommandTag
	tag, err = j.DB.Exec(ctx, `DELETE FROM audit_events WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return fmt.Errorf("audit prune: %w", err)
	}
	if j.Logger != nil {
		j.Logger.Info("audit prune", slog.Int64("deleted", tag.RowsAffected()), slog.Time("cutoff", cutoff))
	}
	return nil
}
