package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// AuditLog represents a record stored in audit_events.
type AuditLog struct {
	ID       string
	Actor    string
	Role     Role
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditLogger writes records into audit_events.
type AuditLogger struct {
	db Execer
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(db Execer) *AuditLogger {
	return &AuditLogger{db: db}
}

// ErrAuditIncomplete is returned when a log entry lacks identifying fields.
var ErrAuditIncomplete = errors.New("audit log requires id/action/entity/entity_id")

// Record persists the log entry. Replays of the same ID are ignored.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("audit logger not initialised")
	}
	if log.ID == "" || log.Action == "" || log.Entity == "" || log.EntityID == "" {
		return ErrAuditIncomplete
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	var at *time.Time
	if !log.At.IsZero() {
		at = &log.At
	}
	_, err = l.db.Exec(ctx, `INSERT INTO audit_events (id, actor, role, action, entity, entity_id, meta, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
ON CONFLICT (id) DO NOTHING`, log.ID, log.Actor, string(log.Role), log.Action, log.Entity, log.EntityID, metaJSON, at)
	return err
}

// AuditSink accepts audit entries for asynchronous persistence.
type AuditSink interface {
	EnqueueAudit(ctx context.Context, log AuditLog) error
}
