package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/petrocom/uts/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditEvent persists one dashboard audit entry.
	TaskAuditEvent = "audit:event"
	// TaskAuditPrune deletes audit entries past the retention window.
	TaskAuditPrune = "audit:prune"
)

// AuditEventPayload is the wire form of shared.AuditLog.
type AuditEventPayload struct {
	ID       string         `json:"id"`
	Actor    string         `json:"actor"`
	Role     string         `json:"role"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

// Log converts the payload back to an audit entry.
func (p AuditEventPayload) Log() shared.AuditLog {
	return shared.AuditLog{
		ID:       p.ID,
		Actor:    p.Actor,
		Role:     shared.Role(p.Role),
		Action:   p.Action,
		Entity:   p.Entity,
		EntityID: p.EntityID,
		Meta:     p.Meta,
		At:       p.At,
	}
}

// NewAuditEventTask builds an audit task. The audit ID doubles as the asynq
// task ID so a retried enqueue cannot duplicate the entry.
func NewAuditEventTask(log shared.AuditLog) (*asynq.Task, error) {
	body, err := json.Marshal(AuditEventPayload{
		ID:       log.ID,
		Actor:    log.Actor,
		Role:     string(log.Role),
		Action:   log.Action,
		Entity:   log.Entity,
		EntityID: log.EntityID,
		Meta:     log.Meta,
		At:       log.At,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditEvent, body, asynq.Queue(QueueDefault), asynq.TaskID(log.ID), asynq.MaxRetry(10)), nil
}

// AuditPrunePayload configures a prune run.
type AuditPrunePayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewAuditPruneTask builds the periodic prune task.
func NewAuditPruneTask(retentionDays int) (*asynq.Task, error) {
	body, err := json.Marshal(AuditPrunePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPrune, body, asynq.Queue(QueueDefault)), nil
}
