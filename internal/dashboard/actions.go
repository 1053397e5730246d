package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/petrocom/uts/internal/gate"
	"github.com/petrocom/uts/internal/payments"
	"github.com/petrocom/uts/internal/platform/httpx"
	"github.com/petrocom/uts/internal/shared"
)

// TransitionResponse reports the outcome of a workflow action.
type TransitionResponse struct {
	ID      string            `json:"id"`
	Status  payments.Status   `json:"status"`
	Label   string            `json:"label"`
	Actions []payments.Action `json:"actions"`
}

// transition applies a workflow action to the session's working copy only.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	d := datasetFromContext(r.Context())
	id := chi.URLParam(r, "id")
	rawAction := chi.URLParam(r, "action")
	if d.Workflow == nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s has no workflow", httpx.ErrNotFound, d.Name))
		return
	}
	action, err := payments.ParseAction(rawAction)
	if err != nil {
		h.respondError(w, r, "parse action", err)
		return
	}
	if shared.SessionFromContext(r.Context()) == nil {
		h.respondError(w, r, "transition", shared.ErrSessionMissing)
		return
	}
	work, overlay, err := h.workingCopy(r, d)
	if err != nil {
		h.respondError(w, r, "build working copy", err)
		return
	}
	before, _ := work.Find(id)
	to, err := overlay.Transition(work, *d.Workflow, id, action)
	if h.metrics != nil {
		h.metrics.ObserveTransition(d.Name, string(action), err)
	}
	if err != nil {
		h.respondError(w, r, "transition", err)
		return
	}
	h.recordAudit(r.Context(), d.Name, id, action, before.Text(d.Workflow.Field), to)
	httpx.JSON(w, http.StatusOK, TransitionResponse{ID: id, Status: to, Label: to.Label(), Actions: payments.Available(to)})
}

// recordAudit enqueues an audit entry. Failures are logged; the working copy
// has already changed and stays changed.
func (h *Handler) recordAudit(ctx context.Context, dataset, id string, action payments.Action, from string, to payments.Status) {
	if h.audit == nil {
		return
	}
	entry := shared.AuditLog{
		ID:       uuid.NewString(),
		Action:   "status." + string(action),
		Entity:   dataset,
		EntityID: id,
		Meta:     map[string]any{"from": from, "to": string(to)},
		At:       h.now().UTC(),
	}
	if u, ok := gate.UserFromContext(ctx); ok {
		entry.Actor = u.ID
		entry.Role = u.Role
	}
	if err := h.audit.EnqueueAudit(ctx, entry); err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Warn("enqueue audit", slog.String("entity_id", id), slog.Any("error", err))
	}
}
