// Package dashboard serves the role dashboards and the public document list.
package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/gate"
	"github.com/petrocom/uts/internal/payments"
	"github.com/petrocom/uts/internal/platform/httpx"
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
	"github.com/petrocom/uts/report"
)

// Observer receives dashboard activity counters.
type Observer interface {
	ObserveExport(dataset, format string)
	ObserveTransition(dataset, action string, err error)
}

// Config groups the optional collaborators of a Handler.
type Config struct {
	Metrics Observer
	Audit   shared.AuditSink
	PDF     report.Renderer
	// ExportLimit is the number of exports a user may download per minute.
	ExportLimit int
	Now         func() time.Time
}

// Handler serves dataset pages.
type Handler struct {
	logger    *slog.Logger
	catalog   *datasets.Catalog
	gate      *gate.Gate
	metrics   Observer
	audit     shared.AuditSink
	pdf       report.Renderer
	validator *validator.Validate
	limiter   func(http.Handler) http.Handler
	now       func() time.Time
}

// NewHandler constructs a dashboard handler.
func NewHandler(logger *slog.Logger, catalog *datasets.Catalog, g *gate.Gate, cfg Config) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	limit := cfg.ExportLimit
	if limit <= 0 {
		limit = defaultExportLimit
	}
	return &Handler{
		logger:    logger,
		catalog:   catalog,
		gate:      g,
		metrics:   cfg.Metrics,
		audit:     cfg.Audit,
		pdf:       cfg.PDF,
		validator: validator.New(),
		limiter:   exportLimiter(limit),
		now:       now,
	}
}

// workingCopy returns the collection a request sees: the seed, with the
// session's remembered statuses replayed when the dataset has a workflow.
func (h *Handler) workingCopy(r *http.Request, d *datasets.Dataset) (*records.Collection, *payments.Overlay, error) {
	if d.Workflow == nil {
		return d.Collection, nil, nil
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return d.Collection, nil, nil
	}
	overlay := payments.NewOverlay(sess, d.Name)
	work, err := overlay.WorkingCopy(d.Collection, *d.Workflow)
	if err != nil {
		return nil, nil, err
	}
	return work, overlay, nil
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, records.ErrNotFound):
		err = fmt.Errorf("%w: %w", httpx.ErrNotFound, err)
	case errors.Is(err, payments.ErrInvalidTransition):
		err = fmt.Errorf("%w: %w", httpx.ErrConflict, err)
	case errors.Is(err, payments.ErrUnknownAction),
		errors.Is(err, records.ErrUnknownField),
		errors.Is(err, records.ErrFieldKind),
		errors.Is(err, records.ErrInvalidWindow),
		errors.Is(err, records.ErrInvalidDirection):
		err = fmt.Errorf("%w: %w", httpx.ErrValidation, err)
	}
	if !isClientError(err) {
		h.logger.Error(msg, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func isClientError(err error) bool {
	for _, target := range []error{httpx.ErrNotFound, httpx.ErrConflict, httpx.ErrValidation, httpx.ErrForbidden, httpx.ErrUnauthorized} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func roleSlug(role shared.Role) string {
	return strings.TrimPrefix(shared.LandingRoute(role), "/dashboard/")
}

func datasetPath(d *datasets.Dataset) string {
	if d.Public() {
		return "/" + d.Name
	}
	return shared.LandingRoute(d.Role) + "/" + d.Name
}
