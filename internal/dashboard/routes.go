package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/gate"
	"github.com/petrocom/uts/internal/platform/httpx"
	"github.com/petrocom/uts/internal/shared"
)

const defaultExportLimit = 10

type datasetKey struct{}

func datasetFromContext(ctx context.Context) *datasets.Dataset {
	d, _ := ctx.Value(datasetKey{}).(*datasets.Dataset)
	return d
}

// MountRoutes registers the gated role dashboards on r, which is expected to
// be mounted at /dashboard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.gate.RequireAny()).Get("/search", h.search)
	for _, role := range shared.Roles() {
		r.Route("/"+roleSlug(role), func(r chi.Router) {
			r.Use(h.gate.Require(role))
			r.Get("/", h.overview(role))
			r.Route("/{dataset}", func(r chi.Router) {
				r.Use(h.roleDataset(role))
				h.datasetRoutes(r)
			})
		})
	}
}

// MountPublic registers every dataset that needs no sign-in at /<name>.
func (h *Handler) MountPublic(r chi.Router) {
	for _, d := range h.catalog.Public() {
		r.Route("/"+d.Name, func(r chi.Router) {
			r.Use(withDataset(d))
			h.datasetRoutes(r)
		})
	}
}

func (h *Handler) datasetRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/selection", h.clearSelection)
	r.Group(func(r chi.Router) {
		r.Use(h.limiter)
		r.Get("/export.csv", h.exportCSV)
		r.Get("/export.xlsx", h.exportXLSX)
		r.Get("/export.pdf", h.exportPDF)
	})
	r.Get("/{id}", h.detail)
	r.Post("/{id}/actions/{action}", h.transition)
}

func withDataset(d *datasets.Dataset) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), datasetKey{}, d)))
		})
	}
}

// roleDataset resolves {dataset} among the datasets of role. Datasets of other
// roles are reported as missing.
func (h *Handler) roleDataset(role shared.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, ok := h.catalog.Get(chi.URLParam(r, "dataset"))
			if !ok || d.Role != role {
				httpx.RespondError(w, httpx.ErrNotFound)
				return
			}
			withDataset(d)(next).ServeHTTP(w, r)
		})
	}
}

func exportLimiter(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "export limit reached, try again shortly")
		}),
	)
}

func rateLimitKey(r *http.Request) (string, error) {
	if u, ok := gate.UserFromContext(r.Context()); ok && u.ID != "" {
		return "user:" + u.ID, nil
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil && sess.User() != "" {
		return "user:" + sess.User(), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
