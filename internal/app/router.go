package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petrocom/uts/internal/auth"
	"github.com/petrocom/uts/internal/dashboard"
	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/observability"
	"github.com/petrocom/uts/internal/platform/httpx"
	"github.com/petrocom/uts/internal/shared"
	"github.com/petrocom/uts/jobs"
	"github.com/petrocom/uts/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	Catalog          *datasets.Catalog
	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	ReportHandler    *report.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get(shared.HomeRoute, home(params.Catalog))

	if params.AuthHandler != nil {
		r.Get(shared.LoginRoute, params.AuthHandler.LoginPage)
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}
	if params.DashboardHandler != nil {
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		params.DashboardHandler.MountPublic(r)
	}
	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	return r
}

type homeLink struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// home is where unknown roles land: the public pages and the way in.
func home(catalog *datasets.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links := []homeLink{{Title: "Sign in", Href: shared.LoginRoute}}
		if catalog != nil {
			for _, d := range catalog.Public() {
				links = append(links, homeLink{Title: d.Title, Href: "/" + d.Name})
			}
		}
		out := map[string]any{"name": "Upstream Tracking System", "links": links}
		if u, err := (auth.SessionProvider{}).CurrentUser(r.Context()); err == nil && u != nil && u.Role.Valid() {
			out["dashboard"] = shared.LandingRoute(u.Role)
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}
