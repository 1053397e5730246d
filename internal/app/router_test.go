package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrocom/uts/internal/auth"
	"github.com/petrocom/uts/internal/dashboard"
	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/gate"
	"github.com/petrocom/uts/internal/observability"
	"github.com/petrocom/uts/internal/shared"
	"github.com/petrocom/uts/jobs"
	_ "github.com/petrocom/uts/testing"
)

const demoPassword = "demo-password"

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second, ExportRateLimit: 10}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := shared.NewSessionManager(client, "uts_session", "session-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager("jwt-secret", time.Hour)

	users, err := auth.DemoUsers(demoPassword)
	require.NoError(t, err)
	catalog := datasets.Default()
	g := gate.New(auth.SessionProvider{}, tokens, logger, gate.WithObserver(func(s gate.State) {
		metrics.ObserveGate(string(s))
	}))

	handler := NewRouter(RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessions,
		CSRFManager:    csrf,
		Catalog:        catalog,
		AuthHandler:    auth.NewHandler(logger, auth.NewService(auth.NewMemoryRepository(users...), tokens), sessions, csrf),
		DashboardHandler: dashboard.NewHandler(logger, catalog, g, dashboard.Config{
			Metrics:     metrics,
			ExportLimit: cfg.ExportRateLimit,
		}),
		JobHandler: jobs.NewHandler(nil, logger),
		Metrics:    metrics,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	httpClient := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, httpClient
}

func getJSON(t *testing.T, c *http.Client, target string, out any) *http.Response {
	t.Helper()
	resp, err := c.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthAndSecurityHeaders(t *testing.T) {
	srv, c := newTestServer(t)

	resp := getJSON(t, c, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp = getJSON(t, c, srv.URL+"/jobs/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginFlowReachesDashboard(t *testing.T) {
	srv, c := newTestServer(t)

	resp := getJSON(t, c, srv.URL+"/dashboard/finance/transactions", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?returnTo=%2Fdashboard%2Ffinance%2Ftransactions", resp.Header.Get("Location"))

	var page map[string]string
	getJSON(t, c, srv.URL+"/login?returnTo=%2Fdashboard%2Ffinance%2Ftransactions", &page)
	require.NotEmpty(t, page["csrf_token"])
	assert.Equal(t, "/dashboard/finance/transactions", page["returnTo"])

	form := url.Values{}
	form.Set("email", "finance-officer@demo.uts.local")
	form.Set("password", demoPassword)
	form.Set("returnTo", page["returnTo"])
	form.Set(shared.CSRFFormField, page["csrf_token"])
	resp, err := c.PostForm(srv.URL+"/auth/login", form)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/finance/transactions", resp.Header.Get("Location"))

	var view dashboard.ListView
	resp = getJSON(t, c, srv.URL+"/dashboard/finance/transactions?status=completed", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, view.Rows, 3)

	resp = getJSON(t, c, srv.URL+"/dashboard/admin", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/finance", resp.Header.Get("Location"))

	var home map[string]any
	getJSON(t, c, srv.URL+"/", &home)
	assert.Equal(t, "/dashboard/finance", home["dashboard"])

	metrics, err := c.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(metrics.Body)
	metrics.Body.Close()
	assert.Contains(t, string(body), `uts_gate_decisions_total{state="wrong-role"} 1`)
	assert.Contains(t, string(body), `uts_gate_decisions_total{state="unauthenticated"} 1`)
}

func TestUnsafeMethodsNeedCSRFToken(t *testing.T) {
	srv, c := newTestServer(t)

	resp, err := c.Post(srv.URL+"/auth/login", "application/x-www-form-urlencoded", strings.NewReader("email=a@b.c&password=whatever1"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPublicDocumentsNeedNoLogin(t *testing.T) {
	srv, c := newTestServer(t)

	var view dashboard.ListView
	resp := getJSON(t, c, srv.URL+"/documents", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "documents", view.Dataset)
	assert.Len(t, view.Rows, 5)
}
