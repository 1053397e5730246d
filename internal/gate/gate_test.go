package gate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrocom/uts/internal/shared"
)

type stubProvider struct {
	token   string
	user    *User
	userErr error
}

func (p stubProvider) Token(context.Context) (string, bool) {
	return p.token, p.token != ""
}

func (p stubProvider) CurrentUser(context.Context) (*User, error) {
	return p.user, p.userErr
}

type stubVerifier map[string]Claims

func (v stubVerifier) Verify(token string) (Claims, error) {
	c, ok := v[token]
	if !ok {
		return Claims{}, errors.New("bad token")
	}
	return c, nil
}

var verifier = stubVerifier{
	"fin":  {Subject: "u-fin", Role: shared.RoleFinanceOfficer},
	"imm":  {Subject: "u-imm", Role: shared.RoleImmigrationOfficer},
	"odd":  {Subject: "u-odd", Role: "ASTRONAUT"},
	"fake": {Subject: "u-other", Role: shared.RoleFinanceOfficer},
}

func finance() *User {
	return &User{ID: "u-fin", Role: shared.RoleFinanceOfficer, FirstName: "Ama", LastName: "Mensah"}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		provider stubProvider
		required shared.Role
		state    State
		redirect string
	}{
		{"no token", stubProvider{}, shared.RoleFinanceOfficer, StateUnauthenticated, "/login?returnTo=%2Fdashboard%2Ffinance"},
		{"bad token", stubProvider{token: "nope", user: finance()}, shared.RoleFinanceOfficer, StateUnauthenticated, "/login?returnTo=%2Fdashboard%2Ffinance"},
		{"malformed identity", stubProvider{token: "fin", userErr: ErrMalformedIdentity}, shared.RoleFinanceOfficer, StateUnauthenticated, "/login?returnTo=%2Fdashboard%2Ffinance"},
		{"missing identity", stubProvider{token: "fin"}, shared.RoleFinanceOfficer, StateUnauthenticated, "/login?returnTo=%2Fdashboard%2Ffinance"},
		{"token for someone else", stubProvider{token: "fake", user: &User{ID: "u-fin", Role: shared.RoleFinanceOfficer}}, shared.RoleFinanceOfficer, StateUnauthenticated, "/login?returnTo=%2Fdashboard%2Ffinance"},
		{"authorized", stubProvider{token: "fin", user: finance()}, shared.RoleFinanceOfficer, StateAuthorized, ""},
		{"wrong role", stubProvider{token: "fin", user: finance()}, shared.RoleImmigrationOfficer, StateWrongRole, "/dashboard/finance"},
		{"unknown role goes home", stubProvider{token: "odd", user: &User{ID: "u-odd", Role: "ASTRONAUT"}}, shared.RoleFinanceOfficer, StateWrongRole, "/"},
		{"any role", stubProvider{token: "imm", user: &User{ID: "u-imm", Role: shared.RoleImmigrationOfficer}}, "", StateAuthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(tc.provider, verifier, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			d := g.Evaluate(context.Background(), tc.required, "/dashboard/finance")
			assert.Equal(t, tc.state, d.State)
			assert.Equal(t, tc.redirect, d.Redirect)
			assert.True(t, d.State.Terminal())
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	var states []State
	g := New(stubProvider{token: "fin", user: finance()}, verifier, nil, WithObserver(func(s State) {
		states = append(states, s)
	}))
	for _, required := range shared.Roles() {
		first := g.Evaluate(context.Background(), required, "/x")
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, g.Evaluate(context.Background(), required, "/x"))
		}
	}
	assert.Len(t, states, len(shared.Roles())*6)
	assert.False(t, StateChecking.Terminal())
}

func TestMalformedIdentityIsLogged(t *testing.T) {
	var buf bytes.Buffer
	g := New(stubProvider{token: "fin", userErr: ErrMalformedIdentity}, nil, slog.New(slog.NewTextHandler(&buf, nil)))
	d := g.Evaluate(context.Background(), shared.RoleFinanceOfficer, "/dashboard/finance")
	assert.Equal(t, StateUnauthenticated, d.State)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "gate identity unreadable")
}

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(w http.ResponseWriter, _ *http.Request, path string) {
	n.paths = append(n.paths, path)
	w.WriteHeader(http.StatusFound)
}

func TestRequireRedirectsFinanceOfficerAwayFromImmigration(t *testing.T) {
	nav := &recordingNavigator{}
	g := New(stubProvider{token: "fin", user: finance()}, verifier, nil, WithNavigator(nav))

	called := false
	h := g.Require(shared.RoleImmigrationOfficer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/immigration", nil))

	assert.False(t, called, "gated content must not render")
	require.Len(t, nav.paths, 1)
	assert.Equal(t, "/dashboard/finance", nav.paths[0])
}

func TestRequireAuthorizedStoresUser(t *testing.T) {
	g := New(stubProvider{token: "fin", user: finance()}, verifier, nil)
	var got *User
	h := g.Require(shared.RoleFinanceOfficer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/finance", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Ama Mensah", got.DisplayName())
}

func TestRequireUnauthenticatedUsesHTTPRedirect(t *testing.T) {
	g := New(stubProvider{}, verifier, nil)
	h := g.RequireAny()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard/search?q=tx", nil))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?returnTo=%2Fdashboard%2Fsearch%3Fq%3Dtx", rr.Header().Get("Location"))
}
