// Package gate decides whether a request may see a role's dashboard and
// redirects it elsewhere when it may not.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/petrocom/uts/internal/shared"
)

// State is a step of the gate's decision.
type State string

const (
	StateChecking        State = "checking"
	StateUnauthenticated State = "unauthenticated"
	StateWrongRole       State = "wrong-role"
	StateAuthorized      State = "authorized"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s != StateChecking
}

// ErrMalformedIdentity is returned by providers whose stored identity cannot be parsed.
var ErrMalformedIdentity = errors.New("gate: malformed identity")

// User is the identity the session provider reports.
type User struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      shared.Role `json:"role"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
}

// DisplayName joins the user's names.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Claims are the facts a verified token asserts.
type Claims struct {
	Subject string
	Role    shared.Role
}

// Provider exposes the current session identity.
type Provider interface {
	Token(ctx context.Context) (string, bool)
	CurrentUser(ctx context.Context) (*User, error)
}

// TokenVerifier checks a session token.
type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

// Decision is the terminal outcome of Evaluate.
type Decision struct {
	State    State
	Redirect string
	User     *User
}

// Gate evaluates access for one required role at a time.
type Gate struct {
	provider Provider
	verifier TokenVerifier
	nav      Navigator
	logger   *slog.Logger
	observe  func(State)
}

// Option customises a Gate.
type Option func(*Gate)

// WithNavigator replaces the HTTP redirect navigator.
func WithNavigator(n Navigator) Option {
	return func(g *Gate) {
		if n != nil {
			g.nav = n
		}
	}
}

// WithObserver registers a callback receiving every terminal state.
func WithObserver(fn func(State)) Option {
	return func(g *Gate) { g.observe = fn }
}

// New constructs a Gate. verifier may be nil, in which case any present token is accepted.
func New(provider Provider, verifier TokenVerifier, logger *slog.Logger, opts ...Option) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{provider: provider, verifier: verifier, nav: RedirectNavigator{}, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LoginRedirect builds the login URL carrying returnPath.
func LoginRedirect(returnPath string) string {
	if returnPath == "" {
		return shared.LoginRoute
	}
	return shared.LoginRoute + "?" + shared.ReturnToParam + "=" + url.QueryEscape(returnPath)
}

// Evaluate runs the gate from the checking state to a terminal decision.
// An empty required role admits any authenticated user.
func (g *Gate) Evaluate(ctx context.Context, required shared.Role, returnPath string) Decision {
	d := g.evaluate(ctx, required, returnPath)
	if g.observe != nil {
		g.observe(d.State)
	}
	return d
}

func (g *Gate) evaluate(ctx context.Context, required shared.Role, returnPath string) Decision {
	unauthenticated := Decision{State: StateUnauthenticated, Redirect: LoginRedirect(returnPath)}
	if g.provider == nil {
		return unauthenticated
	}
	token, ok := g.provider.Token(ctx)
	if !ok || strings.TrimSpace(token) == "" {
		return unauthenticated
	}

	var claims Claims
	if g.verifier != nil {
		var err error
		claims, err = g.verifier.Verify(token)
		if err != nil {
			g.logger.Warn("gate token rejected", slog.Any("error", err))
			return unauthenticated
		}
	}

	user, err := g.provider.CurrentUser(ctx)
	if err != nil {
		g.logger.Warn("gate identity unreadable", slog.Any("error", err))
		return unauthenticated
	}
	if user == nil || user.Role == "" {
		return unauthenticated
	}
	if g.verifier != nil && (claims.Subject != user.ID || claims.Role != user.Role) {
		g.logger.Warn("gate identity does not match token", slog.String("user", user.ID))
		return unauthenticated
	}

	if required != "" && user.Role != required {
		return Decision{State: StateWrongRole, Redirect: shared.LandingRoute(user.Role), User: user}
	}
	return Decision{State: StateAuthorized, User: user}
}

type userContextKey struct{}

// ContextWithUser stores the authorized user.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the user stored by the gate middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*User)
	return u, ok && u != nil
}
