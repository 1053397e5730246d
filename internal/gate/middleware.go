package gate

import (
	"net/http"

	"github.com/petrocom/uts/internal/shared"
)

// Navigator performs the single redirect of a failed gate decision.
type Navigator interface {
	Navigate(w http.ResponseWriter, r *http.Request, path string)
}

// RedirectNavigator answers with 302 Found.
type RedirectNavigator struct{}

// Navigate implements Navigator.
func (RedirectNavigator) Navigate(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

// Require admits only users holding role. Nothing downstream runs until the
// gate has reached a terminal state.
func (g *Gate) Require(role shared.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Evaluate(r.Context(), role, r.URL.RequestURI())
			if d.State != StateAuthorized {
				g.nav.Navigate(w, r, d.Redirect)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), d.User)))
		})
	}
}

// RequireAny admits any authenticated user.
func (g *Gate) RequireAny() func(http.Handler) http.Handler {
	return g.Require("")
}
