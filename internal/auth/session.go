package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petrocom/uts/internal/gate"
	"github.com/petrocom/uts/internal/shared"
)

const (
	// SessionTokenKey holds the signed session token.
	SessionTokenKey = "auth_token"
	// SessionUserKey holds the JSON encoded gate.User.
	SessionUserKey = "auth_user"
)

// SessionProvider reads the identity stored in the request session.
type SessionProvider struct{}

// Token implements gate.Provider.
func (SessionProvider) Token(ctx context.Context) (string, bool) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return "", false
	}
	token := sess.Get(SessionTokenKey)
	return token, token != ""
}

// CurrentUser implements gate.Provider. A missing identity yields (nil, nil);
// an unparseable one yields gate.ErrMalformedIdentity.
func (SessionProvider) CurrentUser(ctx context.Context) (*gate.User, error) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return nil, nil
	}
	raw := sess.Get(SessionUserKey)
	if raw == "" {
		return nil, nil
	}
	var u gate.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: %v", gate.ErrMalformedIdentity, err)
	}
	u.Role = shared.ParseRole(string(u.Role))
	return &u, nil
}

var _ gate.Provider = SessionProvider{}

// SignIn stores the token and identity in the session.
func SignIn(sess *shared.Session, user *User, token string) error {
	raw, err := json.Marshal(user.Identity())
	if err != nil {
		return fmt.Errorf("auth: encode identity: %w", err)
	}
	sess.SetUser(user.ID)
	sess.Set(SessionTokenKey, token)
	sess.Set(SessionUserKey, string(raw))
	return nil
}
