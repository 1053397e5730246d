package shared

import "context"

type sessionContextKey struct{}

// ValueStore is the subset of Session used by components that keep
// per-session state without caring how it is stored.
type ValueStore interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

var _ ValueStore = (*Session)(nil)

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
