package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "uts_session", "secret", time.Hour, false), mr
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "uts_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("status:transactions:TXN-2024-004", "processing")
	sess.SetUser("user-1")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil), sess))
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.True(t, mr.Exists(sessionKeyPrefix+cookie.Value))
	assert.Equal(t, time.Hour, mr.TTL(sessionKeyPrefix+cookie.Value))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, cookie.Value, loaded.ID)
	assert.Equal(t, "processing", loaded.Get("status:transactions:TXN-2024-004"))
	assert.Equal(t, "user-1", loaded.User())
}

func TestSessionUnknownCookieStartsFresh(t *testing.T) {
	sm, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "uts_session", Value: "attacker-chosen"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "attacker-chosen", sess.ID)
	assert.Empty(t, sess.User())
}

func TestSessionRenewDropsPreviousKey(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("k", "v")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), nil, sess))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "uts_session", Value: sess.ID})
	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)
	oldID := loaded.ID

	sm.Renew(loaded)
	require.NotEqual(t, oldID, loaded.ID)
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), nil, loaded))

	assert.False(t, mr.Exists(sessionKeyPrefix+oldID))
	assert.True(t, mr.Exists(sessionKeyPrefix+loaded.ID))
}

func TestSessionDestroyExpiresCookie(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), nil, sess))
	require.True(t, mr.Exists(sessionKeyPrefix+sess.ID))

	sm.Destroy(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, nil, sess))
	assert.False(t, mr.Exists(sessionKeyPrefix+sess.ID))
	assert.Equal(t, -1, sessionCookie(t, rec).MaxAge)
}

func TestSessionDeletePrefix(t *testing.T) {
	sess := NewSession()
	sess.Set("status:transactions:TXN-2024-001", "failed")
	sess.Set("status:transactions:TXN-2024-004", "processing")
	sess.Set("select:transactions", "TXN-2024-001")

	sess.DeletePrefix("status:transactions:")
	assert.Empty(t, sess.Get("status:transactions:TXN-2024-001"))
	assert.Empty(t, sess.Get("status:transactions:TXN-2024-004"))
	assert.Equal(t, "TXN-2024-001", sess.Get("select:transactions"))
}

func TestFlashQueue(t *testing.T) {
	sess := NewSession()
	assert.Nil(t, sess.PopFlash())
	sess.AddFlash(FlashMessage{Kind: "success", Message: "first"})
	sess.AddFlash(FlashMessage{Kind: "error", Message: "second"})
	assert.Equal(t, "first", sess.PopFlash().Message)
	assert.Equal(t, "second", sess.PopFlash().Message)
	assert.Nil(t, sess.PopFlash())
}
