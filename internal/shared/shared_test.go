package shared

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFTokenLifecycle(t *testing.T) {
	m := NewCSRFManager("csrf-secret")
	ctx := context.Background()
	sess := NewSession()
	sess.ID = "session-1"

	token, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, m.VerifyToken(ctx, sess, token))
	assert.ErrorIs(t, m.VerifyToken(ctx, sess, token+"x"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, m.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)

	m.Rotate(sess)
	assert.ErrorIs(t, m.VerifyToken(ctx, sess, token), ErrCSRFTokenMissing)

	_, err = m.EnsureToken(ctx, nil)
	assert.ErrorIs(t, err, ErrSessionMissing)
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPer    int
		wantPages            int
		wantStart, wantEnd   int
		wantNext             bool
	}{
		{name: "defaults", page: 0, perPage: 0, total: 45, wantPage: 1, wantPer: 20, wantPages: 3, wantStart: 0, wantEnd: 20, wantNext: true},
		{name: "last partial", page: 3, perPage: 20, total: 45, wantPage: 3, wantPer: 20, wantPages: 3, wantStart: 40, wantEnd: 45},
		{name: "past the end", page: 9, perPage: 20, total: 45, wantPage: 9, wantPer: 20, wantPages: 3, wantStart: 45, wantEnd: 45},
		{name: "capped size", page: 1, perPage: 500, total: 150, wantPage: 1, wantPer: 100, wantPages: 2, wantStart: 0, wantEnd: 100, wantNext: true},
		{name: "overflowing page", page: 1<<62 + 1, perPage: 3, total: 45, wantPage: 1<<62 + 1, wantPer: 3, wantPages: 15, wantStart: 45, wantEnd: 45},
		{name: "empty", page: 1, perPage: 10, total: 0, wantPage: 1, wantPer: 10, wantPages: 0, wantStart: 0, wantEnd: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.perPage, tc.total)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantPer, p.PerPage)
			assert.Equal(t, tc.wantPages, p.TotalPages)
			start, end := p.Bounds()
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
			assert.Equal(t, tc.wantNext, p.HasNext())
		})
	}
}

func TestRoles(t *testing.T) {
	assert.Equal(t, RoleFinanceOfficer, ParseRole(" finance_officer "))
	assert.Equal(t, "/dashboard/finance", LandingRoute(RoleFinanceOfficer))
	assert.Equal(t, HomeRoute, LandingRoute(Role("AUDITOR")))
	assert.False(t, Role("AUDITOR").Valid())
	for _, r := range Roles() {
		assert.True(t, r.Valid(), r)
	}
}

type captureExecer struct {
	sql  string
	args []any
	err  error
}

func (c *captureExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.sql = sql
	c.args = args
	return pgconn.CommandTag{}, c.err
}

func TestAuditLoggerRecord(t *testing.T) {
	exec := &captureExecer{}
	logger := NewAuditLogger(exec)
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	err := logger.Record(context.Background(), AuditLog{
		ID:       "evt-1",
		Actor:    "user-1",
		Role:     RoleFinanceOfficer,
		Action:   "status.retry",
		Entity:   "transactions",
		EntityID: "TXN-2024-004",
		Meta:     map[string]any{"from": "failed", "to": "processing"},
		At:       at,
	})
	require.NoError(t, err)
	assert.Contains(t, exec.sql, "ON CONFLICT (id) DO NOTHING")
	require.Len(t, exec.args, 8)
	assert.Equal(t, "FINANCE_OFFICER", exec.args[2])

	var meta map[string]string
	require.NoError(t, json.Unmarshal(exec.args[6].([]byte), &meta))
	assert.Equal(t, "processing", meta["to"])
	assert.Equal(t, &at, exec.args[7])
}

func TestAuditLoggerRejectsIncomplete(t *testing.T) {
	exec := &captureExecer{}
	err := NewAuditLogger(exec).Record(context.Background(), AuditLog{ID: "evt-1", Action: "status.retry"})
	assert.ErrorIs(t, err, ErrAuditIncomplete)
	assert.Empty(t, exec.sql)

	exec.err = errors.New("connection reset")
	err = NewAuditLogger(exec).Record(context.Background(), AuditLog{ID: "evt-2", Action: "a", Entity: "e", EntityID: "1"})
	assert.EqualError(t, err, "connection reset")
}
