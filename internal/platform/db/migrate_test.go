package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	statements []string
	err        error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	return pgconn.CommandTag{}, r.err
}

func TestMigrateAppliesSchema(t *testing.T) {
	exec := &recordingExecer{}
	require.NoError(t, Migrate(context.Background(), exec))
	require.Len(t, exec.statements, 1)
	assert.Contains(t, exec.statements[0], "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, exec.statements[0], "CREATE TABLE IF NOT EXISTS audit_events")
}

func TestMigrateWrapsFailure(t *testing.T) {
	boom := errors.New("syntax error")
	err := Migrate(context.Background(), &recordingExecer{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "0001_init.sql")
}
