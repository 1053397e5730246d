package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/petrocom/uts/internal/jobs"
	"github.com/petrocom/uts/internal/shared"
)

type recorderFunc func(ctx context.Context, log shared.AuditLog) error

func (f recorderFunc) Record(ctx context.Context, log shared.AuditLog) error { return f(ctx, log) }

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: task.Type()}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

type execFunc func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

func (f execFunc) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f(ctx, sql, args...)
}

func sampleLog() shared.AuditLog {
	return shared.AuditLog{
		ID:       "c0a8f9d2-6c1e-4b44-9a39-0d8a3a4f1e11",
		Actor:    "u-1",
		Role:     shared.RoleFinanceOfficer,
		Action:   "payment.retry",
		Entity:   "transactions",
		EntityID: "TXN-2024-003",
		Meta:     map[string]any{"from": "failed", "to": "pending"},
		At:       time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestAuditEventJobRecordsPayload(t *testing.T) {
	var got shared.AuditLog
	reg := prometheus.NewRegistry()
	job := NewAuditEventJob(recorderFunc(func(_ context.Context, log shared.AuditLog) error {
		got = log
		return nil
	}), nil, jobmetrics.NewMetrics(reg))

	task, err := NewAuditEventTask(sampleLog())
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	want := sampleLog()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Role, got.Role)
	assert.Equal(t, want.EntityID, got.EntityID)
	assert.Equal(t, "pending", got.Meta["to"])
	assert.True(t, want.At.Equal(got.At))
}

func TestAuditEventJobSkipsRetryOnBadPayload(t *testing.T) {
	job := NewAuditEventJob(recorderFunc(func(context.Context, shared.AuditLog) error {
		t.Fatal("recorder must not be called")
		return nil
	}), nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskAuditEvent, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestAuditEventJobIncompleteIsNotRetried(t *testing.T) {
	job := NewAuditEventJob(recorderFunc(func(context.Context, shared.AuditLog) error {
		return shared.ErrAuditIncomplete
	}), nil, nil)
	task, err := NewAuditEventTask(sampleLog())
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestAuditEventJobTransientErrorRetries(t *testing.T) {
	boom := errors.New("connection reset")
	job := NewAuditEventJob(recorderFunc(func(context.Context, shared.AuditLog) error {
		return boom
	}), nil, nil)
	task, err := NewAuditEventTask(sampleLog())
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestClientEnqueueAudit(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)
	fake := &fakeEnqueuer{}
	client := &Client{client: fake, metrics: metrics}

	require.NoError(t, client.EnqueueAudit(context.Background(), sampleLog()))
	require.Len(t, fake.tasks, 1)
	assert.Equal(t, TaskAuditEvent, fake.tasks[0].Type())

	var payload AuditEventPayload
	require.NoError(t, json.Unmarshal(fake.tasks[0].Payload(), &payload))
	assert.Equal(t, "TXN-2024-003", payload.EntityID)
	assert.Equal(t, string(shared.RoleFinanceOfficer), payload.Role)
}

func TestClientEnqueueAuditDuplicateIsSuccess(t *testing.T) {
	client := &Client{client: &fakeEnqueuer{err: asynq.ErrTaskIDConflict}}
	assert.NoError(t, client.EnqueueAudit(context.Background(), sampleLog()))

	client = &Client{client: &fakeEnqueuer{err: errors.New("redis down")}}
	assert.Error(t, client.EnqueueAudit(context.Background(), sampleLog()))
}

func TestAuditPruneJob(t *testing.T) {
	var cutoff time.Time
	job := NewAuditPruneJob(execFunc(func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		assert.Contains(t, sql, "DELETE FROM audit_events")
		cutoff = args[0].(time.Time)
		return pgconn.NewCommandTag("DELETE 3"), nil
	}), nil, nil)
	job.clock = func() time.Time { return time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC) }

	task, err := NewAuditPruneTask(30)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), cutoff)

	bad, err := NewAuditPruneTask(0)
	require.NoError(t, err)
	assert.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)
}

func TestAuditPruneJobCountsFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)
	job := NewAuditPruneJob(execFunc(func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("db gone")
	}), nil, metrics)

	task, err := NewAuditPruneTask(90)
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))

	count, err := testutil.GatherAndCount(reg, "uts_jobs_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(nil, nil).MountRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}
