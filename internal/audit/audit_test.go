package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/store/adapters/memory"
)

type failingRepo struct{ calls int }

func (f *failingRepo) Append(context.Context, repository.AuditEntry) error {
	f.calls++
	return errors.New("db down")
}

func (f *failingRepo) Query(context.Context, repository.AuditFilter, int) ([]repository.AuditEntry, error) {
	return nil, nil
}

func TestRecord_TakesActorFromContext(t *testing.T) {
	db := memory.New()
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	rec := New(db.Audit(), WithClock(func() time.Time { return at }))

	ctx := WithActor(context.Background(), Actor{ID: "p1", Name: "Root"})
	rec.Record(ctx, ActionCreate, EntityGroup, "g1", map[string]any{"name": "Alpha"})

	out, err := rec.Query(context.Background(), repository.AuditFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	e := out[0]
	assert.Equal(t, ActionCreate, e.Action)
	assert.Equal(t, EntityGroup, e.EntityType)
	require.NotNil(t, e.EntityID)
	assert.Equal(t, "g1", *e.EntityID)
	require.NotNil(t, e.ActorID)
	assert.Equal(t, "p1", *e.ActorID)
	assert.Equal(t, "Root", *e.ActorName)
	assert.Equal(t, at, e.CreatedAt)
}

func TestRecord_WithoutActor(t *testing.T) {
	db := memory.New()
	rec := New(db.Audit())
	rec.Security(context.Background(), EventAuthFailed, map[string]any{"login": "ana@x.io", "portal": "admin"})

	out, err := rec.Query(context.Background(), repository.AuditFilter{EntityType: EntitySecurity}, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].ActorID)
	assert.Nil(t, out[0].EntityID)
	assert.Equal(t, EventAuthFailed, out[0].Action)
}

func TestRecord_FailureIsSwallowed(t *testing.T) {
	repo := &failingRepo{}
	rec := New(repo)
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), ActionDelete, EntityTask, "t1", nil)
	})
	assert.Equal(t, 1, repo.calls)
}

func TestQuery_DefaultLimit(t *testing.T) {
	db := memory.New()
	rec := New(db.Audit())
	for i := 0; i < DefaultQueryLimit+5; i++ {
		rec.Record(context.Background(), ActionUpdate, EntityTask, "t", nil)
	}
	out, err := rec.Query(context.Background(), repository.AuditFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, out, DefaultQueryLimit)
}
