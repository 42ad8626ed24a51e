package public

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tasktrack/internal/cache"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/propagation"
)

func newView(t *testing.T, current **repository.Group) *propagation.CachedView[propagation.ActiveGroup] {
	t.Helper()
	v := propagation.NewCachedView[propagation.ActiveGroup](propagation.TopicActiveGroup, func(context.Context) (propagation.ActiveGroup, error) {
		return propagation.ActiveGroup{Group: *current}, nil
	})
	require.NoError(t, v.Refresh(context.Background()))
	return v
}

func get(c *ActiveGroupController, etag string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/public/active-group", nil)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	rec := httptest.NewRecorder()
	c.Get(rec, req)
	return rec
}

func TestActiveGroup_ETagFollowsChanges(t *testing.T) {
	var current *repository.Group
	view := newView(t, &current)
	mem := cache.NewMemory("test")
	t.Cleanup(func() { _ = mem.Close() })
	ctrl := NewActiveGroupController(view, mem, time.Minute)

	rec := get(ctrl, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"group":null}`, rec.Body.String())
	first := rec.Header().Get("ETag")

	assert.Equal(t, http.StatusNotModified, get(ctrl, first).Code)

	// el cambio en la vista reemplaza el snapshot cacheado aunque el TTL no venció
	current = &repository.Group{ID: "g-1", Name: "Alpha", IsPublic: true}
	require.NoError(t, view.Refresh(context.Background()))

	rec = get(ctrl, first)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, first, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), `"g-1"`)
}

func TestActiveGroup_WorksWithoutCache(t *testing.T) {
	var current *repository.Group
	view := newView(t, &current)
	ctrl := NewActiveGroupController(view, nil, 0)

	rec := get(ctrl, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestNotifications_NoHubIsUnavailable(t *testing.T) {
	ctrl := NewNotificationsController(nil)
	rec := httptest.NewRecorder()
	ctrl.Stream("client")(rec, httptest.NewRequest(http.MethodGet, "/v1/client/notifications", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
