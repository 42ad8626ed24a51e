package propagation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/store/adapters/memory"
)

// dropBus simula un entorno sin broadcast: acepta todo y no entrega nada.
type dropBus struct{}

func (dropBus) Publish(context.Context, string, []byte) error { return nil }
func (dropBus) Subscribe(ctx context.Context, _ string) (<-chan []byte, error) {
	return nil, errors.New("unsupported")
}
func (dropBus) Close() error { return nil }

func activeID(v *CachedView[ActiveGroup]) string {
	snap, ok := v.Get()
	if !ok || snap.Group == nil {
		return ""
	}
	return snap.Group.ID
}

func TestCachedView_AppliesOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	val := "a"
	v := NewCachedView("test", func(context.Context) (string, error) { return val, nil })

	var calls int32
	v.OnChange(func(string) { atomic.AddInt32(&calls, 1) })

	require.NoError(t, v.Refresh(ctx))
	require.NoError(t, v.Refresh(ctx))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// el mismo valor por broadcast tampoco dispara
	require.NoError(t, v.OnExternalChange([]byte(`"a"`)))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	require.NoError(t, v.OnExternalChange([]byte(`"b"`)))
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, "b", got)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))

	// el poll vuelve al valor del store
	require.NoError(t, v.Refresh(ctx))
	got, _ = v.Get()
	assert.Equal(t, "a", got)
}

func TestCachedView_RejectsGarbage(t *testing.T) {
	v := NewCachedView("test", func(context.Context) (int, error) { return 1, nil })
	assert.Error(t, v.OnExternalChange([]byte("{not json")))
	_, ok := v.Get()
	assert.False(t, ok)
}

func TestClampInterval(t *testing.T) {
	assert.Equal(t, DefaultPollInterval, ClampInterval(0))
	assert.Equal(t, MaxPollInterval, ClampInterval(time.Minute))
	assert.Equal(t, 2*time.Second, ClampInterval(2*time.Second))
}

// dos "pestañas" (vistas independientes) sobre el mismo store.
func startTab(t *testing.T, ctx context.Context, bus Bus, groups repository.GroupRepository, interval time.Duration) (*Propagator, *CachedView[ActiveGroup]) {
	t.Helper()
	view := NewCachedView(TopicActiveGroup, LoadActiveGroup(groups))
	p := New(bus, interval)
	p.Register(TopicActiveGroup, view)
	go func() { _ = p.Run(ctx) }()
	require.Eventually(t, func() bool { _, ok := view.Get(); return ok }, time.Second, 5*time.Millisecond)
	return p, view
}

func TestConvergence_Broadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := memory.New()
	groups := db.Groups()
	g1, err := groups.Create(ctx, repository.CreateGroupInput{Name: "G1"})
	require.NoError(t, err)

	bus := NewMemoryBus()
	// poll largo: la convergencia tiene que venir del broadcast
	pa, viewA := startTab(t, ctx, bus, groups, MaxPollInterval)
	_, viewB := startTab(t, ctx, bus, groups, MaxPollInterval)
	assert.Equal(t, "", activeID(viewB))

	_, err = groups.SetActive(ctx, g1.ID)
	require.NoError(t, err)
	require.NoError(t, viewA.Refresh(ctx))
	snap, _ := viewA.Get()
	require.NoError(t, pa.Publish(ctx, TopicActiveGroup, snap))

	assert.Eventually(t, func() bool { return activeID(viewB) == g1.ID }, time.Second, 5*time.Millisecond)
}

func TestConvergence_PollWithoutBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := memory.New()
	groups := db.Groups()
	g1, err := groups.Create(ctx, repository.CreateGroupInput{Name: "G1"})
	require.NoError(t, err)

	interval := 50 * time.Millisecond
	_, viewB := startTab(t, ctx, dropBus{}, groups, interval)

	_, err = groups.SetActive(ctx, g1.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return activeID(viewB) == g1.ID }, 4*interval, 5*time.Millisecond)
}

func TestPropagator_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	db := memory.New()
	p := New(NewMemoryBus(), 10*time.Millisecond)
	p.Register(TopicActiveGroup, NewCachedView(TopicActiveGroup, LoadActiveGroup(db.Groups())))

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestWorkspace_TransitionsBothWays(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	groups := db.Groups()
	g, err := groups.Create(ctx, repository.CreateGroupInput{Name: "Alpha"})
	require.NoError(t, err)

	view := NewCachedView(TopicActiveGroup, LoadActiveGroup(groups))
	ws := NewWorkspace(view)

	var transitions []bool
	ws.OnTransition(func(blocked bool) { transitions = append(transitions, blocked) })

	blocked, err := ws.Blocked(ctx)
	require.NoError(t, err)
	assert.True(t, blocked)

	_, err = groups.SetActive(ctx, g.ID)
	require.NoError(t, err)
	require.NoError(t, view.Refresh(ctx))
	blocked, _ = ws.Blocked(ctx)
	assert.False(t, blocked)

	_, err = groups.Deactivate(ctx, g.ID)
	require.NoError(t, err)
	require.NoError(t, view.Refresh(ctx))
	blocked, _ = ws.Blocked(ctx)
	assert.True(t, blocked)

	assert.Equal(t, []bool{true, false, true}, transitions[len(transitions)-3:])
}
