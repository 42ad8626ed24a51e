package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryLimiter_BlocksAfterMaxAndDoesNotConsumeWhileBlocked(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter().WithClock(clk.now)
	key := LoginKey("admin", "root@x.io")

	for i := 1; i <= 5; i++ {
		res, err := l.CheckAndConsume(ctx, key, 5, 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "attempt %d", i)
		assert.Equal(t, int64(5-i), res.Remaining)
		clk.advance(time.Second)
	}

	res, err := l.CheckAndConsume(ctx, key, 5, 15*time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(5), res.CurrentHits)
	assert.Equal(t, 15*time.Minute-5*time.Second, res.RetryAfter)
	assert.Equal(t, 895, res.RetryAfterSeconds())

	// bloqueado no suma intentos
	res, _ = l.CheckAndConsume(ctx, key, 5, 15*time.Minute)
	assert.Equal(t, int64(5), res.CurrentHits)
}

func TestMemoryLimiter_WindowHardResets(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter().WithClock(clk.now)

	for i := 0; i < 5; i++ {
		_, _ = l.CheckAndConsume(ctx, "k", 5, time.Minute)
	}
	res, _ := l.CheckAndConsume(ctx, "k", 5, time.Minute)
	require.False(t, res.Allowed)

	clk.advance(time.Minute + time.Second)
	res, err := l.CheckAndConsume(ctx, "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(4), res.Remaining)
}

func TestMemoryLimiter_ResetClearsKeyOnly(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter()
	for i := 0; i < 5; i++ {
		_, _ = l.CheckAndConsume(ctx, "a", 5, time.Minute)
		_, _ = l.CheckAndConsume(ctx, "b", 5, time.Minute)
	}
	require.NoError(t, l.Reset(ctx, "a"))

	res, _ := l.CheckAndConsume(ctx, "a", 5, time.Minute)
	assert.True(t, res.Allowed)
	res, _ = l.CheckAndConsume(ctx, "b", 5, time.Minute)
	assert.False(t, res.Allowed)
}

func TestLoginKey_Normalizes(t *testing.T) {
	assert.Equal(t, LoginKey("client", " Ana@X.io "), LoginKey("client", "ana@x.io"))
	assert.NotEqual(t, LoginKey("client", "ana@x.io"), LoginKey("admin", "ana@x.io"))
}
