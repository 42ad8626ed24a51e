package rate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type window struct {
	count int64
	start time.Time
}

// MemoryLimiter guarda ventanas en go-cache; cada entrada expira con su
// ventana, así que las claves viejas se recolectan solas.
type MemoryLimiter struct {
	mu    sync.Mutex
	cache *gocache.Cache
	now   func() time.Time
}

// NewMemoryLimiter crea un limiter en memoria (por proceso).
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		cache: gocache.New(15*time.Minute, 5*time.Minute),
		now:   time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

func (l *MemoryLimiter) CheckAndConsume(_ context.Context, key string, max int, win time.Duration) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w := &window{start: now}
	if v, ok := l.cache.Get(key); ok {
		if cur := v.(*window); now.Sub(cur.start) <= win {
			w = cur
		}
	}

	ttl := w.start.Add(win).Sub(now)
	if w.count >= int64(max) {
		return Result{Allowed: false, RetryAfter: ttl, WindowTTL: ttl, CurrentHits: w.count}, nil
	}

	w.count++
	// el TTL de go-cache es solo GC: la validez real la decide start
	l.cache.Set(key, w, win)
	return Result{
		Allowed:     true,
		Remaining:   int64(max) - w.count,
		WindowTTL:   ttl,
		CurrentHits: w.count,
	}, nil
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Delete(key)
	return nil
}
