package rate

import (
	"context"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// checkAndConsume corre atómico en redis: si la clave ya llegó a max no incrementa.
// Retorna {allowed, hits, pttl_ms}.
var checkAndConsume = rdb.NewScript(`
local c = tonumber(redis.call('GET', KEYS[1]) or '0')
if c >= tonumber(ARGV[1]) then
  return {0, c, redis.call('PTTL', KEYS[1])}
end
c = redis.call('INCR', KEYS[1])
if c == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {1, c, redis.call('PTTL', KEYS[1])}
`)

// RedisLimiter comparte ventanas entre instancias. La ventana arranca en el
// primer intento (PEXPIRE en el primer INCR) y desaparece al vencer.
type RedisLimiter struct {
	Client rdb.UniversalClient
	Prefix string
}

func NewRedisLimiter(client rdb.UniversalClient, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix}
}

func (l *RedisLimiter) key(k string) string {
	return l.Prefix + strings.ReplaceAll(k, " ", "_")
}

func (l *RedisLimiter) CheckAndConsume(ctx context.Context, key string, max int, window time.Duration) (Result, error) {
	vals, err := checkAndConsume.Run(ctx, l.Client, []string{l.key(key)}, max, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, err
	}
	if len(vals) != 3 {
		return Result{}, rdb.Nil
	}

	hits := vals[1]
	ttl := time.Duration(vals[2]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	res := Result{Allowed: vals[0] == 1, CurrentHits: hits, WindowTTL: ttl}
	if res.Allowed {
		res.Remaining = int64(max) - hits
	} else {
		res.RetryAfter = ttl
	}
	return res, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.Client.Del(ctx, l.key(key)).Err()
}
