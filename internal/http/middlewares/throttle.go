package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/dropDatabas3/tasktrack/internal/http/errors"
)

// ThrottleConfig configura el token bucket por IP.
type ThrottleConfig struct {
	RequestsPerSecond float64
	Burst             int
	// IdleTTL es cuánto vive el bucket de una IP sin tráfico.
	IdleTTL time.Duration
	// TrustForwardedFor toma la IP de X-Forwarded-For. Solo detrás de un
	// proxy que reescriba el header; si no, cualquiera elige su bucket.
	TrustForwardedFor bool
}

// clientIP extrae la IP del cliente. X-Forwarded-For solo cuenta si el
// despliegue declara un proxy de confianza.
func clientIP(r *http.Request, trustXFF bool) string {
	if trustXFF {
		if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
			return strings.TrimSpace(strings.Split(xf, ",")[0])
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// WithThrottle limita requests por IP. Es independiente del limiter de login:
// acá no hay ventana fija sino un bucket que se recarga continuamente.
func WithThrottle(cfg ThrottleConfig) Middleware {
	if cfg.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RequestsPerSecond) + 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	buckets := gocache.New(cfg.IdleTTL, cfg.IdleTTL/2)

	get := func(ip string) *rate.Limiter {
		if v, ok := buckets.Get(ip); ok {
			l := v.(*rate.Limiter)
			buckets.SetDefault(ip, l) // renueva el TTL
			return l
		}
		l := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
		if err := buckets.Add(ip, l, gocache.DefaultExpiration); err != nil {
			// otra goroutine lo creó primero
			if v, ok := buckets.Get(ip); ok {
				return v.(*rate.Limiter)
			}
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := get(clientIP(r, cfg.TrustForwardedFor)).Reserve()
			if !res.OK() {
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			if d := res.Delay(); d > 0 {
				res.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(d.Seconds())+1))
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
