// Package rate limita intentos por clave con una ventana fija que arranca
// en el primer intento y se reinicia completa al vencer.
//
// La decisión es binaria (permitido / bloqueado) con un hint de tiempo
// restante. Un intento bloqueado no consume cupo.
package rate

import (
	"context"
	"math"
	"strings"
	"time"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// RetryAfterSeconds redondea hacia arriba, nunca menos de 1 si está bloqueado.
func (r Result) RetryAfterSeconds() int {
	if r.Allowed {
		return 0
	}
	s := int(math.Ceil(r.RetryAfter.Seconds()))
	if s < 1 {
		s = 1
	}
	return s
}

// Limiter es el contrato común de los backends.
type Limiter interface {
	// CheckAndConsume registra un intento para key salvo que ya esté bloqueada.
	CheckAndConsume(ctx context.Context, key string, max int, window time.Duration) (Result, error)

	// Reset borra la ventana de key (login exitoso).
	Reset(ctx context.Context, key string) error
}

// LoginKey arma la clave (identificador, portal). El identificador se normaliza
// para que "Ana@x.io" y "ana@x.io " compartan ventana.
func LoginKey(portal, identifier string) string {
	return portal + "_login_" + strings.ToLower(strings.TrimSpace(identifier))
}

// Policy agrupa max + ventana para un tipo de intento.
type Policy struct {
	Max    int
	Window time.Duration
}

// DefaultLoginPolicy: 5 intentos cada 15 minutos.
var DefaultLoginPolicy = Policy{Max: 5, Window: 15 * time.Minute}
