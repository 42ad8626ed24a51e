// Package health contiene el service para health checks.
package health

import (
	"context"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// Status de un componente o del servicio completo.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Response es el cuerpo de /readyz.
type Response struct {
	Status     Status            `json:"status"`
	Components map[string]Status `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Deps: cada check es opcional. Un check nil no aparece en la respuesta.
type Deps struct {
	DBCheck    func(ctx context.Context) error
	CacheCheck func(ctx context.Context) error
	// WorkspaceCheck solo informa: sin grupo activo el servicio sigue sano.
	WorkspaceCheck func(ctx context.Context) (blocked bool, err error)
}

// Service define las operaciones de health check.
type Service interface {
	Check(ctx context.Context) Response
}

type service struct {
	d Deps
}

func NewService(d Deps) Service { return &service{d: d} }

func (s *service) Check(ctx context.Context) Response {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp := Response{Status: StatusOK, Components: map[string]Status{}, Timestamp: time.Now().UTC()}

	if s.d.DBCheck != nil {
		if err := s.d.DBCheck(ctx); err != nil {
			log.Warn("db check failed", logger.Err(err))
			resp.Components["db"] = StatusDown
			resp.Status = StatusDown
		} else {
			resp.Components["db"] = StatusOK
		}
	}
	if s.d.CacheCheck != nil {
		if err := s.d.CacheCheck(ctx); err != nil {
			log.Warn("cache check failed", logger.Err(err))
			resp.Components["cache"] = StatusDegraded
			if resp.Status == StatusOK {
				resp.Status = StatusDegraded
			}
		} else {
			resp.Components["cache"] = StatusOK
		}
	}
	if s.d.WorkspaceCheck != nil {
		blocked, err := s.d.WorkspaceCheck(ctx)
		switch {
		case err != nil:
			resp.Components["workspace"] = StatusDegraded
		case blocked:
			resp.Components["workspace"] = StatusDegraded
		default:
			resp.Components["workspace"] = StatusOK
		}
	}
	return resp
}
