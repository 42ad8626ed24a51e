package middlewares

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	"github.com/dropDatabas3/tasktrack/internal/metrics"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// NoGroupsPath es el estado terminal del portal cliente sin grupo activo.
const NoGroupsPath = "/no-groups"

// ActiveGroupSource resuelve el grupo activo (nil si no hay).
type ActiveGroupSource interface {
	Active(ctx context.Context) (*repository.Group, error)
}

// RequireActiveWorkspace corta el request antes del handler cuando no hay
// grupo activo: el handler protegido nunca corre, así que no puede filtrarse
// ningún dato de tareas o grupos.
func RequireActiveWorkspace(src ActiveGroupSource, rec *audit.Recorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			g, err := src.Active(ctx)
			if err != nil {
				logger.From(ctx).Error("active group lookup failed", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
				return
			}
			if g == nil {
				metrics.BlockedWorkspaceTotal.Inc()
				rec.Security(ctx, audit.EventUnauthorizedGroupAccess, map[string]any{
					"reason": "no_active_group",
					"path":   r.URL.Path,
				})
				httperrors.WriteError(w, httperrors.ErrWorkspaceUnavailable.WithRedirect(NoGroupsPath))
				return
			}
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.GroupID(g.ID)))
			next.ServeHTTP(w, r.WithContext(WithActiveGroup(ctx, g)))
		})
	}
}
