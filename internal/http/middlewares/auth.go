package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	authsvc "github.com/dropDatabas3/tasktrack/internal/http/services/auth"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
	tokens "github.com/dropDatabas3/tasktrack/internal/security/token"
)

// ForbiddenPath es el destino de un rechazo por rol dentro del mismo portal.
const ForbiddenPath = "/403"

// SessionValidator es la parte del service de auth que usan los guards.
type SessionValidator interface {
	Validate(ctx context.Context, token string, portal types.Portal) (repository.Principal, *tokens.Session, error)
}

// Authorizer decide permisos dentro de un portal.
type Authorizer interface {
	Allow(p repository.Principal, obj, act string) bool
}

// BearerToken extrae el token de Authorization. EventSource no puede mandar
// headers, así que en GET también se acepta ?access_token=.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

// RequirePortal exige una sesión válida del portal dado.
//
// Sin token o con token de otro portal se responde 401 redirigiendo al login
// del portal de la ruta, nunca a /403: así no se confirma que el otro portal
// existe para ese usuario.
func RequirePortal(v SessionValidator, rec *audit.Recorder, portal types.Portal) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			login := portal.LoginPath()

			raw := BearerToken(r)
			if raw == "" {
				httperrors.WriteError(w, httperrors.ErrTokenMissing.WithRedirect(login))
				return
			}

			p, sess, err := v.Validate(ctx, raw, portal)
			switch {
			case err == nil:
			case errors.Is(err, authsvc.ErrWrongPortal):
				rec.Security(ctx, audit.EventUnauthorizedAttempt, map[string]any{
					"reason": "wrong_portal",
					"portal": portal,
					"path":   r.URL.Path,
				})
				httperrors.WriteError(w, httperrors.ErrUnauthorized.WithRedirect(login))
				return
			case errors.Is(err, authsvc.ErrSessionExpired):
				httperrors.WriteError(w, httperrors.ErrSessionExpired.WithRedirect(login))
				return
			case errors.Is(err, authsvc.ErrInvalidSession):
				httperrors.WriteError(w, httperrors.ErrUnauthorized.WithRedirect(login))
				return
			default:
				logger.From(ctx).Error("session validation failed", logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
				return
			}

			ctx = WithPrincipal(ctx, p)
			ctx = WithSession(ctx, sess)
			ctx = audit.WithActor(ctx, audit.Actor{ID: p.PrincipalID(), Name: p.Name()})
			ctx = logger.ToContext(ctx, logger.From(ctx).With(
				logger.PrincipalID(p.PrincipalID()),
				logger.Portal(string(portal)),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission exige que el principal (ya autenticado) tenga act sobre obj.
// El rechazo es 403 con redirect a /403: el usuario está en su portal pero
// no le alcanza el rol.
func RequirePermission(az Authorizer, rec *audit.Recorder, obj, act string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if !az.Allow(p, obj, act) {
				rec.Security(r.Context(), audit.EventForbiddenAccess, map[string]any{
					"object": obj,
					"action": act,
					"path":   r.URL.Path,
				})
				httperrors.WriteError(w, httperrors.ErrForbidden.WithRedirect(ForbiddenPath))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
