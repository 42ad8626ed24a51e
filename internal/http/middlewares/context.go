package middlewares

import (
	"context"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	tokens "github.com/dropDatabas3/tasktrack/internal/security/token"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	ctxPrincipalKey ctxKey = "principal"
	ctxSessionKey   ctxKey = "session"
	ctxRequestIDKey ctxKey = "request_id"
)

// =================================================================================
// SETTERS
// =================================================================================

// WithPrincipal inyecta el principal autenticado.
func WithPrincipal(ctx context.Context, p repository.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

// WithSession inyecta la sesión decodificada.
func WithSession(ctx context.Context, s *tokens.Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey, s)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// GETTERS
// =================================================================================

// GetPrincipal retorna el principal del request o nil si la ruta no pasó por RequirePortal.
func GetPrincipal(ctx context.Context) repository.Principal {
	if p, ok := ctx.Value(ctxPrincipalKey).(repository.Principal); ok {
		return p
	}
	return nil
}

// GetAdmin retorna el principal solo si es de la clase admin.
func GetAdmin(ctx context.Context) *repository.AdminPrincipal {
	a, _ := GetPrincipal(ctx).(*repository.AdminPrincipal)
	return a
}

// GetClient retorna el principal solo si es de la clase cliente.
func GetClient(ctx context.Context) *repository.ClientPrincipal {
	c, _ := GetPrincipal(ctx).(*repository.ClientPrincipal)
	return c
}

// GetSession retorna la sesión del request o nil.
func GetSession(ctx context.Context) *tokens.Session {
	s, _ := ctx.Value(ctxSessionKey).(*tokens.Session)
	return s
}

// GetRequestID retorna el request ID o "".
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}

const ctxActiveGroupKey ctxKey = "active_group"

// WithActiveGroup inyecta el grupo activo resuelto por RequireActiveWorkspace.
func WithActiveGroup(ctx context.Context, g *repository.Group) context.Context {
	return context.WithValue(ctx, ctxActiveGroupKey, g)
}

// GetActiveGroup retorna el grupo activo o nil.
func GetActiveGroup(ctx context.Context) *repository.Group {
	g, _ := ctx.Value(ctxActiveGroupKey).(*repository.Group)
	return g
}
