package audit

import "context"

// Actor identifica al principal que ejecuta una acción.
type Actor struct {
	ID   string
	Name string
}

type ctxKey struct{}

// WithActor inyecta el actor en el contexto. Lo usan los middlewares de auth.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ActorFrom obtiene el actor del contexto, si hay.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok && a.ID != ""
}
