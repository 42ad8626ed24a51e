// Package router arma el árbol de rutas HTTP (chi).
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
)

// Deps contiene todo lo que necesita el router.
type Deps struct {
	Controllers *controllers.Controllers

	// Guards
	Sessions   mw.SessionValidator
	Authorizer mw.Authorizer
	Workspace  mw.ActiveGroupSource
	Audit      *audit.Recorder

	// Infra
	CORSOrigins []string
	Throttle    mw.ThrottleConfig
	Metrics     http.Handler // opcional: /metrics
}

// New registra todas las rutas y devuelve el handler raíz.
//
// Orden global: request id → logging → recover → security headers → metrics
// → CORS → throttle. Los guards de portal van por grupo de rutas.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
		mw.WithMetrics(),
		mw.WithCORS(d.CORSOrigins),
		mw.WithThrottle(d.Throttle),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)
	r.Route("/v1", func(v1 chi.Router) {
		registerAuthRoutes(v1, d)
		registerAdminRoutes(v1, d)
		registerClientRoutes(v1, d)
		registerPublicRoutes(v1, d)
	})
	return r
}

// use convierte nuestros Middleware al tipo que espera chi.
func use(mws ...mw.Middleware) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, len(mws))
	for i, m := range mws {
		out[i] = m
	}
	return out
}
