package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
)

// registerAuthRoutes registra login/logout/me de cada portal. Cada portal es
// su propio entry point: /v1/admin/login nunca emite tokens de cliente.
func registerAuthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Auth.Session
	for _, p := range []types.Portal{types.PortalAdmin, types.PortalClient} {
		base := "/" + string(p)
		r.With(use(mw.WithNoStore())...).Post(base+"/login", c.Login(p))
		r.Post(base+"/logout", c.Logout(p))
		r.With(use(mw.RequirePortal(d.Sessions, d.Audit, p))...).Get(base+"/me", c.Me)
	}
}
