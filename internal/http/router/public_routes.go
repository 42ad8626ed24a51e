package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
)

// registerPublicRoutes registra el snapshot para pollers y los streams SSE.
// Los streams exigen sesión del portal (el token viaja en ?access_token=).
func registerPublicRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Public
	r.Get("/public/active-group", c.ActiveGroup.Get)

	for _, portal := range []types.Portal{types.PortalAdmin, types.PortalClient} {
		r.With(use(mw.RequirePortal(d.Sessions, d.Audit, portal))...).
			Get("/"+string(portal)+"/notifications", c.Notifications.Stream(portal))
	}
}
