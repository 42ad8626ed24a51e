// Package controllers agrupa todos los controllers HTTP.
// Este es el "composition root" de controllers.
//
//	svcs  := services.New(deps)               ← crear todos los services
//	ctrls := controllers.New(svcs, ctrlDeps)  ← crear controllers con services
//	h     := router.New(router.Deps{...})     ← registrar rutas con controllers
//	srv   := server.New(addr, h)              ← iniciar servidor
package controllers

import (
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/admin"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/auth"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/client"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/health"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/public"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	"github.com/dropDatabas3/tasktrack/internal/http/services"
)

// Controllers agrupa todos los sub-controllers por dominio.
type Controllers struct {
	Auth   *auth.Controllers   // login, logout, me (ambos portales)
	Admin  *admin.Controllers  // principals, grupos, tareas, dashboard, audit
	Client *client.Controllers // workspace, tablero, equipo, export
	Health *health.Controllers // healthz, readyz
	Public *public.Controllers // snapshot del grupo activo, notificaciones
}

// Deps es lo que los controllers necesitan además de los services.
type Deps struct {
	Workspace mw.ActiveGroupSource
	Public    public.Deps
}

// New crea el agregador de controllers. Los services ya deben estar creados
// via services.New(deps).
func New(svc *services.Services, d Deps) *Controllers {
	return &Controllers{
		Auth:   auth.NewControllers(svc.Auth),
		Admin:  admin.NewControllers(svc.Admin),
		Client: client.NewControllers(svc.Client, d.Workspace),
		Health: health.NewControllers(svc.Health),
		Public: public.NewControllers(d.Public),
	}
}
