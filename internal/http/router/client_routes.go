package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/tasktrack/internal/authz"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
)

// registerClientRoutes registra /v1/client/*. /workspace queda fuera del guard
// de grupo activo porque es justamente la que informa el bloqueo.
func registerClientRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Client
	perm := func(obj, act string) func(http.Handler) http.Handler {
		return mw.RequirePermission(d.Authorizer, d.Audit, obj, act)
	}

	r.Group(func(cr chi.Router) {
		cr.Use(use(mw.RequirePortal(d.Sessions, d.Audit, types.PortalClient), mw.WithNoStore())...)

		cr.With(perm(authz.ObjWorkspace, authz.Read)).Get("/client/workspace", c.Workspace.Get)

		cr.Group(func(wr chi.Router) {
			wr.Use(use(mw.RequireActiveWorkspace(d.Workspace, d.Audit))...)

			wr.With(perm(authz.ObjBoard, authz.Read)).Get("/client/board", c.Board.Board)
			wr.With(perm(authz.ObjTeam, authz.Read)).Get("/client/team", c.Board.Team)
			wr.With(perm(authz.ObjExport, authz.Read)).Get("/client/tasks/export", c.Board.Export)
			wr.With(perm(authz.ObjOwnTasks, authz.Write)).Post("/client/tasks", c.Board.CreateTask)
			wr.With(perm(authz.ObjOwnTasks, authz.Write)).Patch("/client/tasks/{id}", c.Board.UpdateTask)
			wr.With(perm(authz.ObjOwnTasks, authz.Write)).Delete("/client/tasks/{id}", c.Board.DeleteTask)
		})
	})
}
