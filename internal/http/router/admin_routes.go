package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/tasktrack/internal/authz"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
)

// registerAdminRoutes registra /v1/admin/*. Todo exige token del portal admin;
// cada ruta agrega su permiso (admin vs admin primario).
func registerAdminRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Admin
	perm := func(obj, act string) func(http.Handler) http.Handler {
		return mw.RequirePermission(d.Authorizer, d.Audit, obj, act)
	}

	r.Group(func(ar chi.Router) {
		ar.Use(use(mw.RequirePortal(d.Sessions, d.Audit, types.PortalAdmin), mw.WithNoStore())...)

		ar.Route("/admin/principals", func(pr chi.Router) {
			pr.With(perm(authz.ObjPrincipals, authz.Read)).Get("/", c.Principals.List)
			pr.With(perm(authz.ObjPrincipals, authz.Write)).Post("/", c.Principals.Create)
			pr.With(perm(authz.ObjPrincipals, authz.Read)).Get("/{id}", c.Principals.Get)
			pr.With(perm(authz.ObjPrincipals, authz.Write)).Patch("/{id}", c.Principals.Update)
			pr.With(perm(authz.ObjPrincipals, authz.Write)).Delete("/{id}", c.Principals.Delete)
		})

		ar.Route("/admin/admins", func(pr chi.Router) {
			pr.With(perm(authz.ObjAdmins, authz.Read)).Get("/", c.Principals.ListAdmins)
			pr.With(perm(authz.ObjAdmins, authz.Write)).Post("/", c.Principals.CreateAdmin)
			pr.With(perm(authz.ObjAdmins, authz.Write)).Patch("/{id}", c.Principals.UpdateAdmin)
			pr.With(perm(authz.ObjAdmins, authz.Write)).Delete("/{id}", c.Principals.DeleteAdmin)
			pr.With(perm(authz.ObjPrimaryAdmin, authz.Write)).Put("/{id}/primary", c.Principals.SetPrimary)
		})

		ar.Route("/admin/groups", func(gr chi.Router) {
			gr.With(perm(authz.ObjGroups, authz.Read)).Get("/", c.Groups.List)
			gr.With(perm(authz.ObjGroups, authz.Write)).Post("/", c.Groups.Create)
			gr.With(perm(authz.ObjGroups, authz.Read)).Get("/public", c.Groups.ListPublic)
			gr.With(perm(authz.ObjGroups, authz.Read)).Get("/{id}", c.Groups.Get)
			gr.With(perm(authz.ObjGroups, authz.Read)).Get("/{id}/members", c.Groups.Members)
			gr.With(perm(authz.ObjGroups, authz.Write)).Patch("/{id}", c.Groups.Update)
			gr.With(perm(authz.ObjGroups, authz.Write)).Delete("/{id}", c.Groups.Delete)
			gr.With(perm(authz.ObjGroups, authz.Write)).Post("/{id}/activate", c.Groups.Activate)
			gr.With(perm(authz.ObjGroups, authz.Write)).Post("/{id}/deactivate", c.Groups.Deactivate)
			gr.With(perm(authz.ObjGroups, authz.Write)).Post("/{id}/toggle", c.Groups.Toggle)
		})

		ar.Route("/admin/tasks", func(tr chi.Router) {
			tr.With(perm(authz.ObjTasks, authz.Read)).Get("/", c.Tasks.List)
			tr.With(perm(authz.ObjTasks, authz.Write)).Post("/", c.Tasks.Create)
			tr.With(perm(authz.ObjTasks, authz.Read)).Get("/{id}", c.Tasks.Get)
			tr.With(perm(authz.ObjTasks, authz.Write)).Patch("/{id}", c.Tasks.Update)
			tr.With(perm(authz.ObjTasks, authz.Write)).Delete("/{id}", c.Tasks.Delete)
		})

		ar.With(perm(authz.ObjStats, authz.Read)).Get("/admin/dashboard", c.Dashboard.Overview)
		ar.With(perm(authz.ObjAudit, authz.Read)).Get("/admin/audit", c.Audit.Query)
	})
}
