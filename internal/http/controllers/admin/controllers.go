// Package admin contiene los controllers del portal admin.
package admin

import svc "github.com/dropDatabas3/tasktrack/internal/http/services/admin"

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Principals *PrincipalsController
	Groups     *GroupsController
	Tasks      *TasksController
	Dashboard  *DashboardController
	Audit      *AuditController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Principals: NewPrincipalsController(s.Principals),
		Groups:     NewGroupsController(s.Groups),
		Tasks:      NewTasksController(s.Tasks),
		Dashboard:  NewDashboardController(s.Dashboard),
		Audit:      NewAuditController(s.Audit),
	}
}
