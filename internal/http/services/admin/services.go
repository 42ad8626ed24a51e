// Package admin contiene los services del portal admin.
package admin

import (
	"context"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/notify"
	"github.com/dropDatabas3/tasktrack/internal/security/password"
)

// SnapshotPublisher difunde el nuevo estado a las vistas cacheadas.
// Lo implementa *propagation.Propagator.
type SnapshotPublisher interface {
	Publish(ctx context.Context, topic string, value any) error
}

// Deps contiene las dependencias para crear los services admin.
type Deps struct {
	Principals repository.PrincipalRepository
	Groups     repository.GroupRepository
	Tasks      repository.TaskRepository
	Audit      *audit.Recorder

	Hasher         password.Hasher
	PasswordPolicy password.Policy

	// Opcionales.
	Publisher SnapshotPublisher
	Notifier  *notify.Hub
	Now       func() time.Time
}

// Services agrupa todos los services del dominio admin.
type Services struct {
	Principals PrincipalService
	Groups     GroupService
	Tasks      TaskService
	Dashboard  DashboardService
	Audit      AuditService
}

// NewServices crea el agregador de services admin.
func NewServices(d Deps) Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Hasher == nil {
		d.Hasher = password.Bcrypt{}
	}
	if d.PasswordPolicy.MinLength == 0 {
		d.PasswordPolicy = password.DefaultPolicy
	}
	return Services{
		Principals: NewPrincipalService(d),
		Groups:     NewGroupService(d),
		Tasks:      NewTaskService(d),
		Dashboard:  NewDashboardService(d),
		Audit:      NewAuditService(d.Audit),
	}
}
