package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/http/services/common"
	"github.com/dropDatabas3/tasktrack/internal/metrics"
	"github.com/dropDatabas3/tasktrack/internal/notify"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
	"github.com/dropDatabas3/tasktrack/internal/propagation"
)

// GroupService es el registro de grupos. La visibilidad solo cambia por
// SetActive / Deactivate (o Update con IsPublic, que pasa por los mismos caminos).
type GroupService interface {
	List(ctx context.Context) ([]repository.Group, error)
	ListPublic(ctx context.Context) ([]repository.Group, error)
	Get(ctx context.Context, id string) (*repository.Group, error)
	GetActive(ctx context.Context) (*repository.Group, error)
	Members(ctx context.Context, id string) ([]repository.Principal, error)

	Create(ctx context.Context, in repository.CreateGroupInput) (*repository.Group, error)
	Update(ctx context.Context, id string, in UpdateGroup) (*repository.Group, error)

	// Delete desasigna a los miembros y después borra el grupo.
	Delete(ctx context.Context, id string) (clearedMembers int, err error)

	SetActive(ctx context.Context, id string) ([]repository.VisibilityChange, error)
	Deactivate(ctx context.Context, id string) ([]repository.VisibilityChange, error)
	Toggle(ctx context.Context, id string) ([]repository.VisibilityChange, error)
}

// UpdateGroup combina los campos editables con un cambio opcional de visibilidad.
type UpdateGroup struct {
	Fields   repository.UpdateGroupInput
	IsPublic *bool
}

type groupService struct {
	d Deps
}

// NewGroupService crea el service de grupos.
func NewGroupService(d Deps) GroupService {
	return &groupService{d: d}
}

func (s *groupService) List(ctx context.Context) ([]repository.Group, error) {
	return s.d.Groups.List(ctx)
}

func (s *groupService) ListPublic(ctx context.Context) ([]repository.Group, error) {
	return s.d.Groups.ListPublic(ctx)
}

func (s *groupService) Get(ctx context.Context, id string) (*repository.Group, error) {
	return s.d.Groups.GetByID(ctx, id)
}

func (s *groupService) GetActive(ctx context.Context) (*repository.Group, error) {
	return s.d.Groups.GetActive(ctx)
}

func (s *groupService) Members(ctx context.Context, id string) ([]repository.Principal, error) {
	if _, err := s.d.Groups.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.d.Principals.List(ctx, repository.PrincipalFilter{GroupID: &id})
}

func (s *groupService) checkLeader(ctx context.Context, leaderID *string) error {
	if leaderID == nil {
		return nil
	}
	_, err := s.d.Principals.GetByID(ctx, *leaderID)
	if errors.Is(err, repository.ErrNotFound) {
		return common.Invalid("leader %s does not exist", *leaderID)
	}
	return err
}

func (s *groupService) Create(ctx context.Context, in repository.CreateGroupInput) (*repository.Group, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.groups"),
		logger.Op("Create"),
	)

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, common.Invalid("group name is required")
	}
	if err := s.checkLeader(ctx, in.LeaderID); err != nil {
		return nil, err
	}

	g, err := s.d.Groups.Create(ctx, in)
	if err != nil {
		if !repository.IsConflict(err) {
			log.Error("create failed", logger.Err(err))
		}
		return nil, err
	}

	s.d.Audit.Record(ctx, audit.ActionCreate, audit.EntityGroup, g.ID, map[string]any{
		"name":     g.Name,
		"isPublic": g.IsPublic,
	})
	log.Info("group created", logger.GroupID(g.ID))
	return g, nil
}

func (s *groupService) Update(ctx context.Context, id string, in UpdateGroup) (*repository.Group, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.groups"),
		logger.Op("Update"),
		logger.GroupID(id),
	)

	if in.Fields.Empty() && in.IsPublic == nil {
		return nil, common.ErrNoFieldsToUpdate
	}
	if in.Fields.Name != nil {
		n := strings.TrimSpace(*in.Fields.Name)
		if n == "" {
			return nil, common.Invalid("group name cannot be empty")
		}
		in.Fields.Name = &n
	}
	if in.Fields.LeaderID.Set {
		if err := s.checkLeader(ctx, in.Fields.LeaderID.Value); err != nil {
			return nil, err
		}
	}

	var g *repository.Group
	var err error
	if !in.Fields.Empty() {
		g, err = s.d.Groups.Update(ctx, id, in.Fields)
		if err != nil {
			if !repository.IsConflict(err) && !repository.IsNotFound(err) {
				log.Error("update failed", logger.Err(err))
			}
			return nil, err
		}
		s.d.Audit.Record(ctx, audit.ActionUpdate, audit.EntityGroup, id, map[string]any{
			"name":   g.Name,
			"fields": changedGroupFields(in.Fields),
		})
	}

	if in.IsPublic != nil {
		if *in.IsPublic {
			_, err = s.SetActive(ctx, id)
		} else {
			_, err = s.Deactivate(ctx, id)
		}
		if err != nil {
			return nil, err
		}
	}

	return s.d.Groups.GetByID(ctx, id)
}

func changedGroupFields(in repository.UpdateGroupInput) []string {
	var f []string
	if in.Name != nil {
		f = append(f, "name")
	}
	if in.Description.Set {
		f = append(f, "description")
	}
	if in.LeaderID.Set {
		f = append(f, "leaderId")
	}
	return f
}

func (s *groupService) Delete(ctx context.Context, id string) (int, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.groups"),
		logger.Op("Delete"),
		logger.GroupID(id),
	)

	g, err := s.d.Groups.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	// precondición del registro: el grupo no puede tener miembros
	cleared, err := s.d.Principals.ClearGroup(ctx, id)
	if err != nil {
		log.Error("clear members failed", logger.Err(err))
		return 0, err
	}
	if err := s.d.Groups.Delete(ctx, id); err != nil {
		log.Error("delete failed", logger.Err(err))
		return cleared, err
	}

	s.d.Audit.Record(ctx, audit.ActionDelete, audit.EntityGroup, id, map[string]any{
		"name":           g.Name,
		"wasPublic":      g.IsPublic,
		"clearedMembers": cleared,
	})
	if g.IsPublic {
		s.publish(ctx, nil)
	}
	log.Info("group deleted", logger.Count(cleared))
	return cleared, nil
}

func (s *groupService) SetActive(ctx context.Context, id string) ([]repository.VisibilityChange, error) {
	changes, err := s.d.Groups.SetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterVisibility(ctx, changes)
	return changes, nil
}

func (s *groupService) Deactivate(ctx context.Context, id string) ([]repository.VisibilityChange, error) {
	changes, err := s.d.Groups.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterVisibility(ctx, changes)
	return changes, nil
}

func (s *groupService) Toggle(ctx context.Context, id string) ([]repository.VisibilityChange, error) {
	g, err := s.d.Groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.IsPublic {
		return s.Deactivate(ctx, id)
	}
	return s.SetActive(ctx, id)
}

// afterVisibility corre después de que el cambio ya quedó persistido:
// una entrada TOGGLE_VISIBILITY por grupo que cambió de verdad y después
// el snapshot nuevo a las vistas.
func (s *groupService) afterVisibility(ctx context.Context, changes []repository.VisibilityChange) {
	if len(changes) == 0 {
		return
	}
	var active *repository.Group
	for i := range changes {
		ch := changes[i]
		s.d.Audit.Record(ctx, audit.ActionToggleVisibility, audit.EntityGroup, ch.Group.ID, map[string]any{
			"name":     ch.Group.Name,
			"previous": ch.Previous,
			"current":  ch.Current,
		})
		dir := "deactivated"
		if ch.Current {
			dir = "activated"
			active = &ch.Group
		}
		metrics.VisibilityChangesTotal.WithLabelValues(dir).Inc()
	}
	s.publish(ctx, active)
}

func (s *groupService) publish(ctx context.Context, active *repository.Group) {
	log := logger.From(ctx).With(logger.Component("admin.groups"), logger.Op("publish"))

	if s.d.Publisher != nil {
		snap := propagation.ActiveGroup{Group: active}
		if err := s.d.Publisher.Publish(ctx, propagation.TopicActiveGroup, snap); err != nil {
			// las vistas convergen igual en el próximo poll
			log.Warn("snapshot broadcast failed", logger.Err(err))
		}
	}

	if s.d.Notifier != nil {
		n := notify.Notification{
			ID:       "workspace:none:" + fmt.Sprint(s.d.Now().UnixNano()),
			Message:  "No hay un workspace activo en este momento.",
			Severity: notify.SeverityWarning,
			Portal:   "client",
		}
		if active != nil {
			n.ID = fmt.Sprintf("workspace:%s:%d", active.ID, active.UpdatedAt.UnixNano())
			n.Message = fmt.Sprintf("El workspace activo ahora es %q.", active.Name)
			n.Severity = notify.SeverityInfo
		}
		s.d.Notifier.Publish(n)
	}
}
