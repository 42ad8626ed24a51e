package admin

import (
	"context"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/http/services/common"
)

// Dashboard es el resumen del panel admin.
type Dashboard struct {
	Tasks       common.TaskStats  `json:"tasks"`
	Groups      int               `json:"groups"`
	Principals  int               `json:"principals"`
	Admins      int               `json:"admins"`
	ActiveGroup *repository.Group `json:"active_group"`
}

// DashboardService calcula las métricas de los dashboards.
type DashboardService interface {
	// Overview resume todo el sistema, o un solo grupo si groupID no es vacío.
	Overview(ctx context.Context, groupID string) (*Dashboard, error)
}

type dashboardService struct {
	d Deps
}

func NewDashboardService(d Deps) DashboardService {
	return &dashboardService{d: d}
}

func (s *dashboardService) Overview(ctx context.Context, groupID string) (*Dashboard, error) {
	var tf repository.TaskFilter
	if groupID != "" {
		if _, err := s.d.Groups.GetByID(ctx, groupID); err != nil {
			return nil, err
		}
		tf.GroupID = &groupID
	}
	tasks, err := s.d.Tasks.List(ctx, tf)
	if err != nil {
		return nil, err
	}
	groups, err := s.d.Groups.List(ctx)
	if err != nil {
		return nil, err
	}
	principals, err := s.d.Principals.List(ctx, repository.PrincipalFilter{})
	if err != nil {
		return nil, err
	}
	admins, err := s.d.Principals.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.d.Groups.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Tasks:       common.ComputeStats(tasks, s.d.Now()),
		Groups:      len(groups),
		Principals:  len(principals),
		Admins:      admins,
		ActiveGroup: active,
	}, nil
}
