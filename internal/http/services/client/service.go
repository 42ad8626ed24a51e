// Package client contiene los services del portal cliente. Todo opera sobre
// el grupo activo; el middleware ya lo resolvió, pero acá se vuelve a
// confirmar contra el store porque la vista cacheada puede estar atrasada.
package client

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/services/common"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// ErrWorkspaceUnavailable indica que el grupo pedido ya no es el activo.
var ErrWorkspaceUnavailable = errors.New("workspace unavailable")

// Board es lo que ve el portal cliente en su tablero.
type Board struct {
	Group *repository.Group `json:"group"`
	Tasks []repository.Task `json:"tasks"`
	Stats common.TaskStats  `json:"stats"`
}

// BoardFilter filtra el tablero. Campos vacíos no filtran.
type BoardFilter struct {
	Status     types.Status
	Priority   types.Priority
	AssigneeID string
	Search     string
}

// Service define las operaciones del portal cliente.
type Service interface {
	Board(ctx context.Context, groupID string, f BoardFilter) (*Board, error)
	CreateTask(ctx context.Context, groupID string, actor repository.Principal, draft common.TaskDraft) (*repository.Task, error)
	UpdateTask(ctx context.Context, groupID, taskID string, in repository.UpdateTaskInput) (*repository.Task, error)
	DeleteTask(ctx context.Context, groupID, taskID string) error

	// Team lista los miembros del grupo; nunca incluye cuentas admin.
	Team(ctx context.Context, groupID string) ([]repository.Principal, error)

	// Export escribe las tareas del grupo como CSV y registra EXPORT_TASKS.
	Export(ctx context.Context, groupID string, w io.Writer) (int, error)
}

// Deps contiene las dependencias del service cliente.
type Deps struct {
	Principals repository.PrincipalRepository
	Groups     repository.GroupRepository
	Tasks      repository.TaskRepository
	Audit      *audit.Recorder
	Now        func() time.Time
}

type service struct {
	d Deps
}

// NewService crea el service del portal cliente.
func NewService(d Deps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &service{d: d}
}

// active confirma que groupID sigue siendo el grupo activo.
func (s *service) active(ctx context.Context, groupID string) (*repository.Group, error) {
	g, err := s.d.Groups.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if g == nil || g.ID != groupID {
		return nil, ErrWorkspaceUnavailable
	}
	return g, nil
}

// taskInGroup carga la tarea y la esconde si es de otro grupo.
func (s *service) taskInGroup(ctx context.Context, groupID, taskID string) (*repository.Task, error) {
	t, err := s.d.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.GroupID != groupID {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (s *service) Board(ctx context.Context, groupID string, f BoardFilter) (*Board, error) {
	g, err := s.active(ctx, groupID)
	if err != nil {
		return nil, err
	}
	all, err := s.d.Tasks.List(ctx, repository.TaskFilter{GroupID: &g.ID})
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]repository.Task, 0, len(all))
	for _, t := range all {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		switch f.AssigneeID {
		case "":
		case "unassigned":
			if t.AssigneeID != nil {
				continue
			}
		default:
			if t.AssigneeID == nil || *t.AssigneeID != f.AssigneeID {
				continue
			}
		}
		if q != "" && !matches(t, q) {
			continue
		}
		out = append(out, t)
	}
	// las stats son del grupo completo, no del filtro
	return &Board{Group: g, Tasks: out, Stats: common.ComputeStats(all, s.d.Now())}, nil
}

func matches(t repository.Task, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), q)
}

func (s *service) checkAssignee(ctx context.Context, groupID string, id *string) error {
	if id == nil {
		return nil
	}
	p, err := s.d.Principals.GetByID(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		return common.Invalid("assignee %s does not exist", *id)
	}
	if err != nil {
		return err
	}
	rec := p.Record()
	if rec.IsAdmin || rec.GroupID == nil || *rec.GroupID != groupID {
		return common.Invalid("assignee must be a member of the workspace")
	}
	return nil
}

func (s *service) CreateTask(ctx context.Context, groupID string, actor repository.Principal, draft common.TaskDraft) (*repository.Task, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("client"),
		logger.Op("CreateTask"),
	)

	in, err := common.NewTaskInput(draft, groupID, actor.PrincipalID(), s.d.Now().UTC())
	if err != nil {
		return nil, err
	}
	if _, err := s.active(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, groupID, in.AssigneeID); err != nil {
		return nil, err
	}

	t, err := s.d.Tasks.Create(ctx, in)
	if err != nil {
		log.Error("create failed", logger.Err(err))
		return nil, err
	}
	s.d.Audit.Record(ctx, audit.ActionCreate, audit.EntityTask, t.ID, map[string]any{
		"title":   t.Title,
		"groupId": groupID,
		"status":  t.Status,
	})
	return t, nil
}

func (s *service) UpdateTask(ctx context.Context, groupID, taskID string, in repository.UpdateTaskInput) (*repository.Task, error) {
	if err := common.ValidateTaskUpdate(in); err != nil {
		return nil, err
	}
	if _, err := s.active(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.taskInGroup(ctx, groupID, taskID); err != nil {
		return nil, err
	}
	if in.AssigneeID.Set {
		if err := s.checkAssignee(ctx, groupID, in.AssigneeID.Value); err != nil {
			return nil, err
		}
	}
	in.At = s.d.Now().UTC()

	ch, err := s.d.Tasks.Update(ctx, taskID, in)
	if err != nil {
		return nil, err
	}
	s.d.Audit.Record(ctx, audit.ActionUpdate, audit.EntityTask, taskID, common.TaskChangeDetails(ch))
	return &ch.After, nil
}

func (s *service) DeleteTask(ctx context.Context, groupID, taskID string) error {
	if _, err := s.active(ctx, groupID); err != nil {
		return err
	}
	t, err := s.taskInGroup(ctx, groupID, taskID)
	if err != nil {
		return err
	}
	if err := s.d.Tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	s.d.Audit.Record(ctx, audit.ActionDelete, audit.EntityTask, taskID, map[string]any{
		"title":   t.Title,
		"groupId": groupID,
	})
	return nil
}

func (s *service) Team(ctx context.Context, groupID string) ([]repository.Principal, error) {
	if _, err := s.active(ctx, groupID); err != nil {
		return nil, err
	}
	notAdmin := false
	return s.d.Principals.List(ctx, repository.PrincipalFilter{IsAdmin: &notAdmin, GroupID: &groupID})
}

var exportHeader = []string{"id", "title", "description", "status", "priority", "assignee", "due_date", "completed_at", "created_at"}

func (s *service) Export(ctx context.Context, groupID string, w io.Writer) (int, error) {
	g, err := s.active(ctx, groupID)
	if err != nil {
		return 0, err
	}
	tasks, err := s.d.Tasks.List(ctx, repository.TaskFilter{GroupID: &g.ID})
	if err != nil {
		return 0, err
	}
	team, err := s.Team(ctx, groupID)
	if err != nil {
		return 0, err
	}
	names := make(map[string]string, len(team))
	for _, p := range team {
		names[p.PrincipalID()] = p.Name()
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}
	for _, t := range tasks {
		assignee := ""
		if t.AssigneeID != nil {
			assignee = names[*t.AssigneeID]
		}
		row := []string{
			t.ID, t.Title, deref(t.Description), string(t.Status), string(t.Priority),
			assignee, fmtTime(t.DueDate), fmtTime(t.CompletedAt), t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	s.d.Audit.Record(ctx, audit.ActionExportTasks, audit.EntityGroup, g.ID, map[string]any{
		"groupName": g.Name,
		"count":     len(tasks),
	})
	return len(tasks), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fmtTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
