package admin

import (
	"context"
	"errors"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/http/services/common"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// TaskService es el CRUD de tareas del portal admin (cualquier grupo).
type TaskService interface {
	List(ctx context.Context, filter repository.TaskFilter) ([]repository.Task, error)
	Get(ctx context.Context, id string) (*repository.Task, error)
	Create(ctx context.Context, groupID, createdBy string, draft common.TaskDraft) (*repository.Task, error)
	Update(ctx context.Context, id string, in repository.UpdateTaskInput) (*repository.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	d Deps
}

// NewTaskService crea el service de tareas.
func NewTaskService(d Deps) TaskService {
	return &taskService{d: d}
}

func (s *taskService) List(ctx context.Context, f repository.TaskFilter) ([]repository.Task, error) {
	return s.d.Tasks.List(ctx, f)
}

func (s *taskService) Get(ctx context.Context, id string) (*repository.Task, error) {
	return s.d.Tasks.GetByID(ctx, id)
}

func (s *taskService) checkAssignee(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	_, err := s.d.Principals.GetByID(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		return common.Invalid("assignee %s does not exist", *id)
	}
	return err
}

func (s *taskService) Create(ctx context.Context, groupID, createdBy string, draft common.TaskDraft) (*repository.Task, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.tasks"),
		logger.Op("Create"),
		logger.GroupID(groupID),
	)

	in, err := common.NewTaskInput(draft, groupID, createdBy, s.d.Now().UTC())
	if err != nil {
		return nil, err
	}
	if groupID == "" {
		return nil, common.Invalid("group is required")
	}
	if _, err := s.d.Groups.GetByID(ctx, groupID); err != nil {
		if repository.IsNotFound(err) {
			return nil, common.Invalid("group %s does not exist", groupID)
		}
		return nil, err
	}
	if err := s.checkAssignee(ctx, in.AssigneeID); err != nil {
		return nil, err
	}

	t, err := s.d.Tasks.Create(ctx, in)
	if err != nil {
		log.Error("create failed", logger.Err(err))
		return nil, err
	}
	s.d.Audit.Record(ctx, audit.ActionCreate, audit.EntityTask, t.ID, map[string]any{
		"title":   t.Title,
		"groupId": t.GroupID,
		"status":  t.Status,
	})
	log.Info("task created", logger.TaskID(t.ID))
	return t, nil
}

func (s *taskService) Update(ctx context.Context, id string, in repository.UpdateTaskInput) (*repository.Task, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.tasks"),
		logger.Op("Update"),
		logger.TaskID(id),
	)

	if err := common.ValidateTaskUpdate(in); err != nil {
		return nil, err
	}
	if in.AssigneeID.Set {
		if err := s.checkAssignee(ctx, in.AssigneeID.Value); err != nil {
			return nil, err
		}
	}
	in.At = s.d.Now().UTC()

	ch, err := s.d.Tasks.Update(ctx, id, in)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Error("update failed", logger.Err(err))
		}
		return nil, err
	}
	s.d.Audit.Record(ctx, audit.ActionUpdate, audit.EntityTask, id, common.TaskChangeDetails(ch))
	return &ch.After, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	t, err := s.d.Tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.d.Tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.d.Audit.Record(ctx, audit.ActionDelete, audit.EntityTask, id, map[string]any{
		"title":   t.Title,
		"groupId": t.GroupID,
	})
	return nil
}
