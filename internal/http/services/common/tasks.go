package common

import (
	"strings"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

// TaskDraft son los campos que un caller puede mandar para crear una tarea.
type TaskDraft struct {
	Title       string
	Description *string
	AssigneeID  *string
	Priority    types.Priority
	Status      types.Status
	DueDate     *time.Time
}

// NewTaskInput valida el borrador y completa defaults (medium / pending).
func NewTaskInput(d TaskDraft, groupID, createdBy string, at time.Time) (repository.CreateTaskInput, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return repository.CreateTaskInput{}, Invalid("title is required")
	}
	if d.Priority == "" {
		d.Priority = types.PriorityMedium
	}
	if !d.Priority.IsValid() {
		return repository.CreateTaskInput{}, Invalid("unknown priority %q", d.Priority)
	}
	if d.Status == "" {
		d.Status = types.StatusPending
	}
	if !d.Status.IsValid() {
		return repository.CreateTaskInput{}, Invalid("unknown status %q", d.Status)
	}
	return repository.CreateTaskInput{
		Title:       title,
		Description: d.Description,
		AssigneeID:  emptyToNil(d.AssigneeID),
		GroupID:     groupID,
		CreatedBy:   createdBy,
		Priority:    d.Priority,
		Status:      d.Status,
		DueDate:     d.DueDate,
		At:          at,
	}, nil
}

// ValidateTaskUpdate rechaza updates vacíos o con enums desconocidos.
func ValidateTaskUpdate(in repository.UpdateTaskInput) error {
	if in.Empty() {
		return ErrNoFieldsToUpdate
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return Invalid("title cannot be empty")
	}
	if in.Priority != nil && !in.Priority.IsValid() {
		return Invalid("unknown priority %q", *in.Priority)
	}
	if in.Status != nil && !in.Status.IsValid() {
		return Invalid("unknown status %q", *in.Status)
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// TaskChangeDetails arma el payload de auditoría de un update de tarea.
func TaskChangeDetails(ch *repository.TaskChange) map[string]any {
	d := map[string]any{"title": ch.After.Title, "groupId": ch.After.GroupID}
	if ch.Before.Status != ch.After.Status {
		d["previousStatus"] = ch.Before.Status
		d["status"] = ch.After.Status
	}
	if ch.Before.Priority != ch.After.Priority {
		d["previousPriority"] = ch.Before.Priority
		d["priority"] = ch.After.Priority
	}
	return d
}
