package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

// Task es una unidad de trabajo dentro de un grupo.
type Task struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	AssigneeID  *string        `json:"assignee_id,omitempty"`
	GroupID     string         `json:"group_id"`
	CreatedBy   string         `json:"created_by"`
	Priority    types.Priority `json:"priority"`
	Status      types.Status   `json:"status"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TransitionTo cambia el estado manteniendo CompletedAt derivado:
// entrar a completed lo setea en at, salir de completed lo limpia,
// quedarse en el mismo estado lo preserva.
func (t *Task) TransitionTo(next types.Status, at time.Time) {
	prev := t.Status
	t.Status = next
	switch {
	case next == types.StatusCompleted && prev != types.StatusCompleted:
		ts := at
		t.CompletedAt = &ts
	case next != types.StatusCompleted:
		t.CompletedAt = nil
	}
}

// Overdue reporta si la tarea venció sin completarse.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != types.StatusCompleted && t.DueDate.Before(now)
}

// CreateTaskInput contiene los datos para crear una tarea.
// Status y Priority ya vienen con defaults aplicados por el service.
type CreateTaskInput struct {
	Title       string
	Description *string
	AssigneeID  *string
	GroupID     string
	CreatedBy   string
	Priority    types.Priority
	Status      types.Status
	DueDate     *time.Time
	At          time.Time
}

// UpdateTaskInput contiene los campos a actualizar (nil = no tocar).
// At es el instante de la transición, usado para CompletedAt.
type UpdateTaskInput struct {
	Title       *string
	Description Nullable[string]
	AssigneeID  Nullable[string]
	Priority    *types.Priority
	Status      *types.Status
	DueDate     Nullable[time.Time]
	At          time.Time
}

// Empty reporta si el update no trae ningún campo.
func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil && !in.Description.Set && !in.AssigneeID.Set &&
		in.Priority == nil && in.Status == nil && !in.DueDate.Set
}

// ApplyTo aplica el update sobre t (usado por los adapters dentro de su sección crítica).
func (in UpdateTaskInput) ApplyTo(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	in.Description.Apply(&t.Description)
	in.AssigneeID.Apply(&t.AssigneeID)
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	in.DueDate.Apply(&t.DueDate)
	if in.Status != nil {
		t.TransitionTo(*in.Status, in.At)
	}
	t.UpdatedAt = in.At
}

// TaskChange contiene el estado previo y el nuevo de un update.
type TaskChange struct {
	Before Task
	After  Task
}

// TaskFilter filtra listados. Campos nil no filtran.
type TaskFilter struct {
	GroupID    *string
	AssigneeID *string
	CreatedBy  *string
	Status     *types.Status
}

// TaskRepository define operaciones sobre tareas.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*Task, error)

	// List retorna tareas ordenadas por creación descendente.
	List(ctx context.Context, filter TaskFilter) ([]Task, error)

	Create(ctx context.Context, input CreateTaskInput) (*Task, error)

	// Update aplica el update de forma atómica (lectura + escritura) y
	// retorna el estado previo y el nuevo.
	Update(ctx context.Context, id string, input UpdateTaskInput) (*TaskChange, error)

	Delete(ctx context.Context, id string) error
}
