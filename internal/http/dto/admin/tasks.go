package admin

import (
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/dto"
)

// CreateTaskRequest sirve a ambos portales; en el cliente group_id se ignora
// y se usa el grupo activo.
type CreateTaskRequest struct {
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	AssigneeID  *string        `json:"assignee_id,omitempty"`
	GroupID     string         `json:"group_id,omitempty"`
	Priority    types.Priority `json:"priority,omitempty"`
	Status      types.Status   `json:"status,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
}

// UpdateTaskRequest es un update parcial; null limpia el campo.
type UpdateTaskRequest struct {
	Title       *string                 `json:"title,omitempty"`
	Description dto.Optional[string]    `json:"description"`
	AssigneeID  dto.Optional[string]    `json:"assignee_id"`
	Priority    *types.Priority         `json:"priority,omitempty"`
	Status      *types.Status           `json:"status,omitempty"`
	DueDate     dto.Optional[time.Time] `json:"due_date"`
}

type TaskResponse struct {
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
	Overdue     bool           `json:"overdue"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
