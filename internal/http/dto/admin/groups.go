package admin

import (
	"time"

	"github.com/dropDatabas3/tasktrack/internal/http/dto"
)

// CreateGroupRequest para POST /v1/admin/groups. Los grupos nacen privados.
type CreateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	LeaderID    *string `json:"leader_id,omitempty"`
}

// UpdateGroupRequest para PATCH /v1/admin/groups/{id}
type UpdateGroupRequest struct {
	Name        *string              `json:"name,omitempty"`
	Description dto.Optional[string] `json:"description"`
	LeaderID    dto.Optional[string] `json:"leader_id"`
	IsPublic    *bool                `json:"is_public,omitempty"`
}

type GroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	LeaderID    *string   `json:"leader_id,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VisibilityChangeResponse describe un grupo cuyo flag cambió de verdad.
type VisibilityChangeResponse struct {
	GroupID  string `json:"group_id"`
	Name     string `json:"name"`
	Previous bool   `json:"previous"`
	Current  bool   `json:"current"`
}

// VisibilityResponse para activate / deactivate / toggle.
type VisibilityResponse struct {
	Group   GroupResponse              `json:"group"`
	Changes []VisibilityChangeResponse `json:"changes"`
}

// DeleteGroupResponse informa cuántos miembros quedaron sin grupo.
type DeleteGroupResponse struct {
	ClearedMembers int `json:"cleared_members"`
}
