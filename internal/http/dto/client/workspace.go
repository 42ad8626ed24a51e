package client

import (
	"github.com/dropDatabas3/tasktrack/internal/http/dto/admin"
	"github.com/dropDatabas3/tasktrack/internal/http/services/common"
)

// WorkspaceResponse para GET /v1/client/workspace. Con Blocked=true no
// viaja ningún dato del grupo.
type WorkspaceResponse struct {
	Blocked bool                 `json:"blocked"`
	Group   *admin.GroupResponse `json:"group,omitempty"`
}

// BoardResponse para GET /v1/client/board
type BoardResponse struct {
	Group admin.GroupResponse  `json:"group"`
	Tasks []admin.TaskResponse `json:"tasks"`
	Stats common.TaskStats     `json:"stats"`
}

// TeamMember es la vista de un compañero del grupo activo.
type TeamMember struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	JobTitle    *string `json:"job_title,omitempty"`
}
