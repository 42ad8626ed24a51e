package admin

import (
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/dto"
)

// CreatePrincipalRequest para POST /v1/admin/principals y /v1/admin/admins.
// En /admins is_admin se fuerza a true.
type CreatePrincipalRequest struct {
	DisplayName string     `json:"display_name"`
	Login       *string    `json:"login,omitempty"`
	Password    string     `json:"password"` // Texto plano, el servidor lo hashea
	Role        types.Role `json:"role,omitempty"`
	IsAdmin     bool       `json:"is_admin,omitempty"`
	GroupID     *string    `json:"group_id,omitempty"`
	JobTitle    *string    `json:"job_title,omitempty"`
}

// UpdatePrincipalRequest para PATCH /v1/admin/principals/{id}.
// is_admin e is_primary se aceptan solo para rechazar cambios con 400.
type UpdatePrincipalRequest struct {
	DisplayName *string              `json:"display_name,omitempty"`
	Login       dto.Optional[string] `json:"login"`
	Password    *string              `json:"password,omitempty"`
	Role        *types.Role          `json:"role,omitempty"`
	GroupID     dto.Optional[string] `json:"group_id"`
	JobTitle    dto.Optional[string] `json:"job_title"`
	IsAdmin     *bool                `json:"is_admin,omitempty"`
	IsPrimary   *bool                `json:"is_primary,omitempty"`
}

// PrincipalResponse nunca incluye la credencial.
type PrincipalResponse struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Login       *string    `json:"login,omitempty"`
	Role        types.Role `json:"role"`
	IsAdmin     bool       `json:"is_admin"`
	IsPrimary   bool       `json:"is_primary"`
	GroupID     *string    `json:"group_id,omitempty"`
	JobTitle    *string    `json:"job_title,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListPrincipalsResponse para GET /v1/admin/principals
type ListPrincipalsResponse struct {
	Principals []PrincipalResponse `json:"principals"`
	TotalCount int                 `json:"total_count"`
}
