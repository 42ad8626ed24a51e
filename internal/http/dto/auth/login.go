package auth

import (
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

// LoginRequest es el body de POST /v1/{portal}/login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse devuelve el token opaco y a quién pertenece.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"` // "Bearer"
	ExpiresAt   time.Time        `json:"expires_at"`
	Portal      types.Portal     `json:"portal"`
	Principal   PrincipalSummary `json:"principal"`
}

// PrincipalSummary es la vista mínima del usuario logueado.
type PrincipalSummary struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Login       *string    `json:"login,omitempty"`
	Role        types.Role `json:"role"`
	IsPrimary   bool       `json:"is_primary,omitempty"`
	GroupID     *string    `json:"group_id,omitempty"`
	JobTitle    *string    `json:"job_title,omitempty"`
}

// MeResponse para GET /v1/{portal}/me
type MeResponse struct {
	Principal PrincipalSummary `json:"principal"`
	Portal    types.Portal     `json:"portal"`
	ExpiresAt time.Time        `json:"expires_at"`
}
