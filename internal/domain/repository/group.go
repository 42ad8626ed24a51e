package repository

import (
	"context"
	"time"
)

// Group es un workspace. A lo sumo uno tiene IsPublic = true en todo el sistema.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	LeaderID    *string   `json:"leader_id,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateGroupInput contiene los datos para crear un grupo (siempre privado).
type CreateGroupInput struct {
	Name        string
	Description *string
	LeaderID    *string
}

// UpdateGroupInput contiene los campos a actualizar.
// La visibilidad no se toca acá: solo SetActive / Deactivate.
type UpdateGroupInput struct {
	Name        *string
	Description Nullable[string]
	LeaderID    Nullable[string]
}

// Empty reporta si el update no trae ningún campo.
func (in UpdateGroupInput) Empty() bool {
	return in.Name == nil && !in.Description.Set && !in.LeaderID.Set
}

// VisibilityChange describe un grupo cuyo IsPublic cambió realmente.
type VisibilityChange struct {
	Group    Group
	Previous bool
	Current  bool
}

// GroupRepository define operaciones sobre grupos.
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*Group, error)

	List(ctx context.Context) ([]Group, error)

	// ListPublic retorna los grupos con IsPublic (cero o uno).
	ListPublic(ctx context.Context) ([]Group, error)

	// GetActive retorna el grupo activo o (nil, nil) si no hay ninguno.
	GetActive(ctx context.Context) (*Group, error)

	// Create inserta un grupo privado. ErrConflict si el nombre existe.
	Create(ctx context.Context, input CreateGroupInput) (*Group, error)

	// Update aplica un update parcial. ErrConflict si el nombre nuevo existe en otro grupo.
	Update(ctx context.Context, id string, input UpdateGroupInput) (*Group, error)

	// Delete elimina el grupo. El caller debe haber desasignado a los miembros.
	Delete(ctx context.Context, id string) error

	// SetActive activa id y desactiva cualquier otro, de forma atómica y
	// serializada contra llamadas concurrentes. Retorna solo los cambios reales.
	SetActive(ctx context.Context, id string) ([]VisibilityChange, error)

	// Deactivate deja a id privado. Retorna vacío si ya lo era.
	Deactivate(ctx context.Context, id string) ([]VisibilityChange, error)
}
