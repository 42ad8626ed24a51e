package repository

import (
	"context"
	"time"
)

// AuditEntry es un registro inmutable de una acción o evento de seguridad.
// Details nunca lleva credenciales.
type AuditEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id,omitempty"`
	ActorID    *string        `json:"actor_id,omitempty"`
	ActorName  *string        `json:"actor_name,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditFilter filtra consultas. Strings vacíos no filtran.
type AuditFilter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
	Since      *time.Time
}

// AuditRepository es append-only: no existen update ni delete.
type AuditRepository interface {
	Append(ctx context.Context, entry AuditEntry) error

	// Query retorna entradas de la más nueva a la más vieja.
	Query(ctx context.Context, filter AuditFilter, limit int) ([]AuditEntry, error)
}
