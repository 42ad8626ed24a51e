package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

// PrincipalRecord es la representación plana de almacenamiento.
// Fuera del store se trabaja con Principal (AdminPrincipal | ClientPrincipal).
type PrincipalRecord struct {
	ID             string     `json:"id"`
	DisplayName    string     `json:"display_name"`
	Login          *string    `json:"login,omitempty"` // email; puede faltar en clientes
	CredentialHash string     `json:"-"`
	Role           types.Role `json:"role"`
	IsAdmin        bool       `json:"is_admin"`
	IsPrimary      bool       `json:"is_primary"`
	GroupID        *string    `json:"group_id,omitempty"`
	JobTitle       *string    `json:"job_title,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Principal es una identidad autenticable. Solo lo implementan
// *AdminPrincipal y *ClientPrincipal; la clase se decide una vez, al crear.
type Principal interface {
	PrincipalID() string
	Name() string
	Portal() types.Portal
	Record() *PrincipalRecord
	principal()
}

// AdminPrincipal es un principal del portal admin.
type AdminPrincipal struct{ PrincipalRecord }

func (p *AdminPrincipal) PrincipalID() string      { return p.ID }
func (p *AdminPrincipal) Name() string             { return p.DisplayName }
func (p *AdminPrincipal) Portal() types.Portal     { return types.PortalAdmin }
func (p *AdminPrincipal) Record() *PrincipalRecord { return &p.PrincipalRecord }
func (p *AdminPrincipal) principal()               {}

// Primary reporta si es el admin primario.
func (p *AdminPrincipal) Primary() bool { return p.IsPrimary }

// ClientPrincipal es un principal del portal cliente.
type ClientPrincipal struct{ PrincipalRecord }

func (p *ClientPrincipal) PrincipalID() string      { return p.ID }
func (p *ClientPrincipal) Name() string             { return p.DisplayName }
func (p *ClientPrincipal) Portal() types.Portal     { return types.PortalClient }
func (p *ClientPrincipal) Record() *PrincipalRecord { return &p.PrincipalRecord }
func (p *ClientPrincipal) principal()               {}

// IsTeamLeader reporta el rol team_leader. Es informativo: no habilita operaciones extra.
func (p *ClientPrincipal) IsTeamLeader() bool { return p.Role == types.RoleTeamLeader }

// FromRecord arma la variante correcta según el flag de admin.
func FromRecord(rec *PrincipalRecord) Principal {
	if rec == nil {
		return nil
	}
	if rec.IsAdmin {
		return &AdminPrincipal{PrincipalRecord: *rec}
	}
	return &ClientPrincipal{PrincipalRecord: *rec}
}

// CreatePrincipalInput contiene los datos para crear un principal.
// IsAdmin se fija acá y no puede cambiar después.
type CreatePrincipalInput struct {
	DisplayName    string
	Login          *string
	CredentialHash string
	Role           types.Role
	IsAdmin        bool
	GroupID        *string
	JobTitle       *string
}

// UpdatePrincipalInput contiene los campos a actualizar (nil = no tocar).
// No existe campo para el flag de admin ni para el primario: el primero es
// inmutable y el segundo solo se mueve con SetPrimary.
type UpdatePrincipalInput struct {
	DisplayName    *string
	Login          Nullable[string]
	CredentialHash *string
	Role           *types.Role
	GroupID        Nullable[string]
	JobTitle       Nullable[string]
}

// Empty reporta si el update no trae ningún campo.
func (in UpdatePrincipalInput) Empty() bool {
	return in.DisplayName == nil && !in.Login.Set && in.CredentialHash == nil &&
		in.Role == nil && !in.GroupID.Set && !in.JobTitle.Set
}

// PrincipalFilter filtra listados. Campos nil no filtran.
type PrincipalFilter struct {
	IsAdmin *bool
	GroupID *string
}

// PrincipalRepository define operaciones sobre principals.
type PrincipalRepository interface {
	// GetByID busca un principal. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (Principal, error)

	// FindByLogin busca por login (case-insensitive) sin importar la clase.
	FindByLogin(ctx context.Context, login string) (Principal, error)

	// List retorna principals ordenados por nombre.
	List(ctx context.Context, filter PrincipalFilter) ([]Principal, error)

	// Create inserta un principal. El primer admin creado queda como primario.
	// Retorna ErrConflict si el login ya existe.
	Create(ctx context.Context, input CreatePrincipalInput) (Principal, error)

	// Update aplica un update parcial. Retorna ErrConflict si el login nuevo ya existe.
	Update(ctx context.Context, id string, input UpdatePrincipalInput) (Principal, error)

	// Delete elimina un principal. Retorna ErrConflict si es el admin primario.
	Delete(ctx context.Context, id string) error

	// SetPrimary marca a id como único admin primario.
	// Retorna ErrInvalidInput si id no es admin.
	SetPrimary(ctx context.Context, id string) error

	// ClearGroup desasigna a todos los miembros de un grupo.
	ClearGroup(ctx context.Context, groupID string) (int, error)

	// CountAdmins retorna la cantidad de admins.
	CountAdmins(ctx context.Context) (int, error)
}
