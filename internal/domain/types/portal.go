// Package types define tipos de dominio compartidos entre paquetes.
package types

// Portal identifica una de las dos superficies de autenticación.
// Las clases de principal de cada portal son mutuamente excluyentes.
type Portal string

const (
	PortalAdmin  Portal = "admin"
	PortalClient Portal = "client"
)

// IsValid retorna true si el portal es conocido.
func (p Portal) IsValid() bool {
	switch p {
	case PortalAdmin, PortalClient:
		return true
	}
	return false
}

// LoginPath es el punto de entrada propio del portal.
// Un rechazo por portal equivocado redirige acá, nunca a una página genérica de 403.
func (p Portal) LoginPath() string {
	return "/" + string(p) + "/login"
}

// Role es el rol declarado de un principal.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTeamLeader Role = "team_leader"
	RoleClient     Role = "client"
)

// IsValid retorna true si el rol es conocido.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeamLeader, RoleClient:
		return true
	}
	return false
}
