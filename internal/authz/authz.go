// Package authz decide qué puede hacer cada rol dentro de su portal.
//
// El portal ya fue validado por el middleware de auth; acá solo se resuelve
// el nivel dentro del portal (admin primario vs admin, team_leader vs client).
// team_leader hereda de client y no suma permisos: es informativo.
package authz

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

//go:embed model.conf
var modelConf string

// Sujetos.
const (
	SubjectPrimaryAdmin = "primary_admin"
	SubjectAdmin        = "admin"
	SubjectTeamLeader   = "team_leader"
	SubjectClient       = "client"
)

// Acciones.
const (
	Read  = "read"
	Write = "write"
)

// Recursos.
const (
	ObjPrincipals   = "admin:principals"
	ObjAdmins       = "admin:admins"
	ObjPrimaryAdmin = "admin:admins:primary"
	ObjGroups       = "admin:groups"
	ObjTasks        = "admin:tasks"
	ObjAudit        = "admin:audit"
	ObjStats        = "admin:stats"

	ObjWorkspace = "client:workspace"
	ObjBoard     = "client:board"
	ObjOwnTasks  = "client:tasks"
	ObjTeam      = "client:team"
	ObjExport    = "client:export"
)

var policies = [][]string{
	{SubjectAdmin, ObjPrincipals, "*"},
	{SubjectAdmin, ObjAdmins, Read},
	{SubjectAdmin, ObjGroups, "*"},
	{SubjectAdmin, ObjTasks, "*"},
	{SubjectAdmin, ObjAudit, Read},
	{SubjectAdmin, ObjStats, Read},

	// alta/baja de cuentas admin y traspaso del primario
	{SubjectPrimaryAdmin, ObjAdmins, Write},
	{SubjectPrimaryAdmin, ObjPrimaryAdmin, Write},

	{SubjectClient, ObjWorkspace, Read},
	{SubjectClient, ObjBoard, Read},
	{SubjectClient, ObjOwnTasks, "*"},
	{SubjectClient, ObjTeam, Read},
	{SubjectClient, ObjExport, Read},
}

var inheritance = [][]string{
	{SubjectPrimaryAdmin, SubjectAdmin},
	{SubjectTeamLeader, SubjectClient},
}

// Enforcer evalúa permisos por rol.
type Enforcer struct {
	e *casbin.SyncedEnforcer
}

// New arma el enforcer con el modelo embebido y las políticas fijas.
func New() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	for _, g := range inheritance {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("add grouping %v: %w", g, err)
		}
	}
	return &Enforcer{e: e}, nil
}

// SubjectFor resuelve el sujeto casbin de un principal.
func SubjectFor(p repository.Principal) string {
	switch v := p.(type) {
	case *repository.AdminPrincipal:
		if v.Primary() {
			return SubjectPrimaryAdmin
		}
		return SubjectAdmin
	case *repository.ClientPrincipal:
		if v.Role == types.RoleTeamLeader {
			return SubjectTeamLeader
		}
		return SubjectClient
	}
	return ""
}

// Allow reporta si p puede ejecutar act sobre obj.
func (e *Enforcer) Allow(p repository.Principal, obj, act string) bool {
	sub := SubjectFor(p)
	if sub == "" {
		return false
	}
	ok, err := e.e.Enforce(sub, obj, act)
	return err == nil && ok
}
