package admin

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/services/common"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// PrincipalService administra usuarios de ambos portales y cuentas admin.
type PrincipalService interface {
	List(ctx context.Context, filter repository.PrincipalFilter) ([]repository.Principal, error)
	Get(ctx context.Context, id string) (repository.Principal, error)
	Create(ctx context.Context, in CreatePrincipal) (repository.Principal, error)
	Update(ctx context.Context, id string, in UpdatePrincipal) (repository.Principal, error)

	// Delete falla con conflicto si id es el admin primario o el propio actor.
	Delete(ctx context.Context, actorID, id string) error

	// SetPrimary transfiere el rol de admin primario a id.
	SetPrimary(ctx context.Context, actorID, id string) error
}

// CreatePrincipal es el input de alta. IsAdmin decide la clase para siempre.
type CreatePrincipal struct {
	DisplayName string
	Login       *string
	Password    string
	Role        types.Role
	IsAdmin     bool
	GroupID     *string
	JobTitle    *string
}

// UpdatePrincipal es un update parcial. IsAdmin e IsPrimary existen solo
// para poder rechazarlos explícitamente.
type UpdatePrincipal struct {
	DisplayName *string
	Login       repository.Nullable[string]
	Password    *string
	Role        *types.Role
	GroupID     repository.Nullable[string]
	JobTitle    repository.Nullable[string]

	IsAdmin   *bool
	IsPrimary *bool
}

type principalService struct {
	d Deps
}

// NewPrincipalService crea el service de principals.
func NewPrincipalService(d Deps) PrincipalService {
	return &principalService{d: d}
}

func (s *principalService) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.principals"),
		logger.Op(op),
	)
}

func (s *principalService) List(ctx context.Context, f repository.PrincipalFilter) ([]repository.Principal, error) {
	out, err := s.d.Principals.List(ctx, f)
	if err != nil {
		s.log(ctx, "List").Error("list failed", logger.Err(err))
		return nil, err
	}
	return out, nil
}

func (s *principalService) Get(ctx context.Context, id string) (repository.Principal, error) {
	return s.d.Principals.GetByID(ctx, id)
}

// roleFor resuelve el rol por defecto y valida que sea compatible con la clase.
func roleFor(role types.Role, isAdmin bool) (types.Role, error) {
	if role == "" {
		if isAdmin {
			return types.RoleAdmin, nil
		}
		return types.RoleClient, nil
	}
	if !role.IsValid() {
		return "", common.Invalid("unknown role %q", role)
	}
	if isAdmin != (role == types.RoleAdmin) {
		return "", common.Invalid("role %q does not match the account class", role)
	}
	return role, nil
}

func (s *principalService) hash(plain string) (string, error) {
	if ok, reasons := s.d.PasswordPolicy.Validate(plain); !ok {
		return "", &common.WeakPasswordError{Reasons: reasons}
	}
	return s.d.Hasher.Hash(plain)
}

func (s *principalService) checkGroup(ctx context.Context, groupID *string) error {
	if groupID == nil {
		return nil
	}
	_, err := s.d.Groups.GetByID(ctx, *groupID)
	if errors.Is(err, repository.ErrNotFound) {
		return common.Invalid("group %s does not exist", *groupID)
	}
	return err
}

func (s *principalService) Create(ctx context.Context, in CreatePrincipal) (repository.Principal, error) {
	log := s.log(ctx, "Create")

	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.DisplayName == "" {
		return nil, common.Invalid("display name is required")
	}
	if in.Password == "" {
		return nil, common.Invalid("password is required")
	}
	if in.Login != nil {
		l := strings.TrimSpace(*in.Login)
		if l == "" {
			in.Login = nil
		} else {
			in.Login = &l
		}
	}
	if in.IsAdmin && in.Login == nil {
		return nil, common.Invalid("login is required for admin accounts")
	}
	role, err := roleFor(in.Role, in.IsAdmin)
	if err != nil {
		return nil, err
	}
	if in.IsAdmin && in.GroupID != nil {
		return nil, common.Invalid("admin accounts do not belong to groups")
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	p, err := s.d.Principals.Create(ctx, repository.CreatePrincipalInput{
		DisplayName:    in.DisplayName,
		Login:          in.Login,
		CredentialHash: hashed,
		Role:           role,
		IsAdmin:        in.IsAdmin,
		GroupID:        in.GroupID,
		JobTitle:       in.JobTitle,
	})
	if err != nil {
		if !repository.IsConflict(err) {
			log.Error("create failed", logger.Err(err))
		}
		return nil, err
	}

	s.d.Audit.Record(ctx, audit.ActionCreate, audit.EntityPrincipal, p.PrincipalID(), map[string]any{
		"displayName": p.Name(),
		"role":        role,
		"isAdmin":     in.IsAdmin,
		"isPrimary":   p.Record().IsPrimary,
	})
	log.Info("principal created", logger.PrincipalID(p.PrincipalID()))
	return p, nil
}

func (s *principalService) Update(ctx context.Context, id string, in UpdatePrincipal) (repository.Principal, error) {
	log := s.log(ctx, "Update").With(logger.PrincipalID(id))

	current, err := s.d.Principals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec := current.Record()

	if in.IsAdmin != nil && *in.IsAdmin != rec.IsAdmin {
		return nil, common.Conflict("the admin flag of an account cannot change")
	}
	if in.IsPrimary != nil && *in.IsPrimary != rec.IsPrimary {
		return nil, common.Conflict("use the primary admin transfer to change the primary account")
	}

	upd := repository.UpdatePrincipalInput{
		DisplayName: in.DisplayName,
		Login:       in.Login,
		GroupID:     in.GroupID,
		JobTitle:    in.JobTitle,
	}
	if upd.DisplayName != nil && strings.TrimSpace(*upd.DisplayName) == "" {
		return nil, common.Invalid("display name cannot be empty")
	}
	if rec.IsAdmin && in.Login.Set && (in.Login.Value == nil || strings.TrimSpace(*in.Login.Value) == "") {
		return nil, common.Invalid("login is required for admin accounts")
	}
	if in.Role != nil {
		role, err := roleFor(*in.Role, rec.IsAdmin)
		if err != nil {
			return nil, err
		}
		upd.Role = &role
	}
	if in.GroupID.Set {
		if rec.IsAdmin && in.GroupID.Value != nil {
			return nil, common.Invalid("admin accounts do not belong to groups")
		}
		if err := s.checkGroup(ctx, in.GroupID.Value); err != nil {
			return nil, err
		}
	}
	if in.Password != nil {
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.CredentialHash = &hashed
	}
	if upd.Empty() {
		return nil, common.ErrNoFieldsToUpdate
	}

	p, err := s.d.Principals.Update(ctx, id, upd)
	if err != nil {
		if !repository.IsConflict(err) && !repository.IsNotFound(err) {
			log.Error("update failed", logger.Err(err))
		}
		return nil, err
	}

	s.d.Audit.Record(ctx, audit.ActionUpdate, audit.EntityPrincipal, id, map[string]any{
		"fields":          changedPrincipalFields(upd),
		"passwordChanged": upd.CredentialHash != nil,
	})
	log.Info("principal updated")
	return p, nil
}

func changedPrincipalFields(in repository.UpdatePrincipalInput) []string {
	var f []string
	if in.DisplayName != nil {
		f = append(f, "displayName")
	}
	if in.Login.Set {
		f = append(f, "login")
	}
	if in.Role != nil {
		f = append(f, "role")
	}
	if in.GroupID.Set {
		f = append(f, "groupId")
	}
	if in.JobTitle.Set {
		f = append(f, "jobTitle")
	}
	return f
}

func (s *principalService) Delete(ctx context.Context, actorID, id string) error {
	log := s.log(ctx, "Delete").With(logger.PrincipalID(id))

	if actorID != "" && actorID == id {
		return common.Conflict("you cannot delete your own account")
	}
	p, err := s.d.Principals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.d.Principals.Delete(ctx, id); err != nil {
		if !repository.IsConflict(err) {
			log.Error("delete failed", logger.Err(err))
		}
		return err
	}

	s.d.Audit.Record(ctx, audit.ActionDelete, audit.EntityPrincipal, id, map[string]any{
		"displayName": p.Name(),
		"isAdmin":     p.Record().IsAdmin,
	})
	log.Info("principal deleted")
	return nil
}

func (s *principalService) SetPrimary(ctx context.Context, actorID, id string) error {
	log := s.log(ctx, "SetPrimary").With(logger.PrincipalID(id))

	target, err := s.d.Principals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	admin, ok := target.(*repository.AdminPrincipal)
	if !ok {
		return common.Invalid("only admin accounts can be primary")
	}
	if admin.Primary() {
		return nil
	}
	if err := s.d.Principals.SetPrimary(ctx, id); err != nil {
		log.Error("set primary failed", logger.Err(err))
		return err
	}

	s.d.Audit.Record(ctx, audit.ActionSetPrimary, audit.EntityPrincipal, id, map[string]any{
		"previousPrimaryId": actorID,
		"displayName":       admin.Name(),
	})
	log.Info("primary admin transferred")
	return nil
}
