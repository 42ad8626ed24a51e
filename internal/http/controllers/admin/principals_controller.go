package admin

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/common"
	dto "github.com/dropDatabas3/tasktrack/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/admin"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// PrincipalsController maneja /v1/admin/principals y /v1/admin/admins.
// Las cuentas admin solo se crean o borran por /admins, que exige admin primario.
type PrincipalsController struct {
	service svc.PrincipalService
}

func NewPrincipalsController(service svc.PrincipalService) *PrincipalsController {
	return &PrincipalsController{service: service}
}

// List maneja GET /v1/admin/principals?group_id=&is_admin=
func (c *PrincipalsController) List(w http.ResponseWriter, r *http.Request) {
	var f repository.PrincipalFilter
	if v := r.URL.Query().Get("group_id"); v != "" {
		f.GroupID = &v
	}
	if v := r.URL.Query().Get("is_admin"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("is_admin must be a boolean"))
			return
		}
		f.IsAdmin = &b
	}
	c.list(w, r, f)
}

// ListAdmins maneja GET /v1/admin/admins
func (c *PrincipalsController) ListAdmins(w http.ResponseWriter, r *http.Request) {
	yes := true
	c.list(w, r, repository.PrincipalFilter{IsAdmin: &yes})
}

func (c *PrincipalsController) list(w http.ResponseWriter, r *http.Request, f repository.PrincipalFilter) {
	ps, err := c.service.List(r.Context(), f)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	resp := dto.ListPrincipalsResponse{Principals: make([]dto.PrincipalResponse, 0, len(ps))}
	for _, p := range ps {
		resp.Principals = append(resp.Principals, common.ToPrincipalResponse(p))
	}
	resp.TotalCount = len(resp.Principals)
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Get maneja GET /v1/admin/principals/{id}
func (c *PrincipalsController) Get(w http.ResponseWriter, r *http.Request) {
	p, err := c.service.Get(r.Context(), helpers.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToPrincipalResponse(p))
}

// Create maneja POST /v1/admin/principals (solo cuentas de portal cliente).
func (c *PrincipalsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePrincipalRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.IsAdmin {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("admin accounts are created through /v1/admin/admins"))
		return
	}
	c.create(w, r, req)
}

// CreateAdmin maneja POST /v1/admin/admins
func (c *PrincipalsController) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePrincipalRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.IsAdmin = true
	c.create(w, r, req)
}

func (c *PrincipalsController) create(w http.ResponseWriter, r *http.Request, req dto.CreatePrincipalRequest) {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("PrincipalsController.Create"),
	)

	p, err := c.service.Create(ctx, svc.CreatePrincipal{
		DisplayName: req.DisplayName,
		Login:       req.Login,
		Password:    req.Password,
		Role:        req.Role,
		IsAdmin:     req.IsAdmin,
		GroupID:     req.GroupID,
		JobTitle:    req.JobTitle,
	})
	if err != nil {
		if common.IsServerError(err) {
			log.Error("create failed", logger.Err(err))
		}
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, common.ToPrincipalResponse(p))
}

// Update maneja PATCH /v1/admin/principals/{id}. Sobre cuentas admin solo
// permite editar la propia; el resto pasa por /v1/admin/admins/{id}.
func (c *PrincipalsController) Update(w http.ResponseWriter, r *http.Request) {
	c.update(w, r, false)
}

// UpdateAdmin maneja PATCH /v1/admin/admins/{id}
func (c *PrincipalsController) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	c.update(w, r, true)
}

func (c *PrincipalsController) update(w http.ResponseWriter, r *http.Request, admin bool) {
	ctx := r.Context()
	id := helpers.URLParam(r, "id")

	var req dto.UpdatePrincipalRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	target, err := c.service.Get(ctx, id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	isAdmin := target.Record().IsAdmin
	self := false
	if me := mw.GetPrincipal(ctx); me != nil {
		self = me.PrincipalID() == target.PrincipalID()
	}
	if isAdmin != admin && !(isAdmin && self) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}

	p, err := c.service.Update(ctx, id, svc.UpdatePrincipal{
		DisplayName: req.DisplayName,
		Login:       req.Login.Nullable(),
		Password:    req.Password,
		Role:        req.Role,
		GroupID:     req.GroupID.Nullable(),
		JobTitle:    req.JobTitle.Nullable(),
		IsAdmin:     req.IsAdmin,
		IsPrimary:   req.IsPrimary,
	})
	if err != nil {
		if common.IsServerError(err) {
			logger.From(ctx).Error("update failed", logger.Op("PrincipalsController.Update"), logger.Err(err))
		}
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToPrincipalResponse(p))
}

// Delete maneja DELETE /v1/admin/principals/{id}
func (c *PrincipalsController) Delete(w http.ResponseWriter, r *http.Request) {
	c.delete(w, r, false)
}

// DeleteAdmin maneja DELETE /v1/admin/admins/{id}
func (c *PrincipalsController) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	c.delete(w, r, true)
}

// delete exige que la clase del objetivo coincida con la ruta; si no, 404.
func (c *PrincipalsController) delete(w http.ResponseWriter, r *http.Request, admin bool) {
	ctx := r.Context()
	id := helpers.URLParam(r, "id")

	target, err := c.service.Get(ctx, id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if target.Record().IsAdmin != admin {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}

	actorID := ""
	if me := mw.GetPrincipal(ctx); me != nil {
		actorID = me.PrincipalID()
	}
	if err := c.service.Delete(ctx, actorID, id); err != nil {
		if common.IsServerError(err) {
			logger.From(ctx).Error("delete failed", logger.Op("PrincipalsController.Delete"), logger.Err(err))
		}
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPrimary maneja PUT /v1/admin/admins/{id}/primary (solo el primario actual).
func (c *PrincipalsController) SetPrimary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := helpers.URLParam(r, "id")
	me := mw.GetAdmin(ctx)
	if me == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	if err := c.service.SetPrimary(ctx, me.PrincipalID(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	p, err := c.service.Get(ctx, id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToPrincipalResponse(p))
}
