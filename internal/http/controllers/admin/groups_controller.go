package admin

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/common"
	dto "github.com/dropDatabas3/tasktrack/internal/http/dto/admin"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/admin"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// GroupsController maneja /v1/admin/groups
type GroupsController struct {
	service svc.GroupService
}

func NewGroupsController(service svc.GroupService) *GroupsController {
	return &GroupsController{service: service}
}

func (c *GroupsController) List(w http.ResponseWriter, r *http.Request) {
	groups, err := c.service.List(r.Context())
	writeGroups(w, groups, err)
}

// ListPublic maneja GET /v1/admin/groups/public (cero o un grupo).
func (c *GroupsController) ListPublic(w http.ResponseWriter, r *http.Request) {
	groups, err := c.service.ListPublic(r.Context())
	writeGroups(w, groups, err)
}

func writeGroups(w http.ResponseWriter, groups []repository.Group, err error) {
	if err != nil {
		common.WriteError(w, err)
		return
	}
	resp := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, common.ToGroupResponse(g))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func (c *GroupsController) Get(w http.ResponseWriter, r *http.Request) {
	g, err := c.service.Get(r.Context(), helpers.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToGroupResponse(*g))
}

// Members maneja GET /v1/admin/groups/{id}/members
func (c *GroupsController) Members(w http.ResponseWriter, r *http.Request) {
	ps, err := c.service.Members(r.Context(), helpers.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	resp := make([]dto.PrincipalResponse, 0, len(ps))
	for _, p := range ps {
		resp = append(resp, common.ToPrincipalResponse(p))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func (c *GroupsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	g, err := c.service.Create(r.Context(), repository.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    req.LeaderID,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, common.ToGroupResponse(*g))
}

// Update maneja PATCH /v1/admin/groups/{id}. is_public pasa por el mismo
// camino que activate/deactivate.
func (c *GroupsController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.UpdateGroupRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	g, err := c.service.Update(ctx, helpers.URLParam(r, "id"), svc.UpdateGroup{
		Fields: repository.UpdateGroupInput{
			Name:        req.Name,
			Description: req.Description.Nullable(),
			LeaderID:    req.LeaderID.Nullable(),
		},
		IsPublic: req.IsPublic,
	})
	if err != nil {
		if common.IsServerError(err) {
			logger.From(ctx).Error("update failed", logger.Op("GroupsController.Update"), logger.Err(err))
		}
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToGroupResponse(*g))
}

func (c *GroupsController) Delete(w http.ResponseWriter, r *http.Request) {
	cleared, err := c.service.Delete(r.Context(), helpers.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.DeleteGroupResponse{ClearedMembers: cleared})
}

// Activate maneja POST /v1/admin/groups/{id}/activate
func (c *GroupsController) Activate(w http.ResponseWriter, r *http.Request) {
	c.visibility(w, r, c.service.SetActive)
}

// Deactivate maneja POST /v1/admin/groups/{id}/deactivate
func (c *GroupsController) Deactivate(w http.ResponseWriter, r *http.Request) {
	c.visibility(w, r, c.service.Deactivate)
}

// Toggle maneja POST /v1/admin/groups/{id}/toggle
func (c *GroupsController) Toggle(w http.ResponseWriter, r *http.Request) {
	c.visibility(w, r, c.service.Toggle)
}

type visibilityOp func(ctx context.Context, id string) ([]repository.VisibilityChange, error)

func (c *GroupsController) visibility(w http.ResponseWriter, r *http.Request, op visibilityOp) {
	ctx := r.Context()
	id := helpers.URLParam(r, "id")
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("GroupsController.visibility"),
		logger.GroupID(id),
	)

	changes, err := op(ctx, id)
	if err != nil {
		if common.IsServerError(err) {
			log.Error("visibility change failed", logger.Err(err))
		}
		common.WriteError(w, err)
		return
	}
	g, err := c.service.Get(ctx, id)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	resp := dto.VisibilityResponse{
		Group:   common.ToGroupResponse(*g),
		Changes: make([]dto.VisibilityChangeResponse, 0, len(changes)),
	}
	for _, ch := range changes {
		resp.Changes = append(resp.Changes, dto.VisibilityChangeResponse{
			GroupID:  ch.Group.ID,
			Name:     ch.Group.Name,
			Previous: ch.Previous,
			Current:  ch.Current,
		})
	}
	log.Info("visibility changed", logger.Count(len(changes)))
	helpers.WriteJSON(w, http.StatusOK, resp)
}
