package client

import (
	"net/http"

	"github.com/dropDatabas3/tasktrack/internal/http/controllers/common"
	dto "github.com/dropDatabas3/tasktrack/internal/http/dto/client"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// WorkspaceController maneja GET /v1/client/workspace. Es la única ruta del
// portal cliente que responde 200 sin grupo activo: así la UI sabe que tiene
// que mostrar el estado bloqueado.
type WorkspaceController struct {
	source mw.ActiveGroupSource
}

func NewWorkspaceController(source mw.ActiveGroupSource) *WorkspaceController {
	return &WorkspaceController{source: source}
}

func (c *WorkspaceController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	g, err := c.source.Active(ctx)
	if err != nil {
		logger.From(ctx).Error("active group lookup failed", logger.Op("WorkspaceController.Get"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
		return
	}
	if g == nil {
		helpers.WriteJSON(w, http.StatusOK, dto.WorkspaceResponse{Blocked: true})
		return
	}
	resp := common.ToGroupResponse(*g)
	helpers.WriteJSON(w, http.StatusOK, dto.WorkspaceResponse{Group: &resp})
}
