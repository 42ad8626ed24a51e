package admin

import (
	"net/http"

	"github.com/dropDatabas3/tasktrack/internal/http/controllers/common"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/admin"
)

// DashboardController maneja GET /v1/admin/dashboard?group_id=
type DashboardController struct {
	service svc.DashboardService
}

func NewDashboardController(service svc.DashboardService) *DashboardController {
	return &DashboardController{service: service}
}

func (c *DashboardController) Overview(w http.ResponseWriter, r *http.Request) {
	d, err := c.service.Overview(r.Context(), r.URL.Query().Get("group_id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, d)
}
