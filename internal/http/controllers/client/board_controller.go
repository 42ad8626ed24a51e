package client

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/common"
	dtoadmin "github.com/dropDatabas3/tasktrack/internal/http/dto/admin"
	dto "github.com/dropDatabas3/tasktrack/internal/http/dto/client"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/client"
	svccommon "github.com/dropDatabas3/tasktrack/internal/http/services/common"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// BoardController maneja tablero, tareas, equipo y export del grupo activo.
// Todas sus rutas van detrás de RequireActiveWorkspace.
type BoardController struct {
	service svc.Service
	now     func() time.Time
}

func NewBoardController(service svc.Service) *BoardController {
	return &BoardController{service: service, now: time.Now}
}

func groupID(r *http.Request) string {
	if g := mw.GetActiveGroup(r.Context()); g != nil {
		return g.ID
	}
	return ""
}

// Board maneja GET /v1/client/board?status=&priority=&assignee_id=&q=
func (c *BoardController) Board(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b, err := c.service.Board(r.Context(), groupID(r), svc.BoardFilter{
		Status:     types.Status(q.Get("status")),
		Priority:   types.Priority(q.Get("priority")),
		AssigneeID: q.Get("assignee_id"),
		Search:     q.Get("q"),
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.BoardResponse{
		Group: common.ToGroupResponse(*b.Group),
		Tasks: common.ToTaskResponses(b.Tasks, c.now()),
		Stats: b.Stats,
	})
}

// CreateTask maneja POST /v1/client/tasks. group_id del body se ignora.
func (c *BoardController) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	me := mw.GetClient(ctx)
	if me == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	var req dtoadmin.CreateTaskRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	t, err := c.service.CreateTask(ctx, groupID(r), me, svccommon.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, common.ToTaskResponse(*t, c.now()))
}

// UpdateTask maneja PATCH /v1/client/tasks/{id}
func (c *BoardController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req dtoadmin.UpdateTaskRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	t, err := c.service.UpdateTask(r.Context(), groupID(r), helpers.URLParam(r, "id"), common.ToTaskUpdate(req))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToTaskResponse(*t, c.now()))
}

// DeleteTask maneja DELETE /v1/client/tasks/{id}
func (c *BoardController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteTask(r.Context(), groupID(r), helpers.URLParam(r, "id")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Team maneja GET /v1/client/team
func (c *BoardController) Team(w http.ResponseWriter, r *http.Request) {
	ps, err := c.service.Team(r.Context(), groupID(r))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	resp := make([]dto.TeamMember, 0, len(ps))
	for _, p := range ps {
		rec := p.Record()
		resp = append(resp, dto.TeamMember{
			ID:          rec.ID,
			DisplayName: rec.DisplayName,
			Role:        string(rec.Role),
			JobTitle:    rec.JobTitle,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Export maneja GET /v1/client/tasks/export. Se arma en memoria para poder
// responder un error JSON si algo falla antes de mandar el primer byte.
func (c *BoardController) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var buf bytes.Buffer
	n, err := c.service.Export(ctx, groupID(r), &buf)
	if err != nil {
		if common.IsServerError(err) {
			logger.From(ctx).Error("export failed", logger.Op("BoardController.Export"), logger.Err(err))
		}
		common.WriteError(w, err)
		return
	}

	name := fmt.Sprintf("tasks-%s.csv", c.now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("X-Total-Count", fmt.Sprint(n))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
