package admin

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/common"
	dto "github.com/dropDatabas3/tasktrack/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/tasktrack/internal/http/errors"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	mw "github.com/dropDatabas3/tasktrack/internal/http/middlewares"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/admin"
	svccommon "github.com/dropDatabas3/tasktrack/internal/http/services/common"
)

// TasksController maneja /v1/admin/tasks
type TasksController struct {
	service svc.TaskService
	now     func() time.Time
}

func NewTasksController(service svc.TaskService) *TasksController {
	return &TasksController{service: service, now: time.Now}
}

// List maneja GET /v1/admin/tasks?group_id=&assignee_id=&status=
func (c *TasksController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f repository.TaskFilter
	if v := q.Get("group_id"); v != "" {
		f.GroupID = &v
	}
	if v := q.Get("assignee_id"); v != "" {
		f.AssigneeID = &v
	}
	if v := q.Get("status"); v != "" {
		st := types.Status(v)
		if !st.IsValid() {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("unknown status"))
			return
		}
		f.Status = &st
	}
	tasks, err := c.service.List(r.Context(), f)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToTaskResponses(tasks, c.now()))
}

func (c *TasksController) Get(w http.ResponseWriter, r *http.Request) {
	t, err := c.service.Get(r.Context(), helpers.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToTaskResponse(*t, c.now()))
}

func (c *TasksController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dto.CreateTaskRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	createdBy := ""
	if me := mw.GetPrincipal(ctx); me != nil {
		createdBy = me.PrincipalID()
	}
	t, err := c.service.Create(ctx, req.GroupID, createdBy, svccommon.TaskDraft{
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

func (c *TasksController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTaskRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	t, err := c.service.Update(r.Context(), helpers.URLParam(r, "id"), common.ToTaskUpdate(req))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.ToTaskResponse(*t, c.now()))
}

func (c *TasksController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), helpers.URLParam(r, "id")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
