package admin

import (
	"net/http"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/http/controllers/common"
	dto "github.com/dropDatabas3/tasktrack/internal/http/dto/admin"
	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/admin"
)

// AuditController maneja GET /v1/admin/audit?action=&entity_type=&entity_id=&actor_id=&limit=
type AuditController struct {
	service svc.AuditService
}

func NewAuditController(service svc.AuditService) *AuditController {
	return &AuditController{service: service}
}

func (c *AuditController) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := helpers.QueryInt(r, "limit", audit.DefaultQueryLimit)
	if limit <= 0 {
		limit = audit.DefaultQueryLimit
	}
	entries, err := c.service.Query(r.Context(), repository.AuditFilter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		ActorID:    q.Get("actor_id"),
	}, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	resp := dto.AuditListResponse{Entries: make([]dto.AuditEntryResponse, 0, len(entries)), Limit: limit}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, dto.AuditEntryResponse{
			ID:         e.ID,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			ActorID:    e.ActorID,
			ActorName:  e.ActorName,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
