// Package health contiene el controller para health checks.
package health

import (
	"net/http"

	"github.com/dropDatabas3/tasktrack/internal/http/helpers"
	svc "github.com/dropDatabas3/tasktrack/internal/http/services/health"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// Controllers agrupa los controllers de health.
type Controllers struct {
	Health *HealthController
}

func NewControllers(s svc.Service) *Controllers {
	return &Controllers{Health: NewHealthController(s)}
}

// HealthController maneja /healthz y /readyz.
type HealthController struct {
	service svc.Service
}

func NewHealthController(service svc.Service) *HealthController {
	return &HealthController{service: service}
}

// Healthz maneja GET /healthz: el proceso está vivo, no mira dependencias.
func (c *HealthController) Healthz(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": string(svc.StatusOK)})
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := c.service.Check(ctx)

	status := http.StatusOK
	if resp.Status == svc.StatusDown {
		status = http.StatusServiceUnavailable
	}
	logger.From(ctx).Debug("health check completed",
		logger.Layer("controller"),
		logger.Op("HealthController.Readyz"),
		logger.String("status", string(resp.Status)),
		logger.Int("components_count", len(resp.Components)),
	)
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, status, resp)
}
