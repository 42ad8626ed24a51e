package router

import (
	"github.com/go-chi/chi/v5"
)

// registerHealthRoutes registra /healthz, /readyz y /metrics. Sin auth.
func registerHealthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Health.Health
	r.Get("/healthz", c.Healthz)
	r.Get("/readyz", c.Readyz)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}
}
