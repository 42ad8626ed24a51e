package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Métricas de dominio. Viven en un paquete aparte para evitar ciclos de
// import entre services, audit y propagation.

var (
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tasktrack_logins_total",
		Help: "Intentos de login por portal y resultado",
	}, []string{"portal", "result"}) // result: success|invalid|rate_limited|error

	VisibilityChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tasktrack_visibility_changes_total",
		Help: "Cambios de visibilidad de grupos",
	}, []string{"direction"}) // activated|deactivated

	AuditWriteFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasktrack_audit_write_failures_total",
		Help: "Entradas de auditoría que no se pudieron persistir",
	})

	PropagationAppliesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tasktrack_propagation_applies_total",
		Help: "Actualizaciones aplicadas a vistas cacheadas por origen",
	}, []string{"view", "source"}) // source: poll|broadcast

	BlockedWorkspaceTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasktrack_blocked_workspace_requests_total",
		Help: "Requests del portal cliente rechazados sin grupo activo",
	})
)

// RegisterDomain registra las métricas en el registry dado (o el default si es nil).
func RegisterDomain(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginsTotal, VisibilityChangesTotal, AuditWriteFailuresTotal, PropagationAppliesTotal, BlockedWorkspaceTotal,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}
