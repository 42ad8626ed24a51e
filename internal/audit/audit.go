// Package audit registra acciones de negocio y eventos de seguridad.
//
// La escritura es best-effort: un fallo al persistir una entrada se loguea y se
// cuenta en métricas, pero nunca hace fallar la operación que la originó.
// Las operaciones primero mutan y después registran; si la mutación falla no
// se escribe nada.
package audit

import (
	"context"
	"time"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/metrics"
	"github.com/dropDatabas3/tasktrack/internal/observability/logger"
)

// Acciones de negocio.
const (
	ActionCreate           = "CREATE"
	ActionUpdate           = "UPDATE"
	ActionDelete           = "DELETE"
	ActionToggleVisibility = "TOGGLE_VISIBILITY"
	ActionSetPrimary       = "SET_PRIMARY_ADMIN"
	ActionExportTasks      = "EXPORT_TASKS"
	ActionLogout           = "LOGOUT"
)

// Eventos de seguridad.
const (
	EventAuthSuccess             = "AUTHENTICATION_SUCCESS"
	EventAuthFailed              = "AUTHENTICATION_FAILED"
	EventUnauthorizedAttempt     = "UNAUTHORIZED_ACCESS_ATTEMPT"
	EventRateLimitExceeded       = "RATE_LIMIT_EXCEEDED"
	EventUnauthorizedGroupAccess = "UNAUTHORIZED_GROUP_ACCESS"
	EventForbiddenAccess         = "FORBIDDEN_ACCESS"
)

// Tipos de entidad.
const (
	EntityPrincipal = "principal"
	EntityGroup     = "group"
	EntityTask      = "task"
	EntitySecurity  = "security"
)

// DefaultQueryLimit se usa cuando Query recibe limit <= 0.
const DefaultQueryLimit = 100

// Recorder escribe y consulta el log de auditoría.
type Recorder struct {
	repo repository.AuditRepository
	now  func() time.Time
}

// Option configura un Recorder.
type Option func(*Recorder)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// New crea un Recorder sobre el repositorio dado.
func New(repo repository.AuditRepository, opts ...Option) *Recorder {
	r := &Recorder{repo: repo, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Record agrega una entrada para una acción sobre una entidad.
// El actor se toma del contexto (ver WithActor).
func (r *Recorder) Record(ctx context.Context, action, entityType, entityID string, details map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	e := repository.AuditEntry{
		Action:     action,
		EntityType: entityType,
		Details:    details,
		CreatedAt:  r.now().UTC(),
	}
	if entityID != "" {
		e.EntityID = &entityID
	}
	if a, ok := ActorFrom(ctx); ok {
		e.ActorID = &a.ID
		e.ActorName = &a.Name
	}
	r.append(ctx, e)
}

// Security registra un evento de seguridad: siempre va al log estructurado
// y además se persiste con entity_type "security".
func (r *Recorder) Security(ctx context.Context, event string, details map[string]any) {
	log := logger.From(ctx).With(logger.Component("audit"), logger.Action(event))
	if event == EventAuthSuccess {
		log.Info("security event", logger.Any("details", details))
	} else {
		log.Warn("security event", logger.Any("details", details))
	}
	r.Record(ctx, event, EntitySecurity, "", details)
}

func (r *Recorder) append(ctx context.Context, e repository.AuditEntry) {
	if err := r.repo.Append(ctx, e); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		logger.From(ctx).Error("audit write failed",
			logger.Component("audit"),
			logger.Action(e.Action),
			logger.String("entity_type", e.EntityType),
			logger.Err(err),
		)
	}
}

// Query retorna entradas de la más nueva a la más vieja.
func (r *Recorder) Query(ctx context.Context, f repository.AuditFilter, limit int) ([]repository.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	return r.repo.Query(ctx, f, limit)
}
