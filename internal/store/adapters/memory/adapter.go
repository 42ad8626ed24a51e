// Package memory implementa un adapter en memoria para store.
// Todas las tablas comparten un único mutex: cada operación es atómica
// respecto de las demás, incluidas SetActive y el manejo del admin primario.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/store"
)

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return "memory" }

func (a *memoryAdapter) Connect(_ context.Context, _ store.AdapterConfig) (store.AdapterConnection, error) {
	return New(), nil
}

// DB es el estado completo en memoria.
type DB struct {
	mu  sync.Mutex
	now func() time.Time
	ids func() string

	principals map[string]*repository.PrincipalRecord
	groups     map[string]*repository.Group
	tasks      map[string]*repository.Task
	audit      []repository.AuditEntry
}

// Option configura la DB.
type Option func(*DB)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// WithIDs reemplaza el generador de IDs (tests).
func WithIDs(ids func() string) Option {
	return func(db *DB) { db.ids = ids }
}

// New crea una DB vacía.
func New(opts ...Option) *DB {
	db := &DB{
		now:        time.Now,
		ids:        newID,
		principals: make(map[string]*repository.PrincipalRecord),
		groups:     make(map[string]*repository.Group),
		tasks:      make(map[string]*repository.Task),
	}
	for _, o := range opts {
		o(db)
	}
	return db
}

func (db *DB) Name() string               { return "memory" }
func (db *DB) Ping(context.Context) error { return nil }
func (db *DB) Close() error               { return nil }

func (db *DB) Principals() repository.PrincipalRepository { return &principalRepo{db} }
func (db *DB) Groups() repository.GroupRepository         { return &groupRepo{db} }
func (db *DB) Tasks() repository.TaskRepository           { return &taskRepo{db} }
func (db *DB) Audit() repository.AuditRepository          { return &auditRepo{db} }

func (db *DB) stamp() time.Time { return db.now().UTC() }

func newID() string { return uuid.NewString() }

func strPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
