// Package store abre conexiones de persistencia a partir de adapters registrados.
//
// Cada adapter se registra en init() y se selecciona por nombre de driver:
//
//	import _ "github.com/dropDatabas3/tasktrack/internal/store/adapters/pg"
//	conn, err := store.Open(ctx, store.AdapterConfig{Driver: "postgres", DSN: dsn})
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

// AdapterConfig configuración de conexión.
type AdapterConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Adapter crea conexiones para un driver.
type Adapter interface {
	Name() string
	Connect(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error)
}

// AdapterConnection expone los repositorios de una conexión activa.
type AdapterConnection interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	Principals() repository.PrincipalRepository
	Groups() repository.GroupRepository
	Tasks() repository.TaskRepository
	Audit() repository.AuditRepository
}

// MigratableConnection la implementan las conexiones con schema SQL.
type MigratableConnection interface {
	GetMigrationExecutor() Executor
}

var (
	adaptersMu sync.RWMutex
	adapters   = map[string]Adapter{}
)

// RegisterAdapter registra un adapter. Llamado desde init() de cada adapter.
func RegisterAdapter(a Adapter) {
	adaptersMu.Lock()
	defer adaptersMu.Unlock()
	name := strings.ToLower(a.Name())
	if _, dup := adapters[name]; dup {
		panic("store: adapter registered twice: " + name)
	}
	adapters[name] = a
}

// Drivers lista los drivers registrados.
func Drivers() []string {
	adaptersMu.RLock()
	defer adaptersMu.RUnlock()
	out := make([]string, 0, len(adapters))
	for k := range adapters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open conecta usando el adapter del driver configurado.
func Open(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "mem":
		driver = "memory"
	case "pg", "postgresql":
		driver = "postgres"
	}

	adaptersMu.RLock()
	a, ok := adapters[driver]
	adaptersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store: unknown driver %q (registered: %s)", cfg.Driver, strings.Join(Drivers(), ", "))
	}

	conn, err := a.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect %s: %w", driver, err)
	}
	return conn, nil
}
