// Package pg implementa el adapter PostgreSQL para store.
// Usa pgxpool directamente.
package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/store"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

// postgresAdapter implementa store.Adapter para PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, repository.ErrNoDatabase
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &pgConnection{pool: pool}, nil
}

// pgConnection representa una conexión activa a PostgreSQL.
type pgConnection struct {
	pool *pgxpool.Pool
}

func (c *pgConnection) Name() string { return "postgres" }

func (c *pgConnection) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *pgConnection) Close() error {
	c.pool.Close()
	return nil
}

// ─── Repositorios ───

func (c *pgConnection) Principals() repository.PrincipalRepository { return &principalRepo{pool: c.pool} }
func (c *pgConnection) Groups() repository.GroupRepository         { return &groupRepo{pool: c.pool} }
func (c *pgConnection) Tasks() repository.TaskRepository           { return &taskRepo{pool: c.pool} }
func (c *pgConnection) Audit() repository.AuditRepository          { return &auditRepo{pool: c.pool} }

// GetMigrationExecutor implementa store.MigratableConnection.
func (c *pgConnection) GetMigrationExecutor() store.Executor {
	return &poolExecutor{pool: c.pool}
}

type poolExecutor struct{ pool *pgxpool.Pool }

func (e *poolExecutor) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := e.pool.Exec(ctx, sql, args...)
	return err
}

func (e *poolExecutor) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	return e.pool.Query(ctx, sql, args...)
}

// ─── Helpers ───

// mapErr traduce errores de pgx a errores de dominio.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", repository.ErrConflict, constraintReason(pgErr.ConstraintName))
		case "22P02": // invalid_text_representation (ej: id que no es uuid)
			return repository.ErrNotFound
		case "23503", "23514": // foreign_key_violation, check_violation
			return fmt.Errorf("%w: %s", repository.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("pg: %s: %w", op, err)
}

func constraintReason(name string) string {
	switch name {
	case "groups_name_lower_uq":
		return "group name already exists"
	case "principals_login_lower_uq":
		return "login already exists"
	case "groups_single_public_uq":
		return "another group is already active"
	}
	return name
}

// setBuilder arma cláusulas SET parametrizadas a partir de un input tipado.
// Los nombres de columna vienen siempre del código, nunca del request.
type setBuilder struct {
	clauses []string
	args    []any
}

func (b *setBuilder) add(col string, v any) {
	b.args = append(b.args, v)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

func addNullable[T any](b *setBuilder, col string, n repository.Nullable[T]) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		b.add(col, nil)
		return
	}
	b.add(col, *n.Value)
}

func (b *setBuilder) empty() bool { return len(b.clauses) == 0 }

// build retorna "UPDATE table SET ... WHERE id = $n" y sus argumentos.
func (b *setBuilder) build(table, id, returning string) (string, []any) {
	args := append(b.args, id)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(b.clauses, ", "), len(args))
	if returning != "" {
		q += " RETURNING " + returning
	}
	return q, args
}
