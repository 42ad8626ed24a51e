package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

// advisory lock que serializa todos los cambios de visibilidad.
const groupVisibilityLock = 7302

const groupCols = `id::text, name, description, leader_id::text, is_public, created_at, updated_at`

type groupRepo struct{ pool *pgxpool.Pool }

func scanGroup(row pgx.Row) (*repository.Group, error) {
	var g repository.Group
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.LeaderID, &g.IsPublic, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func collectGroups(rows pgx.Rows) ([]repository.Group, error) {
	defer rows.Close()
	var out []repository.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*repository.Group, error) {
	g, err := scanGroup(r.pool.QueryRow(ctx, `SELECT `+groupCols+` FROM groups WHERE id = $1`, id))
	return g, mapErr("get group", err)
}

func (r *groupRepo) List(ctx context.Context) ([]repository.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+groupCols+` FROM groups ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr("list groups", err)
	}
	out, err := collectGroups(rows)
	return out, mapErr("list groups", err)
}

func (r *groupRepo) ListPublic(ctx context.Context) ([]repository.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+groupCols+` FROM groups WHERE is_public ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr("list public groups", err)
	}
	out, err := collectGroups(rows)
	return out, mapErr("list public groups", err)
}

// GetActive usa el índice parcial groups_single_public_uq.
func (r *groupRepo) GetActive(ctx context.Context) (*repository.Group, error) {
	g, err := scanGroup(r.pool.QueryRow(ctx, `SELECT `+groupCols+` FROM groups WHERE is_public LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr("get active group", err)
	}
	return g, nil
}

func (r *groupRepo) Create(ctx context.Context, in repository.CreateGroupInput) (*repository.Group, error) {
	now := time.Now().UTC()
	const q = `
		INSERT INTO groups (id, name, description, leader_id, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $5)
		RETURNING ` + groupCols
	g, err := scanGroup(r.pool.QueryRow(ctx, q, uuid.NewString(), strings.TrimSpace(in.Name), in.Description, in.LeaderID, now))
	return g, mapErr("insert group", err)
}

func (r *groupRepo) Update(ctx context.Context, id string, in repository.UpdateGroupInput) (*repository.Group, error) {
	b := &setBuilder{}
	if in.Name != nil {
		b.add("name", strings.TrimSpace(*in.Name))
	}
	addNullable(b, "description", in.Description)
	addNullable(b, "leader_id", in.LeaderID)
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.add("updated_at", time.Now().UTC())

	q, args := b.build("groups", id, groupCols)
	g, err := scanGroup(r.pool.QueryRow(ctx, q, args...))
	return g, mapErr("update group", err)
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete group", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive corre en una transacción serializada por advisory lock:
// primero desactiva el resto, después activa el target.
func (r *groupRepo) SetActive(ctx context.Context, id string) ([]repository.VisibilityChange, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pg: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, groupVisibilityLock); err != nil {
		return nil, mapErr("lock visibility", err)
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT TRUE FROM groups WHERE id = $1`, id).Scan(&exists); err != nil {
		return nil, mapErr("get group", err)
	}

	var changes []repository.VisibilityChange

	rows, err := tx.Query(ctx, `UPDATE groups SET is_public = FALSE, updated_at = NOW() WHERE is_public AND id <> $1 RETURNING `+groupCols, id)
	if err != nil {
		return nil, mapErr("deactivate groups", err)
	}
	off, err := collectGroups(rows)
	if err != nil {
		return nil, mapErr("deactivate groups", err)
	}
	for _, g := range off {
		changes = append(changes, repository.VisibilityChange{Group: g, Previous: true, Current: false})
	}

	on, err := scanGroup(tx.QueryRow(ctx, `UPDATE groups SET is_public = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_public RETURNING `+groupCols, id))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// ya estaba activo
	case err != nil:
		return nil, mapErr("activate group", err)
	default:
		changes = append(changes, repository.VisibilityChange{Group: *on, Previous: false, Current: true})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("pg: commit tx: %w", err)
	}
	return changes, nil
}

func (r *groupRepo) Deactivate(ctx context.Context, id string) ([]repository.VisibilityChange, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pg: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, groupVisibilityLock); err != nil {
		return nil, mapErr("lock visibility", err)
	}
	g, err := scanGroup(tx.QueryRow(ctx, `SELECT `+groupCols+` FROM groups WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("get group", err)
	}
	if !g.IsPublic {
		return nil, nil
	}
	g, err = scanGroup(tx.QueryRow(ctx, `UPDATE groups SET is_public = FALSE, updated_at = NOW() WHERE id = $1 RETURNING `+groupCols, id))
	if err != nil {
		return nil, mapErr("deactivate group", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("pg: commit tx: %w", err)
	}
	return []repository.VisibilityChange{{Group: *g, Previous: true, Current: false}}, nil
}
