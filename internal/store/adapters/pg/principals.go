package pg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

// advisory lock compartido por operaciones que tocan el flag de admin primario.
const primaryAdminLock = 7301

const principalCols = `id::text, display_name, login, credential_hash, role, is_admin, is_primary,
	group_id::text, job_title, created_at, updated_at`

type principalRepo struct{ pool *pgxpool.Pool }

func scanPrincipal(row pgx.Row) (repository.Principal, error) {
	var rec repository.PrincipalRecord
	if err := row.Scan(
		&rec.ID, &rec.DisplayName, &rec.Login, &rec.CredentialHash, &rec.Role, &rec.IsAdmin, &rec.IsPrimary,
		&rec.GroupID, &rec.JobTitle, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return repository.FromRecord(&rec), nil
}

func (r *principalRepo) GetByID(ctx context.Context, id string) (repository.Principal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	p, err := scanPrincipal(r.pool.QueryRow(ctx, `SELECT `+principalCols+` FROM principals WHERE id = $1`, id))
	return p, mapErr("get principal", err)
}

func (r *principalRepo) FindByLogin(ctx context.Context, login string) (repository.Principal, error) {
	const q = `SELECT ` + principalCols + ` FROM principals WHERE LOWER(login) = LOWER($1)`
	p, err := scanPrincipal(r.pool.QueryRow(ctx, q, strings.TrimSpace(login)))
	return p, mapErr("find principal by login", err)
}

func (r *principalRepo) List(ctx context.Context, f repository.PrincipalFilter) ([]repository.Principal, error) {
	where := []string{"TRUE"}
	var args []any
	if f.IsAdmin != nil {
		args = append(args, *f.IsAdmin)
		where = append(where, fmt.Sprintf("is_admin = $%d", len(args)))
	}
	if f.GroupID != nil {
		args = append(args, *f.GroupID)
		where = append(where, fmt.Sprintf("group_id = $%d", len(args)))
	}
	q := `SELECT ` + principalCols + ` FROM principals WHERE ` + strings.Join(where, " AND ") + ` ORDER BY display_name`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr("list principals", err)
	}
	defer rows.Close()

	var out []repository.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, mapErr("scan principal", err)
		}
		out = append(out, p)
	}
	return out, mapErr("list principals", rows.Err())
}

func (r *principalRepo) Create(ctx context.Context, in repository.CreatePrincipalInput) (repository.Principal, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pg: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	primary := false
	if in.IsAdmin {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, primaryAdminLock); err != nil {
			return nil, mapErr("lock primary", err)
		}
		var admins int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM principals WHERE is_admin`).Scan(&admins); err != nil {
			return nil, mapErr("count admins", err)
		}
		primary = admins == 0
	}

	now := time.Now().UTC()
	const q = `
		INSERT INTO principals (id, display_name, login, credential_hash, role, is_admin, is_primary, group_id, job_title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + principalCols
	p, err := scanPrincipal(tx.QueryRow(ctx, q,
		uuid.NewString(), in.DisplayName, in.Login, in.CredentialHash, in.Role, in.IsAdmin, primary, in.GroupID, in.JobTitle, now,
	))
	if err != nil {
		return nil, mapErr("insert principal", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("pg: commit tx: %w", err)
	}
	return p, nil
}

func (r *principalRepo) Update(ctx context.Context, id string, in repository.UpdatePrincipalInput) (repository.Principal, error) {
	b := &setBuilder{}
	if in.DisplayName != nil {
		b.add("display_name", *in.DisplayName)
	}
	addNullable(b, "login", in.Login)
	if in.CredentialHash != nil {
		b.add("credential_hash", *in.CredentialHash)
	}
	if in.Role != nil {
		b.add("role", *in.Role)
	}
	addNullable(b, "group_id", in.GroupID)
	addNullable(b, "job_title", in.JobTitle)
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.add("updated_at", time.Now().UTC())

	q, args := b.build("principals", id, principalCols)
	p, err := scanPrincipal(r.pool.QueryRow(ctx, q, args...))
	return p, mapErr("update principal", err)
}

func (r *principalRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, primaryAdminLock); err != nil {
		return mapErr("lock primary", err)
	}
	var primary bool
	if err := tx.QueryRow(ctx, `SELECT is_primary FROM principals WHERE id = $1`, id).Scan(&primary); err != nil {
		return mapErr("get principal", err)
	}
	if primary {
		return fmt.Errorf("%w: primary admin cannot be deleted", repository.ErrConflict)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM principals WHERE id = $1`, id); err != nil {
		return mapErr("delete principal", err)
	}
	return tx.Commit(ctx)
}

func (r *principalRepo) SetPrimary(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, primaryAdminLock); err != nil {
		return mapErr("lock primary", err)
	}
	var isAdmin bool
	if err := tx.QueryRow(ctx, `SELECT is_admin FROM principals WHERE id = $1`, id).Scan(&isAdmin); err != nil {
		return mapErr("get principal", err)
	}
	if !isAdmin {
		return fmt.Errorf("%w: only admin principals can be primary", repository.ErrInvalidInput)
	}
	// dos sentencias: el índice único parcial se valida fila por fila
	if _, err := tx.Exec(ctx, `UPDATE principals SET is_primary = FALSE, updated_at = NOW() WHERE is_primary AND id <> $1`, id); err != nil {
		return mapErr("unset primary", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE principals SET is_primary = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_primary`, id); err != nil {
		return mapErr("set primary", err)
	}
	return tx.Commit(ctx)
}

func (r *principalRepo) ClearGroup(ctx context.Context, groupID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE principals SET group_id = NULL, updated_at = NOW() WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, mapErr("clear group", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *principalRepo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM principals WHERE is_admin`).Scan(&n)
	return n, mapErr("count admins", err)
}
