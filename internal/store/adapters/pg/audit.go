package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

type auditRepo struct{ pool *pgxpool.Pool }

func (r *auditRepo) Append(ctx context.Context, e repository.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("pg: marshal audit details: %w", err)
	}
	if e.Details == nil {
		details = []byte("{}")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, action, entity_type, entity_id, actor_id, actor_name, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Action, e.EntityType, e.EntityID, e.ActorID, e.ActorName, details, e.CreatedAt,
	)
	return mapErr("insert audit", err)
}

func (r *auditRepo) Query(ctx context.Context, f repository.AuditFilter, limit int) ([]repository.AuditEntry, error) {
	where := []string{"TRUE"}
	var args []any
	filter := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Action != "" {
		filter("action = $%d", f.Action)
	}
	if f.EntityType != "" {
		filter("entity_type = $%d", f.EntityType)
	}
	if f.EntityID != "" {
		filter("entity_id = $%d", f.EntityID)
	}
	if f.ActorID != "" {
		filter("actor_id = $%d", f.ActorID)
	}
	if f.Since != nil {
		filter("created_at >= $%d", *f.Since)
	}
	q := `SELECT id::text, action, entity_type, entity_id, actor_id, actor_name, details, created_at
		FROM audit_logs WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr("query audit", err)
	}
	defer rows.Close()

	var out []repository.AuditEntry
	for rows.Next() {
		var e repository.AuditEntry
		var raw []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.ActorID, &e.ActorName, &raw, &e.CreatedAt); err != nil {
			return nil, mapErr("scan audit", err)
		}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &e.Details)
		}
		out = append(out, e)
	}
	return out, mapErr("query audit", rows.Err())
}
