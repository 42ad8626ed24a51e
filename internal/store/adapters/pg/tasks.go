package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

const taskCols = `id::text, title, description, assignee_id::text, group_id::text, created_by::text,
	priority, status, due_date, completed_at, created_at, updated_at`

type taskRepo struct{ pool *pgxpool.Pool }

func scanTask(row pgx.Row) (*repository.Task, error) {
	var t repository.Task
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.AssigneeID, &t.GroupID, &t.CreatedBy,
		&t.Priority, &t.Status, &t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*repository.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskCols+` FROM tasks WHERE id = $1`, id))
	return t, mapErr("get task", err)
}

func (r *taskRepo) List(ctx context.Context, f repository.TaskFilter) ([]repository.Task, error) {
	where := []string{"TRUE"}
	var args []any
	filter := func(col string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.GroupID != nil {
		filter("group_id", *f.GroupID)
	}
	if f.AssigneeID != nil {
		filter("assignee_id", *f.AssigneeID)
	}
	if f.CreatedBy != nil {
		filter("created_by", *f.CreatedBy)
	}
	if f.Status != nil {
		filter("status", *f.Status)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+taskCols+` FROM tasks WHERE `+strings.Join(where, " AND ")+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, mapErr("list tasks", err)
	}
	defer rows.Close()

	var out []repository.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, mapErr("scan task", err)
		}
		out = append(out, *t)
	}
	return out, mapErr("list tasks", rows.Err())
}

func (r *taskRepo) Create(ctx context.Context, in repository.CreateTaskInput) (*repository.Task, error) {
	t := repository.Task{Status: in.Status}
	t.TransitionTo(in.Status, in.At)

	const q = `
		INSERT INTO tasks (id, title, description, assignee_id, group_id, created_by, priority, status, due_date, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING ` + taskCols
	out, err := scanTask(r.pool.QueryRow(ctx, q,
		uuid.NewString(), in.Title, in.Description, in.AssigneeID, in.GroupID, in.CreatedBy,
		in.Priority, in.Status, in.DueDate, t.CompletedAt, in.At,
	))
	return out, mapErr("insert task", err)
}

// Update bloquea la fila (FOR UPDATE) para derivar completed_at del estado previo.
func (r *taskRepo) Update(ctx context.Context, id string, in repository.UpdateTaskInput) (*repository.TaskChange, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pg: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	before, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskCols+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapErr("get task", err)
	}
	after := *before
	in.ApplyTo(&after)

	const q = `
		UPDATE tasks SET title = $2, description = $3, assignee_id = $4, priority = $5, status = $6,
			due_date = $7, completed_at = $8, updated_at = $9
		WHERE id = $1
		RETURNING ` + taskCols
	saved, err := scanTask(tx.QueryRow(ctx, q,
		id, after.Title, after.Description, after.AssigneeID, after.Priority, after.Status,
		after.DueDate, after.CompletedAt, after.UpdatedAt,
	))
	if err != nil {
		return nil, mapErr("update task", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("pg: commit tx: %w", err)
	}
	return &repository.TaskChange{Before: *before, After: *saved}, nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
