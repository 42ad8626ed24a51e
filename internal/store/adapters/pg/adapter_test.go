package pg

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
)

func TestSetBuilder_TypedPartialUpdate(t *testing.T) {
	b := &setBuilder{}
	b.add("display_name", "Ana")
	addNullable(b, "group_id", repository.Null[string]())
	addNullable(b, "job_title", repository.Nullable[string]{})
	addNullable(b, "login", repository.Some("ana@x.io"))

	q, args := b.build("principals", "id-1", "id")
	assert.Equal(t, "UPDATE principals SET display_name = $1, group_id = $2, login = $3 WHERE id = $4 RETURNING id", q)
	assert.Equal(t, []any{"Ana", nil, "ana@x.io", "id-1"}, args)
}

func TestMapErr(t *testing.T) {
	assert.ErrorIs(t, mapErr("op", pgx.ErrNoRows), repository.ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "groups_name_lower_uq"}
	err := mapErr("op", dup)
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Contains(t, err.Error(), "group name already exists")

	other := errors.New("boom")
	err = mapErr("insert group", other)
	assert.ErrorIs(t, err, other)
	assert.Contains(t, err.Error(), "pg: insert group")

	assert.NoError(t, mapErr("op", nil))
}
