package store

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigrations_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0002_tasks.sql": {Data: []byte("CREATE TABLE tasks();")},
		"sql/0001_init.sql":  {Data: []byte("CREATE TABLE principals();")},
		"sql/README.md":      {Data: []byte("ignored")},
	}

	migs, err := NewMigrator(fsys, "sql").ParseMigrations()
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, 1, migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, 2, migs[1].Version)
	assert.Equal(t, "CREATE TABLE tasks();", migs[1].SQL)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), AdapterConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
