package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standin.sqlite3")

	for range 2 {
		database, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, EnsureSchema(database))
		v, err := Version(database)
		require.NoError(t, err)
		assert.Equal(t, len(migrations), v)
		database.Close()
	}
}

func TestPragmasApplyToEveryConnection(t *testing.T) {
	database := NewTestDB(t)
	database.SetMaxOpenConns(3)

	for range 3 {
		var timeout int
		require.NoError(t, database.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
		assert.Equal(t, 5000, timeout)
	}

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
