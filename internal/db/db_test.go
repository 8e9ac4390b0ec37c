package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_CreatesSchema(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var version int
	require.NoError(t, database.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, SchemaVersion, version)

	var name string
	require.NoError(t, database.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'todos'`).Scan(&name))
	assert.Equal(t, "todos", name)

	// The inbox list is seeded by the migration.
	var inbox string
	require.NoError(t, database.QueryRow(`SELECT name FROM lists WHERE id = 'inbox'`).Scan(&inbox))
	assert.Equal(t, "Inbox", inbox)
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))

	// Re-running must not duplicate the seed row.
	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM lists WHERE id = 'inbox'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestHandle_ConcurrentFirstUseSharesOneConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vtodo.db")
	h := NewHandle(path)
	defer h.Close()

	ctx := context.Background()
	const callers = 16
	results := make([]*sql.DB, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			database, err := h.Get(ctx)
			assert.NoError(t, err)
			results[i] = database
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i], "all callers share one handle")
	}
}

func TestHandle_OpenFailureIsSticky(t *testing.T) {
	// A directory path cannot be opened as a database file.
	h := NewHandle(t.TempDir())

	_, err1 := h.Get(context.Background())
	require.Error(t, err1)
	_, err2 := h.Get(context.Background())
	assert.Equal(t, err1, err2, "every caller sees the same open error")
}
