package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database.
// Sets WAL mode and enables foreign keys.
// Runs migrations automatically.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Handle is a lazily-opened, process-wide shared database connection.
// The first call to Get opens the database; every concurrent and later
// caller receives the same *sql.DB (or the same open error). The open
// happens at most once per Handle regardless of how many goroutines
// race on first use.
type Handle struct {
	path string
	once sync.Once
	db   *sql.DB
	err  error
}

// NewHandle creates a Handle for the database at path without opening it.
func NewHandle(path string) *Handle {
	return &Handle{path: path}
}

// Get returns the shared connection, opening it on first use.
func (h *Handle) Get(ctx context.Context) (*sql.DB, error) {
	h.once.Do(func() {
		h.db, h.err = OpenDB(h.path)
	})
	if h.err != nil {
		return nil, h.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.db, nil
}

// Close closes the shared connection if it was ever opened.
func (h *Handle) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}
