package db

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version recorded in PRAGMA user_version.
const SchemaVersion = 1

// Migrate runs all schema migrations. Every statement is idempotent, so
// re-running on an already-migrated database is a no-op.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	if version < SchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS lists (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		color      TEXT NOT NULL DEFAULT '#6b7280',
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lists_sort ON lists(sort_order)`,

	`CREATE TABLE IF NOT EXISTS todos (
		id           TEXT PRIMARY KEY,
		list_id      TEXT NOT NULL,
		summary      TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'NEEDS-ACTION'
		             CHECK(status IN ('NEEDS-ACTION','IN-PROCESS','COMPLETED')),
		completed_at TEXT,
		priority     INTEGER NOT NULL DEFAULT 0 CHECK(priority BETWEEN 0 AND 9),
		due          TEXT,
		rrule        TEXT,
		tags         TEXT NOT NULL DEFAULT '[]',
		reminders    TEXT NOT NULL DEFAULT '[]',
		created      TEXT NOT NULL,
		modified     TEXT NOT NULL,
		sort_order   INTEGER NOT NULL DEFAULT 0,
		raw_ics      TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_todos_list ON todos(list_id)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_status ON todos(status)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_modified ON todos(modified)`,

	// Seed the inbox list. It always exists and is never deleted.
	`INSERT OR IGNORE INTO lists (id, name, color, sort_order) VALUES ('inbox', 'Inbox', '#6b7280', 0)`,
}
