package db

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/esnunes/promptsmith/internal/paths"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS prompts (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    title        TEXT NOT NULL DEFAULT '',
    summary      TEXT NOT NULL DEFAULT '',
    content      TEXT NOT NULL DEFAULT '',
    raw_context  TEXT NOT NULL DEFAULT '',
    version      TEXT NOT NULL DEFAULT 'v1.0',
    created_at   TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_prompts_updated_at ON prompts(updated_at);
`

// DBPath returns the default database location inside the data directory.
func DBPath() (string, error) {
	dir, err := paths.DataDir()
	if err != nil {
		return "", fmt.Errorf("getting data directory: %w", err)
	}
	if _, err := paths.Ensure(dir); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return filepath.Join(dir, "promptsmith.db"), nil
}

func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running schema migration: %w", err)
	}
	return db, nil
}

// SchemaDescription returns the DDL a fresh database is initialised with.
// It is meant for people setting up storage by hand.
func SchemaDescription() string {
	return "-- promptsmith storage schema (SQLite)\n" + schema
}
