package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`,
	get: `SELECT value FROM slots WHERE key = ?`,
	upsert: `
		INSERT INTO slots (key, value, updated) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated = excluded.updated
	`,
}

// OpenSQLite opens (creating if needed) the SQLite database at dbPath.
func OpenSQLite(ctx context.Context, dbPath string) (Slots, error) {
	dbPath, err := expandPath(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the directory structure if it doesn't exist
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	// SQLite will create the database file if it doesn't exist
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection serializes writers from the persistence goroutine
	// and the theme toggle.
	db.SetMaxOpenConns(1)

	return newSQLSlots(ctx, db, sqliteDialect)
}
