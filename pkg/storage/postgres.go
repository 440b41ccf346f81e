package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`,
	get: `SELECT value FROM slots WHERE key = $1`,
	upsert: `
		INSERT INTO slots (key, value, updated) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated = EXCLUDED.updated
	`,
}

// OpenPostgres connects to the PostgreSQL database named by dsn.
func OpenPostgres(ctx context.Context, dsn string) (Slots, error) {
	if dsn == "" {
		return nil, errors.New("postgres: dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	return newSQLSlots(ctx, db, postgresDialect)
}
