package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dialect holds the statements that differ between SQL drivers
type dialect struct {
	name   string
	schema string
	get    string
	upsert string
}

// sqlSlots stores slots in a single key/value table
type sqlSlots struct {
	db *sql.DB
	d  dialect
}

func newSQLSlots(ctx context.Context, db *sql.DB, d dialect) (*sqlSlots, error) {
	s := &sqlSlots{db: db, d: d}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// ensureSchema creates the slots table if it doesn't exist
func (s *sqlSlots) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.d.schema); err != nil {
		return fmt.Errorf("%s: create schema: %w", s.d.name, err)
	}
	return nil
}

// Get implements Slots.Get
func (s *sqlSlots) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.d.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: read slot %q: %w", s.d.name, key, err)
	}
	return value, true, nil
}

// Set implements Slots.Set
func (s *sqlSlots) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.d.upsert, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("%s: write slot %q: %w", s.d.name, key, err)
	}
	return nil
}

// Close implements Slots.Close
func (s *sqlSlots) Close() error {
	return s.db.Close()
}
