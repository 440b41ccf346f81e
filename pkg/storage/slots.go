package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Slot keys shared by the application
const (
	TodosKey = "todos"
	ThemeKey = "theme"
)

// Backend names accepted by Open
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Slots is a small durable key-value store. Each key holds one string value.
type Slots interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	Close() error
}

// Config selects and locates a backend
type Config struct {
	Backend string `mapstructure:"backend" json:"backend"`
	Path    string `mapstructure:"path" json:"path"`
	DSN     string `mapstructure:"dsn" json:"dsn"`
}

// Open connects to the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Slots, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case BackendPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case BackendFile:
		f, err := OpenFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// expandPath expands a leading tilde to the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return homeDir + path[1:], nil
}
