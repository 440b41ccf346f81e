package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Constants for file locking
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// File keeps all slots in one YAML document. Every access takes an
// exclusive lock on a sibling .lock file so several processes can share it.
type File struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// OpenFile returns a file-backed store at path. The file is created on the
// first write.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file: path is required")
	}
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return &File{path: path, lock: flock.New(path + ".lock")}, nil
}

// Get implements Slots.Get
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := f.withLock(ctx, func() error {
		doc, err := f.load()
		if err != nil {
			return err
		}
		value, ok = doc[key]
		return nil
	})
	return value, ok, err
}

// Set implements Slots.Set
func (f *File) Set(ctx context.Context, key, value string) error {
	return f.withLock(ctx, func() error {
		doc, err := f.load()
		if err != nil {
			return err
		}
		doc[key] = value
		return f.save(doc)
	})
}

// Close implements Slots.Close
func (f *File) Close() error {
	return f.lock.Close()
}

// withLock runs fn while holding both the in-process and the file lock
func (f *File) withLock(ctx context.Context, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	if err := f.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = f.lock.Unlock() }()

	return fn()
}

// acquireLock attempts to acquire an exclusive file lock with retry logic
func (f *File) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("file: failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("file: failed to acquire lock after %d attempts", lockMaxRetries)
}

// load reads the document. A document that does not parse reads as empty
// after being copied to a .corrupt sibling. Caller must hold the lock.
func (f *File) load() (map[string]string, error) {
	doc := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file: failed to read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		// Keep the bad copy and start over; the next save replaces the file
		backup := f.path + ".corrupt"
		slog.Warn("ignoring malformed slot file", "path", f.path, "backup", backup, "error", err)
		if werr := os.WriteFile(backup, data, 0644); werr != nil {
			slog.Error("failed to back up malformed slot file", "path", backup, "error", werr)
		}
		return make(map[string]string), nil
	}
	return doc, nil
}

// save writes the document atomically. Caller must hold the lock.
func (f *File) save(doc map[string]string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("file: failed to marshal: %w", err)
	}

	tmpFile := f.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("file: failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, f.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("file: failed to rename file: %w", err)
	}
	return nil
}
