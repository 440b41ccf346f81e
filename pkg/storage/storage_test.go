package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseSlots runs the shared contract against any backend
func exerciseSlots(t *testing.T, s Slots) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, TodosKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, TodosKey, `[{"id":"a"}]`))
	require.NoError(t, s.Set(ctx, ThemeKey, "dark"))

	v, ok, err := s.Get(ctx, TodosKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	require.NoError(t, s.Set(ctx, TodosKey, `[]`))
	v, _, err = s.Get(ctx, TodosKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	v, ok, err = s.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, s.Set(ctx, "empty", ""))
	v, ok, err = s.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestMemory(t *testing.T) {
	exerciseSlots(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.yaml")
	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	exerciseSlots(t, f)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFile_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	ctx := context.Background()

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, ThemeKey, "light"))
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, ok, err := f.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0644))

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	ctx := context.Background()
	_, ok, err := f.Get(ctx, TodosKey)
	require.NoError(t, err)
	assert.False(t, ok)

	backup, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "- not\n- a map\n", string(backup))

	require.NoError(t, f.Set(ctx, TodosKey, "[]"))
	value, ok, err := f.Get(ctx, TodosKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "tasks.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseSlots(t, s)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TASKLIST_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TASKLIST_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	for _, key := range []string{TodosKey, ThemeKey, "empty"} {
		_, err := s.(*sqlSlots).db.ExecContext(ctx, `DELETE FROM slots WHERE key = $1`, key)
		require.NoError(t, err)
	}
	exerciseSlots(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Config{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Config{Backend: "FILE", Path: filepath.Join(dir, "t.yaml")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)
	s.Close()

	s, err = Open(ctx, Config{Path: filepath.Join(dir, "t.db")})
	require.NoError(t, err)
	assert.IsType(t, &sqlSlots{}, s)
	s.Close()

	_, err = Open(ctx, Config{Backend: "redis"})
	assert.True(t, errors.Is(err, ErrUnknownBackend))

	_, err = Open(ctx, Config{Backend: "postgres"})
	assert.Error(t, err)
}
