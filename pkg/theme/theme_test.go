package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/pkg/storage"
)

func always(dark bool) Detector {
	return func() bool { return dark }
}

func TestLoad_FallsBackToDetector(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()

	assert.Equal(t, Dark, Load(ctx, slots, always(true)))
	assert.Equal(t, Light, Load(ctx, slots, always(false)))
	assert.Equal(t, Light, Load(ctx, slots, nil))
}

func TestLoad_StoredPreferenceWins(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	require.NoError(t, Save(ctx, slots, Light))

	assert.Equal(t, Light, Load(ctx, slots, always(true)))

	require.NoError(t, Save(ctx, slots, Dark))
	assert.Equal(t, Dark, Load(ctx, slots, always(false)))
}

func TestLoad_UnknownTokenFallsBack(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	require.NoError(t, slots.Set(ctx, storage.ThemeKey, "solarized"))

	assert.Equal(t, Dark, Load(ctx, slots, always(true)))
}

func TestSave_RejectsUnknown(t *testing.T) {
	assert.Error(t, Save(context.Background(), storage.NewMemory(), Theme("blue")))
}

func TestParseAndToggle(t *testing.T) {
	th, ok := Parse(" DARK ")
	require.True(t, ok)
	assert.Equal(t, Dark, th)
	assert.True(t, th.IsDark())
	assert.Equal(t, Light, th.Toggle())
	assert.Equal(t, Dark, Light.Toggle())

	_, ok = Parse("")
	assert.False(t, ok)
}
