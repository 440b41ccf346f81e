package keymaps

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeyMap_Defaults(t *testing.T) {
	km := BuildKeyMap(nil)

	for action, field := range km.bindings() {
		require.NotEmpty(t, field.Keys(), action)
		assert.Equal(t, KeyDefinitions[action].Help, field.Help().Desc, action)
	}
	assert.Len(t, km.bindings(), len(KeyDefinitions))

	assert.Equal(t, []string{"a"}, km.AddTask.Keys())
	assert.Equal(t, []string{" ", "space", "x"}, km.ToggleStatus.Keys())
	assert.Equal(t, "space", km.ToggleStatus.Help().Key)
	assert.Equal(t, []string{"/", "ctrl+f"}, km.SearchTasks.Keys())
}

func TestBuildKeyMap_Overrides(t *testing.T) {
	km := BuildKeyMap(map[string]string{
		"AddTask":    "n, insert",
		"deletetask": "D",
		"QuitApp":    "",
		"Unknown":    "z",
	})

	assert.Equal(t, []string{"n", "insert"}, km.AddTask.Keys())
	assert.Equal(t, "n", km.AddTask.Help().Key)
	assert.Equal(t, []string{"D"}, km.DeleteTask.Keys(), "lowercased action names still apply")
	assert.Equal(t, []string{"q"}, km.QuitApp.Keys(), "empty override keeps default")
}

func TestParseKeyBinding_FallsBackOnBlank(t *testing.T) {
	b := parseKeyBinding(" , ", "q", "quit")
	assert.Equal(t, []string{"q"}, b.Keys())
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, b))
}

func TestGetDefaultKeyMappings(t *testing.T) {
	mappings := GetDefaultKeyMappings()
	assert.Len(t, mappings, len(KeyDefinitions))
	assert.Equal(t, "u", mappings["UndoDelete"])
}
