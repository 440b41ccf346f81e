package theme

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklist/pkg/storage"
)

// Theme is the persisted light/dark preference
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Detector reports whether the terminal has a dark background.
type Detector func() bool

// TerminalDetector asks the terminal for its background color.
func TerminalDetector() bool {
	return lipgloss.HasDarkBackground()
}

// Parse accepts "light" or "dark", case-insensitively.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool { return t == Dark }

// Load reads the theme slot, falling back to detect when the slot is empty,
// unreadable, or holds an unknown token.
func Load(ctx context.Context, slots storage.Slots, detect Detector) Theme {
	raw, ok, err := slots.Get(ctx, storage.ThemeKey)
	if err != nil {
		slog.Warn("failed to read theme preference", "error", err)
	}
	if t, valid := Parse(raw); ok && valid {
		return t
	}
	if ok && err == nil {
		slog.Warn("ignoring unknown theme preference", "value", raw)
	}
	if detect != nil && detect() {
		return Dark
	}
	return Light
}

// Save persists t in the theme slot.
func Save(ctx context.Context, slots storage.Slots, t Theme) error {
	if _, ok := Parse(string(t)); !ok {
		return fmt.Errorf("invalid theme %q: use light or dark", t)
	}
	if err := slots.Set(ctx, storage.ThemeKey, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
