package commands

import (
	"context"
	"fmt"
	"io"

	"tasklist/pkg/storage"
	"tasklist/pkg/theme"
)

// HandleTheme prints the stored theme, or sets it when arg is light, dark
// or toggle.
func HandleTheme(ctx context.Context, w io.Writer, slots storage.Slots, detect theme.Detector, arg string) error {
	current := theme.Load(ctx, slots, detect)
	if arg == "" {
		fmt.Fprintln(w, current)
		return nil
	}

	next, ok := theme.Parse(arg)
	if arg == "toggle" {
		next, ok = current.Toggle(), true
	}
	if !ok {
		return fmt.Errorf("invalid theme %q: use light, dark or toggle", arg)
	}

	if err := theme.Save(ctx, slots, next); err != nil {
		return err
	}
	fmt.Fprintf(w, "Theme set to %s\n", next)
	return nil
}
