package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"tasklist/pkg/store"
)

// HandleAddTask processes the add command
func HandleAddTask(w io.Writer, st *store.Store, words []string) error {
	text := strings.Join(words, " ")

	task, err := st.Add(text)
	if errors.Is(err, store.ErrEmptyText) {
		return fmt.Errorf("task text cannot be empty")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Added %s %s\n", st.IDIndex().ShortID(task.ID), task.Text)
	return nil
}
