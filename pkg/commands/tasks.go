package commands

import (
	"fmt"
	"io"
	"strings"

	"tasklist/pkg/store"
	"tasklist/pkg/todo"
)

// HandleToggle flips the completion state of the task matching prefix
func HandleToggle(w io.Writer, st *store.Store, prefix string) error {
	id, err := st.ResolveID(prefix)
	if err != nil {
		return err
	}
	st.ToggleComplete(id)

	t, _ := st.Get(id)
	state := "active"
	if t.Completed {
		state = "completed"
	}
	fmt.Fprintf(w, "Marked %q %s\n", t.Text, state)
	return nil
}

// HandleEdit replaces the text of the task matching prefix
func HandleEdit(w io.Writer, st *store.Store, prefix string, words []string) error {
	id, err := st.ResolveID(prefix)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(words, " "))
	if text == "" {
		return fmt.Errorf("task text cannot be empty")
	}
	if !st.Update(id, text) {
		if err := st.Err(); err != nil {
			return err
		}
		return todo.ErrTaskNotFound
	}
	fmt.Fprintf(w, "Updated %s %s\n", st.IDIndex().ShortID(id), text)
	return nil
}

// HandleDelete removes the task matching prefix. There is no undo window
// outside the interactive UI, so the deletion is finalized at once.
func HandleDelete(w io.Writer, st *store.Store, prefix string) error {
	id, err := st.ResolveID(prefix)
	if err != nil {
		return err
	}
	t, _ := st.Get(id)

	st.Delete(id)
	st.FinalizeDelete()

	fmt.Fprintf(w, "Deleted %q\n", t.Text)
	return nil
}
