package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tasklist/pkg/store"
)

// HandleClearCompleted removes every completed task, asking first unless
// skipConfirm is set.
func HandleClearCompleted(w io.Writer, in io.Reader, st *store.Store, skipConfirm bool) error {
	count := st.CompletedCount()
	if count == 0 {
		fmt.Fprintln(w, "No completed tasks.")
		return nil
	}

	if !skipConfirm {
		fmt.Fprintf(w, "Are you sure you want to delete %d completed task(s)? (y/N): ", count)
		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(w, "Operation cancelled.")
			return nil
		}
	}

	removed := st.ClearCompleted()
	fmt.Fprintf(w, "Successfully deleted %d task(s)\n", removed)
	return nil
}
