package commands

import (
	"fmt"
	"io"

	"tasklist/pkg/store"
)

// HandleStats prints task counts
func HandleStats(w io.Writer, st *store.Store) error {
	snap := st.Snapshot()

	fmt.Fprintln(w, "Task Statistics")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "Total tasks:      %d\n", snap.TotalCount)
	fmt.Fprintf(w, "Active tasks:     %d\n", snap.ActiveCount)
	fmt.Fprintf(w, "Completed tasks:  %d\n", snap.CompletedCount)

	if snap.TotalCount > 0 {
		fmt.Fprintf(w, "\nCompleted ratio:  %.1f%%\n", float64(snap.CompletedCount)/float64(snap.TotalCount)*100)
	}
	return nil
}
