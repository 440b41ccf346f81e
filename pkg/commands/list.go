package commands

import (
	"fmt"
	"io"
	"strings"

	"tasklist/pkg/store"
	"tasklist/pkg/todo"
)

const timeLayout = "2006-01-02 15:04"

// ListOptions narrows the list command's output
type ListOptions struct {
	Filter string
	Search string
	Date   string
	Page   int
}

// HandleList prints one page of tasks using the store's filters
func HandleList(w io.Writer, st *store.Store, opts ListOptions) error {
	filter, err := todo.ParseFilter(opts.Filter)
	if err != nil {
		return err
	}
	st.SetFilter(filter)
	st.SetSearchTerm(opts.Search)

	if opts.Date != "" {
		d, err := todo.ParseDate(opts.Date, st.Now(), st.Location())
		if err != nil {
			return err
		}
		st.SetDateFilter(&d)
	}
	if opts.Page > 0 {
		st.SetPage(opts.Page)
	}

	snap := st.Snapshot()
	if snap.FilteredCount == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}

	index := st.IDIndex()
	loc := st.Location()

	fmt.Fprintf(w, "%-10s %-4s %-40s %-16s\n", "ID", "DONE", "TASK", "ADDED")
	fmt.Fprintln(w, strings.Repeat("-", 73))
	for _, t := range snap.Tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		fmt.Fprintf(w, "%-10s %-4s %-40s %-16s\n",
			index.ShortID(t.ID), done, truncate(t.Text, 40), t.DateAdded.In(loc).Format(timeLayout))
	}

	fmt.Fprintf(w, "\nPage %d/%d, %d matching task(s)\n", snap.Page, snap.TotalPages, snap.FilteredCount)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
