package store

import (
	"time"

	"tasklist/pkg/todo"
)

// Snapshot is a consistent copy of the store's derived state
type Snapshot struct {
	Tasks          []todo.Task // tasks on the current page
	FilteredCount  int
	Page           int
	TotalPages     int
	Filter         todo.Filter
	SearchTerm     string
	DateFilter     *todo.Date
	ActiveCount    int
	CompletedCount int
	TotalCount     int
	Err            error

	// Pending is the task awaiting deletion, if any
	Pending         *todo.Task
	PendingDeadline time.Time
}

// Snapshot returns every derived field in one read.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.activeCountLocked()
	snap := Snapshot{
		Tasks:          s.pageLocked(),
		FilteredCount:  len(s.filtered),
		Page:           s.page,
		TotalPages:     s.totalPages,
		Filter:         s.filter,
		SearchTerm:     s.search,
		DateFilter:     s.dateFilterLocked(),
		ActiveCount:    active,
		CompletedCount: len(s.tasks) - active,
		TotalCount:     len(s.tasks),
		Err:            s.errLocked(),
	}
	if t, ok := s.pendingTaskLocked(); ok {
		snap.Pending = &t
		snap.PendingDeadline = s.pending.deadline
	}
	return snap
}

// Tasks returns the whole collection in insertion order, including a task
// pending deletion.
func (s *Store) Tasks() []todo.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]todo.Task(nil), s.tasks...)
}

// Filtered returns every task passing the current filters, across all pages.
func (s *Store) Filtered() []todo.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]todo.Task(nil), s.filtered...)
}

// CurrentPage returns the tasks on the current page.
func (s *Store) CurrentPage() []todo.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageLocked()
}

// Page returns the current page number, starting at 1.
func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// TotalPages returns the number of pages in the filtered view, at least 1.
func (s *Store) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

func (s *Store) Filter() todo.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Store) SearchTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// DateFilter returns a copy of the date filter, or nil when unset.
func (s *Store) DateFilter() *todo.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dateFilterLocked()
}

// ActiveCount counts uncompleted tasks over the whole collection.
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeCountLocked()
}

// CompletedCount counts completed tasks over the whole collection.
func (s *Store) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks) - s.activeCountLocked()
}

func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Err returns the recorded error, or nil once it has expired or been cleared.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errLocked()
}

// PendingDeletion returns the task awaiting deletion.
func (s *Store) PendingDeletion() (todo.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingTaskLocked()
}

// Get returns a visible task by ID.
func (s *Store) Get(id string) (todo.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.liveIndexLocked(id)
	if i < 0 {
		return todo.Task{}, false
	}
	return s.tasks[i], true
}

// IDIndex indexes the visible tasks for prefix lookups.
func (s *Store) IDIndex() todo.IDIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return todo.NewIDIndex(s.liveTasksLocked())
}

// ResolveID expands a unique ID prefix of a visible task.
func (s *Store) ResolveID(prefix string) (string, error) {
	return s.IDIndex().Resolve(prefix)
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.opts.clock.Now()
}

// Location returns the zone used for date filtering.
func (s *Store) Location() *time.Location {
	return s.opts.location
}

// Today returns the current calendar day in the store's zone.
func (s *Store) Today() todo.Date {
	return todo.DateOf(s.Now(), s.opts.location)
}

// DaysWithTasks returns the days of the given month on which visible tasks
// were added.
func (s *Store) DaysWithTasks(year int, month time.Month) map[int]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := make(map[int]bool)
	for _, t := range s.liveTasksLocked() {
		d := todo.DateOf(t.DateAdded, s.opts.location)
		if d.Year == year && d.Month == month {
			days[d.Day] = true
		}
	}
	return days
}

// AdjacentDayWithTasks finds the nearest day before (dir < 0) or after
// (dir > 0) from on which a visible task was added.
func (s *Store) AdjacentDayWithTasks(from todo.Date, dir int) (todo.Date, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		best  todo.Date
		found bool
	)
	for _, t := range s.liveTasksLocked() {
		d := todo.DateOf(t.DateAdded, s.opts.location)
		switch {
		case dir < 0 && d.Before(from):
			if !found || best.Before(d) {
				best, found = d, true
			}
		case dir > 0 && from.Before(d):
			if !found || d.Before(best) {
				best, found = d, true
			}
		}
	}
	return best, found
}

func (s *Store) pageLocked() []todo.Task {
	size := s.opts.pageSize
	start := (s.page - 1) * size
	if start >= len(s.filtered) {
		return []todo.Task{}
	}
	end := min(start+size, len(s.filtered))
	return append([]todo.Task(nil), s.filtered[start:end]...)
}

func (s *Store) activeCountLocked() int {
	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

func (s *Store) dateFilterLocked() *todo.Date {
	if s.dateFilter == nil {
		return nil
	}
	d := *s.dateFilter
	return &d
}

func (s *Store) errLocked() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

func (s *Store) pendingTaskLocked() (todo.Task, bool) {
	if s.pending == nil {
		return todo.Task{}, false
	}
	i := s.indexLocked(s.pending.id)
	if i < 0 {
		return todo.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) liveTasksLocked() []todo.Task {
	live := make([]todo.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !s.isPendingLocked(t.ID) {
			live = append(live, t)
		}
	}
	return live
}
