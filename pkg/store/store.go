package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tasklist/pkg/logging"
	"tasklist/pkg/storage"
	"tasklist/pkg/todo"
)

// Change describes what an operation touched
type Change uint8

const (
	ChangedTasks   Change = 1 << iota // the collection itself
	ChangedView                       // filtered view, page or view settings
	ChangedError                      // the recorded error
	ChangedPending                    // the pending deletion slot
)

// Has reports whether c includes flag.
func (c Change) Has(flag Change) bool { return c&flag != 0 }

// Store owns the task collection and every view derived from it. All
// methods are safe for concurrent use. Listeners registered with Subscribe
// are called after the store's lock is released.
type Store struct {
	mu      sync.Mutex
	opts    options
	log     *slog.Logger
	persist *persister

	tasks []todo.Task

	filter     todo.Filter
	search     string
	dateFilter *todo.Date
	page       int

	filtered   []todo.Task
	totalPages int

	err      *DuplicateTaskError
	errSeq   uint64
	errTimer Timer

	pending    *pendingDeletion
	pendingSeq uint64

	listeners    []listener
	nextListener int
	closed       bool
}

type pendingDeletion struct {
	id       string
	deadline time.Time
	seq      uint64
	timer    Timer
}

type listener struct {
	id int
	fn func(Change)
}

// Open loads the collection from the todos slot and returns a ready store.
// Absent or malformed data yields an empty collection. Only a failure to
// read the slot at all is returned as an error.
func Open(ctx context.Context, slots storage.Slots, opts ...Option) (*Store, error) {
	o := options{
		clock:        SystemClock(),
		location:     time.Local,
		pageSize:     DefaultPageSize,
		errorTimeout: DefaultErrorTimeout,
		undoTimeout:  DefaultUndoTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Module("store")
	}

	raw, ok, err := slots.Get(ctx, storage.TodosKey)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	s := &Store{
		opts:    o,
		log:     o.logger,
		tasks:   decodeTasks(raw, ok, o.logger),
		page:    1,
		persist: newPersister(slots, storage.TodosKey, o.logger),
	}
	s.recomputeLocked()
	return s, nil
}

func decodeTasks(raw string, ok bool, log *slog.Logger) []todo.Task {
	if !ok || strings.TrimSpace(raw) == "" {
		log.Debug("no stored tasks, starting empty")
		return nil
	}
	tasks, repaired, err := todo.Decode([]byte(raw))
	if err != nil {
		log.Warn("ignoring malformed stored tasks", "error", err)
		return nil
	}
	if repaired > 0 {
		log.Warn("repaired stored tasks", "records", repaired)
	}
	log.Debug("loaded tasks", "count", len(tasks))
	return tasks
}

// Subscribe registers fn to be called after every operation that changes
// state. The returned function removes the registration.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextListener++
	id := s.nextListener
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// apply runs fn under the lock, then notifies listeners of what it changed.
func (s *Store) apply(fn func() Change) {
	s.mu.Lock()
	changed := fn()
	var listeners []listener
	if changed != 0 {
		listeners = append(listeners, s.listeners...)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(changed)
	}
}

// Add appends a new task. Blank text returns ErrEmptyText and changes
// nothing. Text matching a visible task records and returns a
// *DuplicateTaskError.
func (s *Store) Add(text string) (todo.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return todo.Task{}, ErrEmptyText
	}

	var (
		task todo.Task
		err  error
	)
	s.apply(func() Change {
		if s.isDuplicateLocked(text, "", true) {
			err = s.recordErrorLocked(text, MsgDuplicateOnAdd)
			return ChangedError
		}
		task = todo.Task{ID: s.newIDLocked(), Text: text, DateAdded: s.now()}
		s.tasks = append(s.tasks, task)
		changed := ChangedTasks | ChangedView | s.clearErrorLocked()
		s.recomputeLocked()
		s.persistLocked()
		return changed
	})
	return task, err
}

// ToggleComplete flips a task's completion state. Unknown IDs are ignored.
func (s *Store) ToggleComplete(id string) {
	s.apply(func() Change {
		i := s.liveIndexLocked(id)
		if i < 0 {
			return 0
		}
		now := s.now()
		t := &s.tasks[i]
		t.Completed = !t.Completed
		if t.Completed {
			completed := now
			t.DateCompleted = &completed
		} else {
			t.DateCompleted = nil
		}
		t.DateModified = &now

		s.recomputeLocked()
		s.persistLocked()
		return ChangedTasks | ChangedView
	})
}

// Update replaces a task's text. It returns false, leaving the task
// untouched, when the ID is unknown, the text is blank, or the text matches
// another task. Only the last case records an error.
func (s *Store) Update(id, newText string) bool {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return false
	}

	ok := false
	s.apply(func() Change {
		i := s.liveIndexLocked(id)
		if i < 0 {
			return 0
		}
		if s.isDuplicateLocked(newText, id, false) {
			s.recordErrorLocked(newText, MsgDuplicateOnUpdate)
			return ChangedError
		}
		now := s.now()
		s.tasks[i].Text = newText
		s.tasks[i].DateModified = &now
		ok = true

		changed := ChangedTasks | ChangedView | s.clearErrorLocked()
		s.recomputeLocked()
		s.persistLocked()
		return changed
	})
	return ok
}

// Delete hides a task and schedules its removal after the undo timeout.
// A task already pending deletion is removed for good first.
func (s *Store) Delete(id string) {
	s.apply(func() Change {
		if s.liveIndexLocked(id) < 0 {
			return 0
		}
		changed := ChangedView | ChangedPending
		if s.finalizePendingLocked() {
			changed |= ChangedTasks
		}

		s.pendingSeq++
		seq := s.pendingSeq
		s.pending = &pendingDeletion{
			id:       id,
			deadline: s.opts.clock.Now().Add(s.opts.undoTimeout),
			seq:      seq,
		}
		s.pending.timer = s.opts.clock.AfterFunc(s.opts.undoTimeout, func() {
			s.expirePending(seq)
		})

		s.recomputeLocked()
		return changed
	})
}

// UndoDelete restores the pending task. It reports whether a task became
// visible again. A restore that would collide with a task added in the
// meantime records a duplicate error and leaves the deletion pending.
func (s *Store) UndoDelete() bool {
	restored := false
	s.apply(func() Change {
		if s.pending == nil {
			return 0
		}
		i := s.indexLocked(s.pending.id)
		if i >= 0 && s.isDuplicateLocked(s.tasks[i].Text, s.pending.id, true) {
			s.recordErrorLocked(s.tasks[i].Text, MsgDuplicateOnAdd)
			return ChangedError
		}

		s.pending.timer.Stop()
		s.pending = nil
		restored = i >= 0
		s.recomputeLocked()
		return ChangedView | ChangedPending
	})
	return restored
}

// FinalizeDelete removes the pending task immediately.
func (s *Store) FinalizeDelete() {
	s.apply(func() Change {
		if s.pending == nil {
			return 0
		}
		changed := ChangedPending
		if s.finalizePendingLocked() {
			changed |= ChangedTasks
		}
		s.recomputeLocked()
		return changed | ChangedView
	})
}

// ClearCompleted permanently removes every completed task, including one
// that is pending deletion, and returns how many were removed.
func (s *Store) ClearCompleted() int {
	removed := 0
	s.apply(func() Change {
		kept := make([]todo.Task, 0, len(s.tasks))
		for _, t := range s.tasks {
			if t.Completed {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		if removed == 0 {
			return 0
		}
		s.tasks = kept
		s.recomputeLocked()
		s.persistLocked()
		return ChangedTasks | ChangedView | ChangedPending
	})
	return removed
}

// SetFilter changes the status filter and returns to the first page.
func (s *Store) SetFilter(f todo.Filter) {
	s.apply(func() Change {
		s.filter = f
		s.page = 1
		s.recomputeLocked()
		return ChangedView
	})
}

// SetSearchTerm changes the search term and returns to the first page.
func (s *Store) SetSearchTerm(term string) {
	s.apply(func() Change {
		s.search = term
		s.page = 1
		s.recomputeLocked()
		return ChangedView
	})
}

// SetDateFilter restricts the view to tasks added on d. Nil clears it.
func (s *Store) SetDateFilter(d *todo.Date) {
	s.apply(func() Change {
		if d == nil {
			s.dateFilter = nil
		} else {
			day := *d
			s.dateFilter = &day
		}
		s.page = 1
		s.recomputeLocked()
		return ChangedView
	})
}

// NextPage advances one page, stopping at the last.
func (s *Store) NextPage() {
	s.apply(func() Change {
		if s.page >= s.totalPages {
			return 0
		}
		s.page++
		return ChangedView
	})
}

// PrevPage goes back one page, stopping at the first.
func (s *Store) PrevPage() {
	s.apply(func() Change {
		if s.page <= 1 {
			return 0
		}
		s.page--
		return ChangedView
	})
}

// SetPage jumps to page n, clamped to the valid range.
func (s *Store) SetPage(n int) {
	s.apply(func() Change {
		n = min(max(n, 1), s.totalPages)
		if n == s.page {
			return 0
		}
		s.page = n
		return ChangedView
	})
}

// Flush waits until every change made so far has been written.
func (s *Store) Flush(ctx context.Context) error {
	return s.persist.flush(ctx)
}

// Close cancels pending timers and flushes outstanding writes. A task that
// is pending deletion stays in the stored collection.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	if s.pending != nil {
		s.pending.timer.Stop()
	}
	s.mu.Unlock()

	return s.persist.close(ctx)
}

func (s *Store) expireError(seq uint64) {
	s.apply(func() Change {
		if s.err == nil || s.errSeq != seq {
			return 0
		}
		s.err = nil
		s.errTimer = nil
		return ChangedError
	})
}

func (s *Store) expirePending(seq uint64) {
	s.apply(func() Change {
		if s.pending == nil || s.pending.seq != seq {
			return 0
		}
		changed := ChangedView | ChangedPending
		if s.finalizePendingLocked() {
			changed |= ChangedTasks
		}
		s.recomputeLocked()
		return changed
	})
}

// finalizePendingLocked empties the pending slot, removing its task if it
// still exists. It reports whether the collection changed.
func (s *Store) finalizePendingLocked() bool {
	if s.pending == nil {
		return false
	}
	s.pending.timer.Stop()
	id := s.pending.id
	s.pending = nil

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.log.Debug("deleted task", "id", id)
	s.persistLocked()
	return true
}

func (s *Store) recordErrorLocked(text, msg string) *DuplicateTaskError {
	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	s.errSeq++
	seq := s.errSeq
	e := &DuplicateTaskError{Text: text, Message: msg}
	s.err = e
	s.errTimer = s.opts.clock.AfterFunc(s.opts.errorTimeout, func() {
		s.expireError(seq)
	})
	return e
}

func (s *Store) clearErrorLocked() Change {
	if s.err == nil {
		return 0
	}
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
	s.err = nil
	s.errSeq++
	return ChangedError
}

// isDuplicateLocked reports whether text collides with any task other than
// exceptID. With skipPending the task pending deletion is not considered.
func (s *Store) isDuplicateLocked(text, exceptID string, skipPending bool) bool {
	norm := todo.Normalize(text)
	for _, t := range s.tasks {
		if t.ID == exceptID {
			continue
		}
		if skipPending && s.isPendingLocked(t.ID) {
			continue
		}
		if todo.Normalize(t.Text) == norm {
			return true
		}
	}
	return false
}

func (s *Store) isPendingLocked(id string) bool {
	return s.pending != nil && s.pending.id == id
}

func (s *Store) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// liveIndexLocked is indexLocked restricted to tasks not pending deletion.
func (s *Store) liveIndexLocked(id string) int {
	if s.isPendingLocked(id) {
		return -1
	}
	return s.indexLocked(id)
}

func (s *Store) newIDLocked() string {
	for {
		id := todo.NewID()
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

// now returns the current time at the millisecond precision that survives
// a round trip through storage.
func (s *Store) now() time.Time {
	return s.opts.clock.Now().Truncate(time.Millisecond)
}

func (s *Store) persistLocked() {
	data, err := todo.Encode(s.tasks)
	if err != nil {
		s.log.Error("failed to encode tasks", "error", err)
		return
	}
	s.persist.schedule(data)
}

func (s *Store) recomputeLocked() {
	search := strings.ToLower(s.search)
	filtered := make([]todo.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.isPendingLocked(t.ID) {
			continue
		}
		if !s.filter.Matches(t) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Text), search) {
			continue
		}
		if s.dateFilter != nil && !s.dateFilter.Contains(t.DateAdded, s.opts.location) {
			continue
		}
		filtered = append(filtered, t)
	}

	size := s.opts.pageSize
	s.filtered = filtered
	s.totalPages = max(1, (len(filtered)+size-1)/size)
	s.page = min(max(s.page, 1), s.totalPages)
}
