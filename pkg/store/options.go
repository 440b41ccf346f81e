package store

import (
	"log/slog"
	"time"
)

// Defaults for the store's timing and paging
const (
	DefaultPageSize     = 5
	DefaultErrorTimeout = 3 * time.Second
	DefaultUndoTimeout  = 5 * time.Second
)

type options struct {
	clock        Clock
	logger       *slog.Logger
	location     *time.Location
	pageSize     int
	errorTimeout time.Duration
	undoTimeout  time.Duration
}

// Option configures a Store
type Option func(*options)

// WithClock replaces the system clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the logger used for persistence and load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLocation sets the zone used to compare tasks against the date filter.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

// WithPageSize overrides the number of tasks per page.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithErrorTimeout overrides how long a recorded error stays visible.
func WithErrorTimeout(d time.Duration) Option {
	return func(o *options) { o.errorTimeout = d }
}

// WithUndoTimeout overrides how long a deleted task can be restored.
func WithUndoTimeout(d time.Duration) Option {
	return func(o *options) { o.undoTimeout = d }
}
