package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTaskNotFound is returned when no task matches an ID or ID prefix.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousIDPrefix is returned when an ID prefix matches more than one task.
	ErrAmbiguousIDPrefix = errors.New("ambiguous task ID prefix")
)

// Task represents a single todo entry
type Task struct {
	ID            string
	Text          string
	Completed     bool
	DateAdded     time.Time
	DateCompleted *time.Time
	DateModified  *time.Time
}

// NewID allocates a fresh task identifier.
func NewID() string {
	return uuid.NewString()
}

// Normalize returns the form of text used for duplicate comparison.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// SameText reports whether a and b collide under duplicate comparison.
func SameText(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Filter represents the task status filter
type Filter int

const (
	FilterAll       Filter = iota // Show all tasks regardless of status
	FilterActive                  // Show only uncompleted tasks
	FilterCompleted               // Show only completed tasks
)

var filterNames = map[Filter]string{
	FilterAll:       "all",
	FilterActive:    "active",
	FilterCompleted: "completed",
}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return "unknown"
}

// Matches reports whether t passes the status filter.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	return (f + 1) % 3
}

// ParseFilter converts a filter name into a Filter.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	for f, name := range filterNames {
		if name == s {
			return f, nil
		}
	}
	return FilterAll, fmt.Errorf("invalid filter %q: use all, active or completed", s)
}
