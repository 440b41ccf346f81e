package store

import "errors"

// Messages recorded for duplicate text
const (
	MsgDuplicateOnAdd    = "This todo already exists."
	MsgDuplicateOnUpdate = "Another todo with this name already exists."
)

var (
	// ErrDuplicateTask matches any DuplicateTaskError via errors.Is.
	ErrDuplicateTask = errors.New("duplicate task")

	// ErrEmptyText is returned by Add when the text is blank after trimming.
	ErrEmptyText = errors.New("task text cannot be empty")

	// ErrClosed is returned by Close when the store was already closed.
	ErrClosed = errors.New("store is closed")
)

// DuplicateTaskError reports text that collides with an existing task.
type DuplicateTaskError struct {
	Text    string
	Message string
}

func (e *DuplicateTaskError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrDuplicateTask) hold.
func (e *DuplicateTaskError) Is(target error) bool {
	return target == ErrDuplicateTask
}
