package todo

import (
	"fmt"
	"strings"
)

// DefaultIDDisplayLength is the minimum number of ID characters shown to users.
const DefaultIDDisplayLength = 8

// IDIndex resolves user-typed ID prefixes against a set of tasks.
// Matching ignores case; resolved IDs keep their stored form.
type IDIndex struct {
	ids   []string
	lower []string
}

// NewIDIndex builds an IDIndex over tasks.
func NewIDIndex(tasks []Task) IDIndex {
	index := IDIndex{
		ids:   make([]string, 0, len(tasks)),
		lower: make([]string, 0, len(tasks)),
	}
	for _, t := range tasks {
		index.ids = append(index.ids, t.ID)
		index.lower = append(index.lower, strings.ToLower(t.ID))
	}
	return index
}

// Resolve returns the full ID matching prefix.
func (index IDIndex) Resolve(prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", ErrTaskNotFound
	}

	match := ""
	for i, id := range index.lower {
		if id == prefix {
			return index.ids[i], nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousIDPrefix, prefix)
			}
			match = index.ids[i]
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	}
	return match, nil
}

// ShortID returns the display form of id: at least DefaultIDDisplayLength
// characters, extended until it no longer prefixes any other indexed ID.
func (index IDIndex) ShortID(id string) string {
	id = strings.ToLower(id)
	for length := DefaultIDDisplayLength; length < len(id); length++ {
		prefix := id[:length]
		unique := true
		for _, other := range index.lower {
			if other != id && strings.HasPrefix(other, prefix) {
				unique = false
				break
			}
		}
		if unique {
			return prefix
		}
	}
	return id
}
