package todo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayout matches the ISO-8601 form with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// record is the persisted shape of a Task.
type record struct {
	ID            string  `json:"id"`
	Text          string  `json:"text"`
	Completed     bool    `json:"completed"`
	DateAdded     string  `json:"dateAdded"`
	DateCompleted *string `json:"dateCompleted"`
	DateModified  *string `json:"dateModified"`
}

// Encode serializes the ordered collection.
func Encode(tasks []Task) ([]byte, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, record{
			ID:            t.ID,
			Text:          t.Text,
			Completed:     t.Completed,
			DateAdded:     formatTimestamp(t.DateAdded),
			DateCompleted: formatOptional(t.DateCompleted),
			DateModified:  formatOptional(t.DateModified),
		})
	}
	return json.Marshal(records)
}

// Decode parses a serialized collection. Records that cannot be represented
// as a valid Task, or whose text repeats an earlier record's, are dropped and
// counted in repaired, as are records whose text or completion date had to be
// fixed up.
func Decode(data []byte) (tasks []Task, repaired int, err error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to parse tasks: %w", err)
	}

	tasks = make([]Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	seenText := make(map[string]bool, len(records))
	for _, r := range records {
		if r.ID == "" || seen[r.ID] {
			repaired++
			continue
		}
		added, err := time.Parse(time.RFC3339Nano, r.DateAdded)
		if err != nil {
			repaired++
			continue
		}
		t := Task{
			ID:            r.ID,
			Text:          r.Text,
			Completed:     r.Completed,
			DateAdded:     added,
			DateCompleted: parseOptional(r.DateCompleted),
			DateModified:  parseOptional(r.DateModified),
		}
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" || seenText[Normalize(t.Text)] {
			repaired++
			continue
		}
		fixed := t.Text != r.Text
		if fixCompletion(&t) || fixed {
			repaired++
		}
		seen[r.ID] = true
		seenText[Normalize(t.Text)] = true
		tasks = append(tasks, t)
	}
	return tasks, repaired, nil
}

// fixCompletion restores the rule that DateCompleted is set iff Completed.
func fixCompletion(t *Task) bool {
	switch {
	case t.Completed && t.DateCompleted == nil:
		stamp := t.DateAdded
		if t.DateModified != nil {
			stamp = *t.DateModified
		}
		t.DateCompleted = &stamp
		return true
	case !t.Completed && t.DateCompleted != nil:
		t.DateCompleted = nil
		return true
	}
	return false
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTimestamp(*t)
	return &s
}

func parseOptional(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}
