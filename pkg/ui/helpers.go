package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/pkg/logging"
	"tasklist/pkg/store"
	"tasklist/pkg/theme"
	"tasklist/pkg/todo"
)

const timeLayout = "2006-01-02 15:04"

// refresh re-reads the store and rebuilds the table rows
func (m *Model) refresh() {
	m.view = m.store.Snapshot()

	rows := make([]table.Row, 0, len(m.view.Tasks))
	for _, t := range m.view.Tasks {
		rows = append(rows, table.Row{m.taskText(t), m.taskDates(t)})
	}
	m.table.SetRows(rows)

	// An empty table leaves the cursor at -1
	if n, c := len(rows), m.table.Cursor(); n > 0 && (c < 0 || c >= n) {
		m.table.SetCursor(min(max(c, 0), n-1))
	}
}

// selectedTask returns the task under the cursor
func (m *Model) selectedTask() (todo.Task, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Tasks) {
		return todo.Task{}, false
	}
	return m.view.Tasks[i], true
}

func (m *Model) taskText(t todo.Task) string {
	status := "[ ]"
	if t.Completed {
		status = "[x]"
	}
	return fmt.Sprintf("%s %s", status, t.Text)
}

// taskDates shows the most relevant timestamp for t
func (m *Model) taskDates(t todo.Task) string {
	loc := m.store.Location()
	switch {
	case t.Completed && t.DateCompleted != nil:
		return "Completed " + t.DateCompleted.In(loc).Format(timeLayout)
	case t.DateModified != nil:
		return "Modified " + t.DateModified.In(loc).Format(timeLayout)
	default:
		return "Added " + t.DateAdded.In(loc).Format(timeLayout)
	}
}

// currentDay is the day the date filter is on, or today if it is unset
func (m *Model) currentDay() todo.Date {
	if m.view.DateFilter != nil {
		return *m.view.DateFilter
	}
	return m.store.Today()
}

// shiftDateFilter moves the date filter by days
func (m *Model) shiftDateFilter(days int) {
	d := m.currentDay().AddDays(days)
	m.store.SetDateFilter(&d)
}

// jumpToDayWithTasks moves the date filter to the nearest day with tasks
func (m *Model) jumpToDayWithTasks(dir int) {
	if d, ok := m.store.AdjacentDayWithTasks(m.currentDay(), dir); ok {
		m.store.SetDateFilter(&d)
	}
}

// toggleFilter switches between f and showing every task
func (m *Model) toggleFilter(f todo.Filter) {
	if m.view.Filter == f {
		m.store.SetFilter(todo.FilterAll)
		return
	}
	m.store.SetFilter(f)
}

// startAdd opens the empty task form
func (m *Model) startAdd() {
	m.mode = AddMode
	m.editingID = ""
	m.textInput.Reset()
	m.textInput.Focus()
}

// startEdit opens the task form filled with the selected task
func (m *Model) startEdit() {
	t, ok := m.selectedTask()
	if !ok {
		return
	}
	m.mode = EditMode
	m.editingID = t.ID
	m.textInput.Reset()
	m.textInput.SetValue(t.Text)
	m.textInput.Focus()
}

// closeForm discards any uncommitted form text
func (m *Model) closeForm() {
	m.mode = NormalMode
	m.editingID = ""
	m.textInput.Reset()
	m.textInput.Blur()
}

// submitForm commits the form based on the current mode
func (m *Model) submitForm() {
	text := m.textInput.Value()

	switch m.mode {
	case AddMode:
		if _, err := m.store.Add(text); errors.Is(err, store.ErrEmptyText) {
			return
		}

	case EditMode:
		if t, ok := m.store.Get(m.editingID); ok && strings.TrimSpace(text) == t.Text {
			break
		}
		if !m.store.Update(m.editingID, text) {
			logging.Module("ui").Debug("edit rejected, rolling back", "id", m.editingID)
		}
	}
	m.closeForm()
}

// submitDate applies the typed date filter
func (m *Model) submitDate() {
	value := strings.TrimSpace(m.dateInput.Value())
	if value == "" {
		m.store.SetDateFilter(nil)
		m.mode = NormalMode
		return
	}
	d, err := todo.ParseDate(value, m.store.Now(), m.store.Location())
	if err != nil {
		m.err = err
		return
	}
	m.store.SetDateFilter(&d)
	m.mode = NormalMode
}

// toggleTheme flips the theme and persists it in the background
func (m *Model) toggleTheme() tea.Cmd {
	m.theme = m.theme.Toggle()
	m.applyTheme()

	slots, th := m.slots, m.theme
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return themeSavedMsg{err: theme.Save(ctx, slots, th)}
	}
}

// openCalendar shows the month of the current date filter
func (m *Model) openCalendar() {
	d := m.currentDay()
	m.calendarMonth = time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, m.store.Location())
	m.calendarSelectedDay = d.Day
	m.mode = CalendarMode
}

// daysInCalendarMonth returns the number of days in the displayed month
func (m *Model) daysInCalendarMonth() int {
	return time.Date(m.calendarMonth.Year(), m.calendarMonth.Month()+1, 0, 0, 0, 0, 0, m.calendarMonth.Location()).Day()
}

// moveCalendar moves the selected day by delta days, changing month as needed
func (m *Model) moveCalendar(delta int) {
	selected := time.Date(m.calendarMonth.Year(), m.calendarMonth.Month(), m.calendarSelectedDay+delta, 0, 0, 0, 0, m.calendarMonth.Location())
	m.calendarMonth = time.Date(selected.Year(), selected.Month(), 1, 0, 0, 0, 0, selected.Location())
	m.calendarSelectedDay = selected.Day()
}

// selectCalendarDay sets the date filter to the selected day
func (m *Model) selectCalendarDay() {
	d := todo.Date{Year: m.calendarMonth.Year(), Month: m.calendarMonth.Month(), Day: m.calendarSelectedDay}
	m.store.SetDateFilter(&d)
	m.mode = NormalMode
}
