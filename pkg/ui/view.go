package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"tasklist/pkg/todo"
)

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case NormalMode:
		sb.WriteString(m.titleBar(" Tasks ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		sb.WriteString(m.statusLine())
		sb.WriteString("\n")
		sb.WriteString(m.statsLine())
		if banner := m.undoBanner(); banner != "" {
			sb.WriteString("\n")
			sb.WriteString(banner)
		}

	case AddMode:
		sb.WriteString(m.titleBar(" Add New Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.textInput.View())

	case EditMode:
		sb.WriteString(m.titleBar(" Edit Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.textInput.View())

	case SearchMode:
		sb.WriteString(m.titleBar(" Search Tasks ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.searchInput.View())
		sb.WriteString("\n\n")
		sb.WriteString(m.mutedStyle().Render(fmt.Sprintf("%d matching", m.view.FilteredCount)))

	case DateMode:
		sb.WriteString(m.titleBar(" Filter By Date ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.dateInput.View())

	case CalendarMode:
		sb.WriteString(m.renderCalendar())

	case HelpViewMode:
		sb.WriteString(m.renderHelp())
	}

	// Error messages: the store's duplicate error, then any UI error
	if m.view.Err != nil {
		sb.WriteString("\n\n")
		sb.WriteString(m.errorStyle().Render(m.view.Err.Error()))
	}
	if m.err != nil {
		sb.WriteString("\n\n")
		sb.WriteString(m.errorStyle().Render(fmt.Sprintf("Error: %v", m.err)))
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

func (m Model) titleBar(title, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(title)
}

func (m Model) mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.MutedTextColor))
}

func (m Model) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.styles.ErrorColor))
}

// statusLine describes the active filters and the page
func (m Model) statusLine() string {
	parts := []string{"Showing " + filterLabel(m.view.Filter)}

	if m.view.DateFilter != nil {
		parts = append(parts, "added "+m.view.DateFilter.String())
	}
	if m.view.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("matching %q", m.view.SearchTerm))
	}

	page := fmt.Sprintf("page %d/%d", m.view.Page, m.view.TotalPages)
	if m.view.FilteredCount == 0 {
		page = "no tasks"
	}
	parts = append(parts, page)

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor)).
		Render(strings.Join(parts, " | "))
}

func filterLabel(f todo.Filter) string {
	switch f {
	case todo.FilterActive:
		return "active tasks"
	case todo.FilterCompleted:
		return "completed tasks"
	default:
		return "all tasks"
	}
}

// statsLine shows the remaining and completed counts
func (m Model) statsLine() string {
	noun := "items"
	if m.view.ActiveCount == 1 {
		noun = "item"
	}
	stats := fmt.Sprintf("%d %s left", m.view.ActiveCount, noun)
	if m.view.CompletedCount > 0 {
		stats += fmt.Sprintf(" • %d completed", m.view.CompletedCount)
	}
	return m.mutedStyle().Render(stats)
}

// undoBanner offers to restore the task pending deletion
func (m Model) undoBanner() string {
	if m.view.Pending == nil {
		return ""
	}
	left := m.view.PendingDeadline.Sub(m.store.Now()).Round(time.Second)
	if left < 0 {
		left = 0
	}
	msg := fmt.Sprintf("Deleted %q. Press %s to undo (%s)",
		m.view.Pending.Text, m.keyMap.UndoDelete.Help().Key, left)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Render(msg)
}

// helpBar renders a sleek status bar with available actions
func (m Model) helpBar() string {
	var actions []string

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))
	separator := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.BorderColor)).
		Render(" • ")

	addAction := func(k, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(k), descStyle.Render(desc)))
	}
	addBinding := func(b key.Binding, desc string) {
		addAction(b.Help().Key, desc)
	}

	switch m.mode {
	case NormalMode:
		addBinding(m.keyMap.AddTask, "add")
		addBinding(m.keyMap.EditTask, "edit")
		addBinding(m.keyMap.DeleteTask, "del")
		addBinding(m.keyMap.ToggleStatus, "toggle")
		addBinding(m.keyMap.CycleFilter, "filter")
		addBinding(m.keyMap.SearchTasks, "search")
		addBinding(m.keyMap.ToggleCalendarView, "cal")
		addBinding(m.keyMap.ShowHelp, "help")
		addBinding(m.keyMap.QuitApp, "quit")

	case AddMode, EditMode:
		addAction("enter", "save")
		addAction("esc", "cancel")

	case SearchMode:
		addAction("enter", "keep")
		addAction("esc", "clear")

	case DateMode:
		addAction("enter", "apply")
		addAction("esc", "cancel")

	case CalendarMode:
		addAction("←↑↓→", "nav")
		addBinding(m.keyMap.CalendarSelect, "select")
		addBinding(m.keyMap.JumpToToday, "today")
		addBinding(m.keyMap.ToggleCalendarView, "exit cal")

	case HelpViewMode:
		addAction(m.keyMap.ShowHelp.Help().Key+"/esc", "back")
		addBinding(m.keyMap.QuitApp, "quit")
	}

	return strings.Join(actions, separator)
}

// renderHelp lists every binding grouped by purpose
func (m Model) renderHelp() string {
	var sb strings.Builder

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))
	heading := func(s string) {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(s))
		sb.WriteString("\n\n")
	}
	addCommand := func(b key.Binding) {
		sb.WriteString(fmt.Sprintf("%s: %s\n",
			descStyle.Render(b.Help().Desc),
			keyStyle.Render(strings.Join(b.Keys(), ", "))))
	}

	heading("Available Commands")
	addCommand(m.keyMap.QuitApp)
	addCommand(m.keyMap.ShowHelp)
	addCommand(m.keyMap.AddTask)
	addCommand(m.keyMap.EditTask)
	addCommand(m.keyMap.ToggleStatus)
	addCommand(m.keyMap.DeleteTask)
	addCommand(m.keyMap.UndoDelete)
	addCommand(m.keyMap.ClearCompleted)
	addCommand(m.keyMap.ToggleTheme)

	sb.WriteString("\n")
	heading("Filters")
	addCommand(m.keyMap.CycleFilter)
	addCommand(m.keyMap.ShowDoneTasks)
	addCommand(m.keyMap.ShowUndoneTasks)
	addCommand(m.keyMap.SearchTasks)
	addCommand(m.keyMap.FilterByDate)
	addCommand(m.keyMap.ClearDateFilter)

	sb.WriteString("\n")
	heading("Navigation Commands")
	addCommand(m.keyMap.PrevPage)
	addCommand(m.keyMap.NextPage)
	addCommand(m.keyMap.PrevDay)
	addCommand(m.keyMap.NextDay)
	addCommand(m.keyMap.PrevDayWithTasks)
	addCommand(m.keyMap.NextDayWithTasks)
	addCommand(m.keyMap.JumpToToday)

	sb.WriteString("\n")
	heading("Calendar Commands")
	addCommand(m.keyMap.ToggleCalendarView)
	addCommand(m.keyMap.CalendarLeft)
	addCommand(m.keyMap.CalendarRight)
	addCommand(m.keyMap.CalendarUp)
	addCommand(m.keyMap.CalendarDown)
	addCommand(m.keyMap.CalendarSelect)

	return sb.String()
}

// renderCalendar renders the month grid, marking days that have tasks
func (m Model) renderCalendar() string {
	var sb strings.Builder

	firstDay := m.calendarMonth
	firstWeekday := int(firstDay.Weekday())
	daysInMonth := m.daysInCalendarMonth()

	sb.WriteString(m.titleBar(" "+firstDay.Format("January 2006")+" ", m.styles.AccentColor))
	sb.WriteString("\n\n")

	weekdayRow := ""
	for _, day := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		weekdayRow += fmt.Sprintf("%-4s", day)
	}
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(weekdayRow))
	sb.WriteString("\n")

	daysWithTasks := m.store.DaysWithTasks(firstDay.Year(), firstDay.Month())
	today := m.store.Today()

	currentDay := 1
	for week := 0; week < 6 && currentDay <= daysInMonth; week++ {
		row := ""
		for weekday := 0; weekday < 7; weekday++ {
			if (week == 0 && weekday < firstWeekday) || currentDay > daysInMonth {
				row += "    "
				continue
			}

			dayStyle := lipgloss.NewStyle()
			isToday := today.Year == firstDay.Year() &&
				today.Month == firstDay.Month() &&
				today.Day == currentDay

			switch {
			case currentDay == m.calendarSelectedDay:
				dayStyle = dayStyle.Background(lipgloss.Color(m.styles.AccentColor)).
					Foreground(lipgloss.Color(m.styles.SelectedTextColor)).Bold(true)
			case isToday:
				dayStyle = dayStyle.Background(lipgloss.Color(m.styles.SelectedBgColor)).
					Foreground(lipgloss.Color(m.styles.SelectedTextColor))
			case daysWithTasks[currentDay]:
				dayStyle = dayStyle.Foreground(lipgloss.Color(m.styles.AccentColor)).Bold(true)
			}

			row += dayStyle.Render(fmt.Sprintf("%-4d", currentDay))
			currentDay++
		}

		sb.WriteString(row)
		sb.WriteString("\n")
	}

	return sb.String()
}
