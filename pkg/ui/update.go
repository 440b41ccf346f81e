package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/pkg/logging"
	"tasklist/pkg/todo"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case StoreChangedMsg:
		m.refresh()
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			logging.Module("ui").Error("failed to save theme", "error", msg.err)
			m.err = msg.err
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		m.err = nil

		switch m.mode {
		case NormalMode:
			handled := true
			switch {
			case key.Matches(msg, m.keyMap.ShowHelp):
				m.mode = HelpViewMode

			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit

			case key.Matches(msg, m.keyMap.ToggleStatus):
				if t, ok := m.selectedTask(); ok {
					m.store.ToggleComplete(t.ID)
				}

			case key.Matches(msg, m.keyMap.AddTask):
				m.startAdd()
				return m, textinput.Blink

			case key.Matches(msg, m.keyMap.EditTask):
				m.startEdit()
				return m, textinput.Blink

			case key.Matches(msg, m.keyMap.DeleteTask):
				if t, ok := m.selectedTask(); ok {
					logging.Module("ui").Debug("deleting task", "id", t.ID)
					m.store.Delete(t.ID)
				}

			case key.Matches(msg, m.keyMap.UndoDelete):
				m.store.UndoDelete()

			case key.Matches(msg, m.keyMap.ClearCompleted):
				m.store.ClearCompleted()

			case key.Matches(msg, m.keyMap.CycleFilter):
				m.store.SetFilter(m.view.Filter.Next())

			case key.Matches(msg, m.keyMap.ShowDoneTasks):
				m.toggleFilter(todo.FilterCompleted)

			case key.Matches(msg, m.keyMap.ShowUndoneTasks):
				m.toggleFilter(todo.FilterActive)

			case key.Matches(msg, m.keyMap.SearchTasks):
				m.mode = SearchMode
				m.searchInput.SetValue(m.view.SearchTerm)
				m.searchInput.CursorEnd()
				m.searchInput.Focus()
				return m, textinput.Blink

			case key.Matches(msg, m.keyMap.FilterByDate):
				m.mode = DateMode
				m.dateInput.Reset()
				if m.view.DateFilter != nil {
					m.dateInput.SetValue(m.view.DateFilter.String())
				}
				m.dateInput.Focus()
				return m, textinput.Blink

			case key.Matches(msg, m.keyMap.ClearDateFilter):
				m.store.SetDateFilter(nil)

			case key.Matches(msg, m.keyMap.PrevDay):
				m.shiftDateFilter(-1)

			case key.Matches(msg, m.keyMap.NextDay):
				m.shiftDateFilter(1)

			case key.Matches(msg, m.keyMap.PrevDayWithTasks):
				m.jumpToDayWithTasks(-1)

			case key.Matches(msg, m.keyMap.NextDayWithTasks):
				m.jumpToDayWithTasks(1)

			case key.Matches(msg, m.keyMap.JumpToToday):
				today := m.store.Today()
				m.store.SetDateFilter(&today)

			case key.Matches(msg, m.keyMap.PrevPage):
				m.store.PrevPage()

			case key.Matches(msg, m.keyMap.NextPage):
				m.store.NextPage()

			case key.Matches(msg, m.keyMap.ToggleTheme):
				cmds = append(cmds, m.toggleTheme())

			case key.Matches(msg, m.keyMap.ToggleCalendarView):
				m.openCalendar()

			default:
				handled = false
			}

			m.refresh()
			if !handled {
				m.table, cmd = m.table.Update(msg)
				cmds = append(cmds, cmd)
			}

		case AddMode, EditMode:
			switch msg.Type {
			case tea.KeyEsc:
				m.closeForm()
				return m, nil

			case tea.KeyEnter:
				m.submitForm()
				m.refresh()
				return m, nil
			}

			m.textInput, cmd = m.textInput.Update(msg)
			cmds = append(cmds, cmd)

		case SearchMode:
			switch msg.Type {
			case tea.KeyEsc:
				// Leaving with esc drops the search
				m.mode = NormalMode
				m.searchInput.Blur()
				m.store.SetSearchTerm("")
				m.refresh()
				return m, nil

			case tea.KeyEnter:
				m.mode = NormalMode
				m.searchInput.Blur()
				return m, nil
			}

			// Search as you type
			m.searchInput, cmd = m.searchInput.Update(msg)
			cmds = append(cmds, cmd)
			if m.searchInput.Value() != m.view.SearchTerm {
				m.store.SetSearchTerm(m.searchInput.Value())
				m.refresh()
			}

		case DateMode:
			switch msg.Type {
			case tea.KeyEsc:
				m.mode = NormalMode
				m.dateInput.Blur()
				return m, nil

			case tea.KeyEnter:
				m.submitDate()
				if m.mode == NormalMode {
					m.dateInput.Blur()
				}
				m.refresh()
				return m, nil
			}

			m.dateInput, cmd = m.dateInput.Update(msg)
			cmds = append(cmds, cmd)

		case CalendarMode:
			switch {
			case key.Matches(msg, m.keyMap.CalendarLeft):
				m.moveCalendar(-1)

			case key.Matches(msg, m.keyMap.CalendarRight):
				m.moveCalendar(1)

			case key.Matches(msg, m.keyMap.CalendarUp):
				m.moveCalendar(-7)

			case key.Matches(msg, m.keyMap.CalendarDown):
				m.moveCalendar(7)

			case key.Matches(msg, m.keyMap.CalendarSelect):
				m.selectCalendarDay()
				m.refresh()

			case key.Matches(msg, m.keyMap.JumpToToday):
				today := m.store.Today()
				m.store.SetDateFilter(&today)
				m.openCalendar()
				m.refresh()

			case key.Matches(msg, m.keyMap.ToggleCalendarView), msg.Type == tea.KeyEsc:
				m.mode = NormalMode

			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit
			}

		case HelpViewMode:
			switch {
			case key.Matches(msg, m.keyMap.ShowHelp), msg.Type == tea.KeyEsc:
				m.mode = NormalMode

			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit
			}
		}
	}

	return m, tea.Batch(cmds...)
}
