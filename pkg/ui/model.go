package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist/pkg/config"
	"tasklist/pkg/keymaps"
	"tasklist/pkg/storage"
	"tasklist/pkg/store"
	"tasklist/pkg/theme"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	AddMode
	EditMode
	SearchMode   // Mode for typing a search term
	DateMode     // Mode for typing a date filter
	CalendarMode // Mode for picking a date filter from a month grid
	HelpViewMode // Mode for displaying help
)

// StoreChangedMsg tells the model the store changed outside of a key press,
// for example when an error or a pending deletion expires.
type StoreChangedMsg struct {
	Change store.Change
}

type themeSavedMsg struct {
	err error
}

// Model represents the application state
type Model struct {
	store *store.Store
	slots storage.Slots
	table table.Model
	view  store.Snapshot

	width, height int
	err           error

	// Configuration
	config   config.Config
	palettes config.Palettes
	styles   config.Styles
	theme    theme.Theme
	keyMap   keymaps.KeyMap

	// Form state
	mode        InputMode
	textInput   textinput.Model
	searchInput textinput.Model
	dateInput   textinput.Model

	// Task being edited; its text lives only in textInput until committed
	editingID string

	calendarMonth       time.Time
	calendarSelectedDay int // Selected day in calendar view (1-31)
}

// NewModel creates a new UI model over st. slots receives theme changes.
func NewModel(st *store.Store, slots storage.Slots, cfg config.Config, palettes config.Palettes, th theme.Theme) Model {
	columns := []table.Column{
		{Title: "Task", Width: 48},
		{Title: "Dates", Width: 34},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(store.DefaultPageSize+1),
	)
	// Paging belongs to the store, so the table only moves the cursor
	t.KeyMap = table.KeyMap{
		LineUp:   key.NewBinding(key.WithKeys("up", "k")),
		LineDown: key.NewBinding(key.WithKeys("down", "j")),
	}

	textInput := textinput.New()
	textInput.Placeholder = "What needs to be done?"
	textInput.Width = 50

	searchInput := textinput.New()
	searchInput.Placeholder = "Search tasks"
	searchInput.Width = 40

	dateInput := textinput.New()
	dateInput.Placeholder = "YYYY-MM-DD, today, or empty for every day"
	dateInput.Width = 40

	now := st.Now().In(st.Location())
	m := Model{
		table:               t,
		store:               st,
		slots:               slots,
		config:              cfg,
		palettes:            palettes,
		theme:               th,
		keyMap:              keymaps.BuildKeyMap(cfg.KeyMap),
		mode:                NormalMode,
		textInput:           textInput,
		searchInput:         searchInput,
		dateInput:           dateInput,
		calendarMonth:       time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		calendarSelectedDay: now.Day(),
	}
	m.applyTheme()
	m.refresh()
	return m
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

// applyTheme selects the palette for the current theme and restyles the table
func (m *Model) applyTheme() {
	m.styles = m.palettes.For(m.theme)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.styles.BorderColor)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(m.styles.AccentColor))
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.styles.NormalTextColor))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(m.styles.SelectedBgColor)).
		Bold(true)
	m.table.SetStyles(s)
}

// Run starts the terminal UI and blocks until the user quits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Send blocks while Update is running, and store listeners may fire
	// from inside Update, so deliver asynchronously.
	unsubscribe := m.store.Subscribe(func(c store.Change) {
		go p.Send(StoreChangedMsg{Change: c})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
