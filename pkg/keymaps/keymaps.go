package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

var KeyDefinitions = map[string]KeyDefinition{
	"ShowHelp":           {"?", "show/hide commands"},
	"QuitApp":            {"q", "quit"},
	"ToggleStatus":       {"space,x", "toggle status"},
	"AddTask":            {"a", "add task"},
	"EditTask":           {"e", "edit task"},
	"DeleteTask":         {"d", "delete task"},
	"UndoDelete":         {"u", "undo delete"},
	"ClearCompleted":     {"C", "clear completed tasks"},
	"CycleFilter":        {"f", "cycle all/active/completed"},
	"ShowDoneTasks":      {"ctrl+d", "show only completed tasks"},
	"ShowUndoneTasks":    {"ctrl+u", "show only active tasks"},
	"SearchTasks":        {"/,ctrl+f", "search tasks"},
	"FilterByDate":       {"t", "filter by date added"},
	"ClearDateFilter":    {"0", "show tasks from every day"},
	"PrevDay":            {"ctrl+left,[", "previous day"},
	"NextDay":            {"ctrl+right,]", "next day"},
	"PrevDayWithTasks":   {"ctrl+shift+left,{", "previous day with tasks"},
	"NextDayWithTasks":   {"ctrl+shift+right,}", "next day with tasks"},
	"JumpToToday":        {"h", "jump to today"},
	"PrevPage":           {"left,pgup", "previous page"},
	"NextPage":           {"right,pgdown", "next page"},
	"ToggleTheme":        {"T", "toggle light/dark theme"},
	"ToggleCalendarView": {"ctrl+c", "toggle calendar view"},
	"CalendarLeft":       {"left", "move left in calendar"},
	"CalendarRight":      {"right", "move right in calendar"},
	"CalendarUp":         {"up", "move up in calendar"},
	"CalendarDown":       {"down", "move down in calendar"},
	"CalendarSelect":     {"enter", "select day in calendar"},
}

type KeyMap struct {
	ShowHelp           key.Binding
	QuitApp            key.Binding
	ToggleStatus       key.Binding
	AddTask            key.Binding
	EditTask           key.Binding
	DeleteTask         key.Binding
	UndoDelete         key.Binding
	ClearCompleted     key.Binding
	CycleFilter        key.Binding
	ShowDoneTasks      key.Binding
	ShowUndoneTasks    key.Binding
	SearchTasks        key.Binding
	FilterByDate       key.Binding
	ClearDateFilter    key.Binding
	PrevDay            key.Binding
	NextDay            key.Binding
	PrevDayWithTasks   key.Binding
	NextDayWithTasks   key.Binding
	JumpToToday        key.Binding
	PrevPage           key.Binding
	NextPage           key.Binding
	ToggleTheme        key.Binding
	ToggleCalendarView key.Binding
	CalendarLeft       key.Binding
	CalendarRight      key.Binding
	CalendarUp         key.Binding
	CalendarDown       key.Binding
	CalendarSelect     key.Binding
}

// bindings maps each action name to its field in km
func (km *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"ShowHelp":           &km.ShowHelp,
		"QuitApp":            &km.QuitApp,
		"ToggleStatus":       &km.ToggleStatus,
		"AddTask":            &km.AddTask,
		"EditTask":           &km.EditTask,
		"DeleteTask":         &km.DeleteTask,
		"UndoDelete":         &km.UndoDelete,
		"ClearCompleted":     &km.ClearCompleted,
		"CycleFilter":        &km.CycleFilter,
		"ShowDoneTasks":      &km.ShowDoneTasks,
		"ShowUndoneTasks":    &km.ShowUndoneTasks,
		"SearchTasks":        &km.SearchTasks,
		"FilterByDate":       &km.FilterByDate,
		"ClearDateFilter":    &km.ClearDateFilter,
		"PrevDay":            &km.PrevDay,
		"NextDay":            &km.NextDay,
		"PrevDayWithTasks":   &km.PrevDayWithTasks,
		"NextDayWithTasks":   &km.NextDayWithTasks,
		"JumpToToday":        &km.JumpToToday,
		"PrevPage":           &km.PrevPage,
		"NextPage":           &km.NextPage,
		"ToggleTheme":        &km.ToggleTheme,
		"ToggleCalendarView": &km.ToggleCalendarView,
		"CalendarLeft":       &km.CalendarLeft,
		"CalendarRight":      &km.CalendarRight,
		"CalendarUp":         &km.CalendarUp,
		"CalendarDown":       &km.CalendarDown,
		"CalendarSelect":     &km.CalendarSelect,
	}
}

// BuildKeyMap applies configOverrides on top of the default bindings.
// Action names are matched case-insensitively since config keys may arrive
// lowercased.
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	overrides := make(map[string]string, len(configOverrides))
	for action, keyStr := range configOverrides {
		overrides[strings.ToLower(action)] = keyStr
	}

	km := KeyMap{}
	fields := km.bindings()
	for action, def := range KeyDefinitions {
		keyStr := def.DefaultKey
		if override, exists := overrides[strings.ToLower(action)]; exists && override != "" {
			keyStr = override
		}
		if field, ok := fields[action]; ok {
			*field = parseKeyBinding(keyStr, def.DefaultKey, def.Help)
		}
	}
	return km
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if keyStr == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	var keys []string
	for _, k := range strings.Split(keyStr, ",") {
		k = strings.TrimSpace(k)
		switch k {
		case "":
		case "space":
			// The spacebar arrives as a literal space
			keys = append(keys, " ", k)
		default:
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return parseKeyBinding(defaultKey, defaultKey, helpText)
	}

	helpKey := keys[0]
	if helpKey == " " {
		helpKey = "space"
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}
