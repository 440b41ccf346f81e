package ui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/pkg/config"
	"tasklist/pkg/storage"
	"tasklist/pkg/store"
	"tasklist/pkg/theme"
	"tasklist/pkg/todo"
)

var testStart = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

type harness struct {
	m     Model
	st    *store.Store
	clock *store.MockClock
	slots *storage.Memory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := store.NewMockClock(testStart)
	slots := storage.NewMemory()
	st, err := store.Open(context.Background(), slots,
		store.WithClock(clock),
		store.WithLocation(time.UTC),
		store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	m := NewModel(st, slots, config.Config{}, config.DefaultPalettes(), theme.Dark)
	return &harness{m: m, st: st, clock: clock, slots: slots}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) addTask(text string) {
	h.press("a")
	h.typeText(text)
	h.press("enter")
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// runCmd executes cmd, expanding batches, and returns the produced messages
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func viewTexts(m Model) []string {
	out := make([]string, 0, len(m.view.Tasks))
	for _, t := range m.view.Tasks {
		out = append(out, t.Text)
	}
	return out
}

func TestAddTask(t *testing.T) {
	h := newHarness(t)

	h.addTask("Buy milk")

	assert.Equal(t, NormalMode, h.m.mode)
	assert.Equal(t, []string{"Buy milk"}, viewTexts(h.m))
	assert.Contains(t, h.m.View(), "Buy milk")
	assert.Contains(t, h.m.View(), "1 item left")
}

func TestAddBlankKeepsFormOpen(t *testing.T) {
	h := newHarness(t)

	h.press("a")
	h.typeText("   ")
	h.press("enter")

	assert.Equal(t, AddMode, h.m.mode)
	assert.Empty(t, h.st.Tasks())

	h.press("esc")
	assert.Equal(t, NormalMode, h.m.mode)
}

func TestDuplicateErrorShownAndExpires(t *testing.T) {
	h := newHarness(t)
	h.addTask("Buy milk")
	h.addTask("buy MILK")

	assert.Len(t, h.st.Tasks(), 1)
	assert.Contains(t, h.m.View(), store.MsgDuplicateOnAdd)

	h.clock.Advance(store.DefaultErrorTimeout)
	h.send(StoreChangedMsg{Change: store.ChangedError})
	assert.NotContains(t, h.m.View(), store.MsgDuplicateOnAdd)
}

func TestToggleSelected(t *testing.T) {
	h := newHarness(t)
	h.addTask("one")

	h.press("space")
	require.Len(t, h.m.view.Tasks, 1)
	assert.True(t, h.m.view.Tasks[0].Completed)
	assert.Contains(t, h.m.View(), "0 items left")

	h.press("x")
	assert.False(t, h.m.view.Tasks[0].Completed)
}

func TestFirstTaskIsSelected(t *testing.T) {
	h := newHarness(t)
	h.addTask("one")
	assert.Equal(t, 0, h.m.table.Cursor())
	task, ok := h.m.selectedTask()
	require.True(t, ok)
	assert.Equal(t, "one", task.Text)

	h.press("d")
	h.clock.Advance(store.DefaultUndoTimeout)
	h.send(StoreChangedMsg{Change: store.ChangedPending})
	require.Empty(t, h.m.view.Tasks)

	h.addTask("two")
	h.press("space")
	require.Len(t, h.m.view.Tasks, 1)
	assert.True(t, h.m.view.Tasks[0].Completed)
}

func TestDeleteAndUndo(t *testing.T) {
	h := newHarness(t)
	h.addTask("one")
	h.addTask("two")

	h.press("d")
	assert.Equal(t, []string{"two"}, viewTexts(h.m))
	require.NotNil(t, h.m.view.Pending)
	assert.Contains(t, h.m.View(), "Press u to undo")

	h.press("u")
	assert.Nil(t, h.m.view.Pending)
	assert.Equal(t, []string{"one", "two"}, viewTexts(h.m))
}

func TestDeleteExpires(t *testing.T) {
	h := newHarness(t)
	h.addTask("one")

	h.press("d")
	h.clock.Advance(store.DefaultUndoTimeout)
	h.send(StoreChangedMsg{Change: store.ChangedPending})

	assert.Nil(t, h.m.view.Pending)
	assert.Empty(t, h.st.Tasks())
	assert.NotContains(t, h.m.View(), "undo (")
}

func TestEditTask(t *testing.T) {
	h := newHarness(t)
	h.addTask("one")

	h.press("e")
	require.Equal(t, EditMode, h.m.mode)
	assert.Equal(t, "one", h.m.textInput.Value())

	h.typeText("!")
	h.press("enter")
	assert.Equal(t, []string{"one!"}, viewTexts(h.m))
	assert.NotNil(t, h.m.view.Tasks[0].DateModified)
}

func TestEditUnchangedKeepsModifiedDate(t *testing.T) {
	h := newHarness(t)
	h.addTask("one")

	h.press("e", "enter")
	assert.Equal(t, NormalMode, h.m.mode)
	require.Len(t, h.m.view.Tasks, 1)
	assert.Nil(t, h.m.view.Tasks[0].DateModified)

	h.press("e")
	h.typeText("  ")
	h.press("enter")
	assert.Nil(t, h.m.view.Tasks[0].DateModified)
}

func TestEditDuplicateRollsBack(t *testing.T) {
	h := newHarness(t)
	h.addTask("a")
	h.addTask("b")

	h.press("e", "backspace")
	h.typeText("B")
	h.press("enter")

	assert.Equal(t, NormalMode, h.m.mode)
	assert.Equal(t, []string{"a", "b"}, viewTexts(h.m))
	assert.Contains(t, h.m.View(), store.MsgDuplicateOnUpdate)
}

func TestEditEscDiscards(t *testing.T) {
	h := newHarness(t)
	h.addTask("a")

	h.press("e")
	h.typeText("zzz")
	h.press("esc")

	assert.Equal(t, []string{"a"}, viewTexts(h.m))
	assert.Empty(t, h.m.editingID)
}

func TestSearchAsYouType(t *testing.T) {
	h := newHarness(t)
	h.addTask("Buy milk")
	h.addTask("Walk dog")

	h.press("/")
	require.Equal(t, SearchMode, h.m.mode)
	h.typeText("MILK")
	assert.Equal(t, "MILK", h.st.SearchTerm())
	assert.Equal(t, []string{"Buy milk"}, viewTexts(h.m))

	h.press("enter")
	assert.Equal(t, NormalMode, h.m.mode)
	assert.Equal(t, "MILK", h.st.SearchTerm())

	h.press("/", "esc")
	assert.Empty(t, h.st.SearchTerm())
	assert.Len(t, h.m.view.Tasks, 2)
}

func TestPaging(t *testing.T) {
	h := newHarness(t)
	for _, text := range []string{"1", "2", "3", "4", "5", "6"} {
		_, err := h.st.Add(text)
		require.NoError(t, err)
	}
	h.send(StoreChangedMsg{Change: store.ChangedTasks})

	assert.Len(t, h.m.view.Tasks, store.DefaultPageSize)
	assert.Contains(t, h.m.View(), "page 1/2")

	h.press("right")
	assert.Equal(t, []string{"6"}, viewTexts(h.m))
	assert.Contains(t, h.m.View(), "page 2/2")

	h.press("right")
	assert.Equal(t, 2, h.m.view.Page, "next on the last page is a no-op")

	h.press("left")
	assert.Equal(t, 1, h.m.view.Page)
}

func TestFilterKeys(t *testing.T) {
	h := newHarness(t)
	h.addTask("open")
	h.addTask("done")
	h.press("down", "space")

	h.press("f")
	assert.Equal(t, todo.FilterActive, h.m.view.Filter)
	assert.Equal(t, []string{"open"}, viewTexts(h.m))

	h.press("f")
	assert.Equal(t, todo.FilterCompleted, h.m.view.Filter)
	assert.Equal(t, []string{"done"}, viewTexts(h.m))

	h.press("f")
	assert.Equal(t, todo.FilterAll, h.m.view.Filter)

	h.send(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, todo.FilterCompleted, h.m.view.Filter)
	h.send(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, todo.FilterAll, h.m.view.Filter)
}

func TestClearCompletedKey(t *testing.T) {
	h := newHarness(t)
	h.addTask("open")
	h.addTask("done")
	h.press("down", "space", "C")

	assert.Equal(t, []string{"open"}, viewTexts(h.m))
}

func TestDateMode(t *testing.T) {
	h := newHarness(t)
	h.addTask("today's task")

	h.press("t")
	require.Equal(t, DateMode, h.m.mode)
	h.typeText("2024-03-04")
	h.press("enter")

	assert.Equal(t, NormalMode, h.m.mode)
	require.NotNil(t, h.m.view.DateFilter)
	assert.Equal(t, "2024-03-04", h.m.view.DateFilter.String())
	assert.Empty(t, h.m.view.Tasks)

	h.press("]")
	assert.Equal(t, "2024-03-05", h.m.view.DateFilter.String())
	assert.Len(t, h.m.view.Tasks, 1)

	h.press("0")
	assert.Nil(t, h.m.view.DateFilter)
}

func TestDateModeRejectsBadInput(t *testing.T) {
	h := newHarness(t)

	h.press("t")
	h.typeText("someday")
	h.press("enter")

	assert.Equal(t, DateMode, h.m.mode)
	assert.Error(t, h.m.err)
	assert.Nil(t, h.st.DateFilter())
}

func TestThemeToggleSaves(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(keyMsg("T"))
	assert.Equal(t, theme.Light, h.m.theme)
	assert.Equal(t, config.DefaultPalettes().Light, h.m.styles)

	msgs := runCmd(cmd)
	require.NotEmpty(t, msgs)
	for _, msg := range msgs {
		h.send(msg)
	}
	assert.NoError(t, h.m.err)

	raw, ok, err := h.slots.Get(context.Background(), storage.ThemeKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", raw)
}

func TestCalendarSelectsDay(t *testing.T) {
	h := newHarness(t)
	h.addTask("one")

	h.press("ctrl+c")
	require.Equal(t, CalendarMode, h.m.mode)
	assert.Contains(t, h.m.View(), "March 2024")

	h.press("left", "enter")
	assert.Equal(t, NormalMode, h.m.mode)
	require.NotNil(t, h.m.view.DateFilter)
	assert.Equal(t, "2024-03-04", h.m.view.DateFilter.String())

	h.press("ctrl+c", "up")
	assert.Equal(t, 26, h.m.calendarSelectedDay)
	assert.Equal(t, time.February, h.m.calendarMonth.Month())
}

func TestHelpView(t *testing.T) {
	h := newHarness(t)

	h.press("?")
	assert.Equal(t, HelpViewMode, h.m.mode)
	assert.Contains(t, h.m.View(), "undo delete")

	h.press("esc")
	assert.Equal(t, NormalMode, h.m.mode)
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
