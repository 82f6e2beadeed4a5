package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/freetime"
	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/tui/commands"
	"github.com/javiermolinar/slate/internal/tui/input"
)

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	PrevYear  key.Binding
	NextYear  key.Binding
	Today     key.Binding
	NextTask  key.Binding
	PrevTask  key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Add       key.Binding
	Prompt    key.Binding
	Copy      key.Binding
	Sleep     key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "day")),
		Right:     key.NewBinding(key.WithKeys("l", "right")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "week")),
		Down:      key.NewBinding(key.WithKeys("j", "down")),
		PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "month")),
		NextMonth: key.NewBinding(key.WithKeys("]")),
		PrevYear:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{/}", "year")),
		NextYear:  key.NewBinding(key.WithKeys("}")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		NextTask:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select task")),
		PrevTask:  key.NewBinding(key.WithKeys("shift+tab")),
		Toggle:    key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x", "done")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Prompt:    key.NewBinding(key.WithKeys("/", ":"), key.WithHelp("/", "command")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy free")),
		Sleep:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "store sleep")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.PrevMonth, k.Today, k.Add, k.Toggle, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Up, k.PrevMonth, k.PrevYear, k.Today},
		{k.NextTask, k.Toggle, k.Delete, k.Add, k.Prompt},
		{k.Copy, k.Sleep, k.Reload, k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeHelp:
		m.setMode(ModeNormal, "close help")
		return m, nil
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Left):
		return m.moveCursor(dateutil.AddDays(m.cursor, -1), "left")
	case key.Matches(msg, k.Right):
		return m.moveCursor(dateutil.AddDays(m.cursor, 1), "right")
	case key.Matches(msg, k.Up):
		return m.moveCursor(dateutil.AddDays(m.cursor, -7), "up")
	case key.Matches(msg, k.Down):
		return m.moveCursor(dateutil.AddDays(m.cursor, 7), "down")
	case key.Matches(msg, k.PrevMonth):
		return m.moveCursor(addMonths(m.cursor, -1), "prev month")
	case key.Matches(msg, k.NextMonth):
		return m.moveCursor(addMonths(m.cursor, 1), "next month")
	case key.Matches(msg, k.PrevYear):
		return m.moveCursor(addMonths(m.cursor, -12), "prev year")
	case key.Matches(msg, k.NextYear):
		return m.moveCursor(addMonths(m.cursor, 12), "next year")
	case key.Matches(msg, k.Today):
		return m.moveCursor(m.today(), "today")

	case key.Matches(msg, k.NextTask):
		m.selectTask(1)
		return m, nil
	case key.Matches(msg, k.PrevTask):
		m.selectTask(-1)
		return m, nil

	case key.Matches(msg, k.Toggle):
		t := m.selectedTask()
		if t == nil {
			m.statusMsg = "No task selected"
			return m, nil
		}
		return m, commands.ToggleTask(m.store, t)

	case key.Matches(msg, k.Delete):
		t := m.selectedTask()
		if t == nil {
			m.statusMsg = "No task selected"
			return m, nil
		}
		m.confirmMessage = fmt.Sprintf("Delete %q? (y/n)", t.Title)
		m.setMode(ModeConfirm, "delete")
		return m, nil

	case key.Matches(msg, k.Add):
		m.prompt.SetValue("/add ")
		m.prompt.CursorEnd()
		m.setMode(ModePrompt, "add")
		return m, m.prompt.Focus()

	case key.Matches(msg, k.Prompt):
		m.prompt.SetValue("/")
		m.prompt.CursorEnd()
		m.setMode(ModePrompt, "prompt")
		return m, m.prompt.Focus()

	case key.Matches(msg, k.Copy):
		d := m.day()
		if d == nil || !d.HasFree {
			m.statusMsg = "No free time to copy"
			return m, nil
		}
		return m, commands.Copy(freetime.Format(d.Free), "free time", m.copyFn)

	case key.Matches(msg, k.Sleep):
		sched, err := m.config.SleepSchedule()
		if err != nil {
			return m, errCmd(err)
		}
		return m, commands.SeedSleep(m.store, sched)

	case key.Matches(msg, k.Reload):
		m.loading = true
		return m, commands.LoadYear(m.store, m.cursor, m.cal)

	case key.Matches(msg, k.Help):
		m.setMode(ModeHelp, "help")
		return m, nil
	}
	return m, nil
}

// handleConfirmKeys answers the delete confirmation.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.setMode(ModeNormal, "confirm answered")
	m.confirmMessage = ""
	switch msg.String() {
	case "y", "Y", "enter":
		if t := m.selectedTask(); t != nil {
			return m, commands.DeleteTask(m.store, t)
		}
	}
	return m, nil
}

// handlePromptKeys handles keys while the command prompt is open.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt("cancel")
		return m, nil
	case tea.KeyTab:
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case tea.KeyEnter:
		value := m.prompt.Value()
		m.closePrompt("submit")
		return m.runPrompt(value)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt(reason string) {
	m.prompt.Blur()
	m.prompt.Reset()
	m.setMode(ModeNormal, reason)
}

// moveCursor moves the selected day and loads another year when needed.
func (m Model) moveCursor(to time.Time, reason string) (tea.Model, tea.Cmd) {
	to = m.cal.Today(to)
	m.logCursorMove(to, reason)
	m.cursor = to
	m.taskIdx = -1
	if m.year == nil || m.year.Grid.Year != to.Year() {
		m.loading = true
		return m, commands.LoadYear(m.store, to, m.cal)
	}
	return m, nil
}

// selectTask moves the task selection by delta, wrapping around and
// skipping sleep blocks.
func (m *Model) selectTask(delta int) {
	tasks := m.selectableTasks()
	if len(tasks) == 0 {
		m.taskIdx = -1
		return
	}
	switch {
	case m.taskIdx < 0 && delta > 0:
		m.taskIdx = 0
	case m.taskIdx < 0:
		m.taskIdx = len(tasks) - 1
	default:
		m.taskIdx = (m.taskIdx + delta + len(tasks)) % len(tasks)
	}
}

// selectableTasks are the cursor day's user tasks in display order.
func (m Model) selectableTasks() []*task.Task {
	d := m.day()
	if d == nil {
		return nil
	}
	return displayOrder(d)
}

func (m Model) selectedTask() *task.Task {
	tasks := m.selectableTasks()
	if m.taskIdx < 0 || m.taskIdx >= len(tasks) {
		return nil
	}
	return tasks[m.taskIdx]
}

// addMonths keeps the day of month, clamped to the target month's length.
func addMonths(t time.Time, n int) time.Time {
	first := dateutil.Midnight(t.Year(), t.Month()+time.Month(n), 1, t.Location())
	last := dateutil.Midnight(first.Year(), first.Month()+1, 0, t.Location()).Day()
	return dateutil.AddDays(first, min(t.Day(), last)-1)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return commands.ErrMsg{Err: err} }
}
