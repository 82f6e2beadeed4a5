// Package tui provides the terminal user interface for slate.
package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slate/internal/agenda"
	"github.com/javiermolinar/slate/internal/config"
	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/debuglog"
	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/tui/commands"
	"github.com/javiermolinar/slate/internal/tui/theme"
)

// Store is what the TUI reads and writes.
type Store = commands.Store

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeConfirm
	ModeHelp
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store  Store
	config *config.Config
	cal    dateutil.Calendar
	log    *debuglog.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// State
	year    *agenda.Year
	cursor  time.Time // selected day, midnight in the calendar location
	taskIdx int       // index into selectableTasks, -1 for none
	mode    Mode
	loading bool

	confirmMessage string

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusTime time.Time // When to clear message

	err error

	nowFunc func() time.Time
	copyFn  func(string) error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.nowFunc = now
	}
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) ModelOption {
	return func(m *Model) {
		m.copyFn = write
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *debuglog.Logger) ModelOption {
	return func(m *Model) {
		m.log = l
	}
}

// New creates a new TUI model.
func New(store Store, cfg *config.Config, cal dateutil.Calendar, opts ...ModelOption) *Model {
	ti := textinput.New()
	ti.Placeholder = "/add 10:00-11:00 Title"
	ti.CharLimit = 256
	ti.Prompt = ""

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	h := help.New()
	h.Styles = styles.Help

	m := &Model{
		store:   store,
		config:  cfg,
		cal:     cal,
		theme:   t,
		styles:  styles,
		keys:    defaultKeyMap(),
		help:    h,
		taskIdx: -1,
		mode:    ModeNormal,
		loading: true,
		prompt:  ti,
		nowFunc: time.Now,
		copyFn:  clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cursor = m.today()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadYear(m.store, m.cursor, m.cal)
}

// Run starts the TUI.
func Run(store Store, cfg *config.Config, cal dateutil.Calendar, log *debuglog.Logger) error {
	model := New(store, cfg, cal, WithLogger(log))
	log.Event("TUI_START", map[string]any{"theme": model.theme.Name, "date": model.cursor.Format(dateutil.DateLayout)})
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	log.Event("TUI_END", nil)
	return err
}

func (m Model) now() time.Time {
	return m.cal.In(m.nowFunc())
}

func (m Model) today() time.Time {
	return m.cal.Today(m.nowFunc())
}

// day summarizes the cursor day from the loaded year.
func (m Model) day() *agenda.Day {
	if m.year == nil || m.year.Grid.Year != m.cursor.Year() {
		return nil
	}
	return m.year.Day(m.cursor)
}

// displayOrder lists a day's user tasks the way the day panel shows them:
// all-day tasks first, then by start.
func displayOrder(d *agenda.Day) []*task.Task {
	user := task.UserTasks(d.Tasks)
	out := make([]*task.Task, 0, len(user))
	for _, t := range user {
		if t.AllDay {
			out = append(out, t)
		}
	}
	for _, t := range user {
		if !t.AllDay {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) setMode(to Mode, reason string) {
	m.logModeChange(m.mode, to, reason)
	m.mode = to
}
