package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/sleep"
	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/tui/commands"
)

func submitPrompt(t *testing.T, m Model, value string) (Model, tea.Msg) {
	t.Helper()
	updated, cmd := m.runPrompt(value)
	model := updated.(Model)
	if cmd == nil {
		return model, nil
	}
	return model, cmd()
}

func TestPromptAdd(t *testing.T) {
	store := newTestStore(t)
	addTimed(t, store, "Dentist", testNow.Add(2*time.Hour), 60) // 10:00-11:00

	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantStart string
		wantEnd   string
		allDay    bool
		priority  task.Priority
	}{
		{
			name:      "explicit range",
			input:     "/add 14:00-15:30 Review",
			wantTitle: "Review",
			wantStart: "14:00",
			wantEnd:   "15:30",
			priority:  task.PriorityMedium,
		},
		{
			name:      "start only",
			input:     "/add 16:00 !h Call Ana",
			wantTitle: "Call Ana",
			wantStart: "16:00",
			priority:  task.PriorityHigh,
		},
		{
			name:      "length fits before the first task",
			input:     "/add 30m Email",
			wantTitle: "Email",
			wantStart: "09:00",
			wantEnd:   "09:30",
			priority:  task.PriorityMedium,
		},
		{
			name:      "length skips to after the first task",
			input:     "/add 90m Deep work",
			wantTitle: "Deep work",
			wantStart: "11:00",
			wantEnd:   "12:30",
			priority:  task.PriorityMedium,
		},
		{
			name:      "no slash means add",
			input:     "Birthday !l",
			wantTitle: "Birthday",
			allDay:    true,
			priority:  task.PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newLoadedModel(t, store)
			_, msg := submitPrompt(t, m, tt.input)
			created, ok := msg.(commands.TaskCreatedMsg)
			if !ok {
				t.Fatalf("runPrompt(%q) msg = %#v, want TaskCreatedMsg", tt.input, msg)
			}
			got := created.Task
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Priority != tt.priority {
				t.Errorf("Priority = %v, want %v", got.Priority, tt.priority)
			}
			if got.AllDay != tt.allDay {
				t.Errorf("AllDay = %v, want %v", got.AllDay, tt.allDay)
			}
			if !dateutil.SameDay(*got.Start, testNow) {
				t.Errorf("Start = %v, want on %v", got.Start, testNow)
			}
			if tt.allDay {
				return
			}
			if got.StartClock() != tt.wantStart || got.EndClock() != tt.wantEnd {
				t.Errorf("clock = %s-%s, want %s-%s", got.StartClock(), got.EndClock(), tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPromptAddErrors(t *testing.T) {
	store := newTestStore(t)
	addTimed(t, store, "Workshop", ymd(2025, 6, 2).Add(9*time.Hour), 8*60) // 09:00-17:00

	tests := []struct {
		name  string
		input string
	}{
		{"empty title", "/add 10:00"},
		{"bad clock", "/add 25:00 Nope"},
		{"end before start", "/add 11:00-10:00 Nope"},
		{"no slot in working hours", "/add 30m Squeeze"},
		{"unknown command", "/plan everything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newLoadedModel(t, store)
			_, msg := submitPrompt(t, m, tt.input)
			if _, ok := msg.(commands.ErrMsg); !ok {
				t.Errorf("runPrompt(%q) msg = %#v, want ErrMsg", tt.input, msg)
			}
		})
	}
}

func TestPromptAddOnPastDayNeedsTime(t *testing.T) {
	m := newLoadedModel(t, newTestStore(t))
	m, _ = update(t, m, keyRunes("h"))

	_, msg := submitPrompt(t, m, "/add 30m Late")
	if _, ok := msg.(commands.ErrMsg); !ok {
		t.Errorf("length on a past day msg = %#v, want ErrMsg", msg)
	}
	_, msg = submitPrompt(t, m, "/add 10:00-10:30 Late")
	if _, ok := msg.(commands.TaskCreatedMsg); !ok {
		t.Errorf("explicit time on a past day msg = %#v, want TaskCreatedMsg", msg)
	}
}

func TestPromptBacklog(t *testing.T) {
	m := newLoadedModel(t, newTestStore(t))
	_, msg := submitPrompt(t, m, "/backlog Read a book")
	created, ok := msg.(commands.TaskCreatedMsg)
	if !ok {
		t.Fatalf("msg = %#v, want TaskCreatedMsg", msg)
	}
	if created.Task.IsDated() {
		t.Error("backlog task has a date")
	}
}

func TestPromptGoto(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"/goto 2025-12-24", ymd(2025, 12, 24)},
		{"/goto tomorrow", ymd(2025, 6, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := newLoadedModel(t, newTestStore(t))
			m, msg := submitPrompt(t, m, tt.input)
			if msg != nil {
				t.Fatalf("goto inside the loaded year returned %#v", msg)
			}
			if !m.cursor.Equal(tt.want) {
				t.Errorf("cursor = %v, want %v", m.cursor, tt.want)
			}
		})
	}

	m := newLoadedModel(t, newTestStore(t))
	if _, msg := submitPrompt(t, m, "/goto someday"); msg == nil {
		t.Error("bad date should report an error")
	}
}

func TestPromptSleepOverride(t *testing.T) {
	store := newTestStore(t)
	m := newLoadedModel(t, store)
	ctx := context.Background()
	if err := store.SaveSleepSchedule(ctx, sleep.Default()); err != nil {
		t.Fatal(err)
	}

	_, msg := submitPrompt(t, m, "/sleep 09:00-01:00")
	if _, ok := msg.(commands.SleepChangedMsg); !ok {
		t.Fatalf("msg = %#v, want SleepChangedMsg", msg)
	}
	sched, err := store.GetSleepSchedule(ctx)
	if err != nil {
		t.Fatal(err)
	}
	key := dateutil.KeyOf(testNow)
	if got, ok := sched.Special[key]; !ok || got.String() != "09:00-01:00" {
		t.Errorf("override = %v (%v), want 09:00-01:00", got, ok)
	}

	_, msg = submitPrompt(t, m, "/sleep clear")
	if _, ok := msg.(commands.SleepChangedMsg); !ok {
		t.Fatalf("clear msg = %#v", msg)
	}
	sched, err = store.GetSleepSchedule(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sched.Special[key]; ok {
		t.Error("override still present after clear")
	}

	_, msg = submitPrompt(t, m, "/sleep late")
	if _, ok := msg.(commands.ErrMsg); !ok {
		t.Errorf("bad period msg = %#v, want ErrMsg", msg)
	}
}

func TestPromptKeys(t *testing.T) {
	m := newLoadedModel(t, newTestStore(t))

	m, _ = update(t, m, keyRunes("/"))
	if m.mode != ModePrompt || m.prompt.Value() != "/" {
		t.Fatalf("mode = %s, value = %q", modeString(m.mode), m.prompt.Value())
	}

	m, _ = update(t, m, keyRunes("go"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.prompt.Value(); got != "/goto " {
		t.Errorf("autocomplete = %q, want %q", got, "/goto ")
	}

	m, _ = update(t, m, keyRunes("2025-07-04"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Errorf("goto returned a command")
	}
	if m.mode != ModeNormal {
		t.Errorf("mode = %s after submit, want normal", modeString(m.mode))
	}
	if !m.cursor.Equal(ymd(2025, 7, 4)) {
		t.Errorf("cursor = %v, want 2025-07-04", m.cursor)
	}

	m, _ = update(t, m, keyRunes("a"))
	if m.prompt.Value() != "/add " {
		t.Errorf("a opened prompt with %q", m.prompt.Value())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ModeNormal || m.prompt.Value() != "" {
		t.Errorf("esc left mode %s, value %q", modeString(m.mode), m.prompt.Value())
	}
}
