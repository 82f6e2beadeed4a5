package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/tui/theme"
	"github.com/javiermolinar/slate/internal/tui/view"
)

func sized(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: w, Height: h})
	return m
}

func TestViewBeforeWindowSize(t *testing.T) {
	m := newLoadedModel(t, newTestStore(t))
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestViewShowsMonthAndDay(t *testing.T) {
	store := newTestStore(t)
	addTimed(t, store, "Dentist", testNow.Add(2*time.Hour), 60)

	for _, width := range []int{120, 60} {
		m := sized(t, newLoadedModel(t, store), width, 40)
		out := m.View()
		for _, want := range []string{"slate", "June 2025", "Monday, 2 June 2025", "10:00-11:00", "Dentist", "Free"} {
			if !strings.Contains(out, want) {
				t.Errorf("width %d: View() missing %q\n%s", width, want, out)
			}
		}
		if h := lipgloss.Height(out); h != 40 {
			t.Errorf("width %d: View() height = %d, want 40", width, h)
		}
	}
}

func TestViewWarnsAboutMissingSleep(t *testing.T) {
	m := sized(t, newLoadedModel(t, newTestStore(t)), 120, 40)
	out := m.View()
	if !strings.Contains(out, "No sleep schedule") {
		t.Errorf("View() missing sleep warning\n%s", out)
	}
	if !strings.Contains(out, "Nothing planned.") {
		t.Errorf("View() missing empty day text\n%s", out)
	}
}

func TestViewShowsPromptSuggestions(t *testing.T) {
	m := sized(t, newLoadedModel(t, newTestStore(t)), 120, 40)
	m, _ = update(t, m, keyRunes("/"))
	out := m.View()
	for _, c := range promptCommands {
		if !strings.Contains(out, c.Name) {
			t.Errorf("prompt suggestions missing %s", c.Name)
		}
	}
}

func TestViewShowsConfirmation(t *testing.T) {
	store := newTestStore(t)
	addTimed(t, store, "Dentist", testNow.Add(2*time.Hour), 60)
	m := sized(t, newLoadedModel(t, store), 120, 40)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, keyRunes("d"))
	if out := m.View(); !strings.Contains(out, `Delete "Dentist"? (y/n)`) {
		t.Errorf("View() missing confirmation\n%s", out)
	}
}

func TestViewHelpOverlay(t *testing.T) {
	m := sized(t, newLoadedModel(t, newTestStore(t)), 120, 40)
	m, _ = update(t, m, keyRunes("?"))
	out := m.View()
	for _, want := range []string{"store sleep", "reload", "select task"} {
		if !strings.Contains(out, want) {
			t.Errorf("help overlay missing %q", want)
		}
	}
}

func TestDayLine(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	timed, _ := task.New("Meeting", task.WithSchedule(&start, &end), task.WithPriority(task.PriorityHigh), task.WithTravelTime(20*time.Minute))
	point, _ := task.New("Call", task.WithSchedule(&start, nil), task.WithPriority(task.PriorityLow))
	allDay, _ := task.New("Holiday", task.WithSchedule(&start, nil), task.WithAllDay(true))
	done, _ := task.New("Done", task.WithSchedule(&start, &end))
	done.Completed = true

	tests := []struct {
		name string
		task *task.Task
		want view.DayLine
	}{
		{"timed high with travel", timed, view.DayLine{Clock: "09:00-10:00", Title: "Meeting", Note: "leave 08:40", Kind: view.LineHigh}},
		{"point low", point, view.DayLine{Clock: "09:00", Title: "Call", Kind: view.LineLow}},
		{"all day", allDay, view.DayLine{Clock: "all day", Title: "Holiday", Kind: view.LineTask}},
		{"completed", done, view.DayLine{Clock: "09:00-10:00", Title: "Done", Kind: view.LineDone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dayLine(tt.task); got != tt.want {
				t.Errorf("dayLine() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewStylesUsesTheme(t *testing.T) {
	th, err := theme.Load("latte")
	if err != nil {
		t.Fatal(err)
	}
	s := NewStyles(th)
	if s.Palette().Accent != lipgloss.Color(th.Accent) {
		t.Errorf("palette accent = %v, want %v", s.Palette().Accent, th.Accent)
	}
	if s.Month.Heat == nil {
		t.Error("month heat function not set")
	}
	if _, ok := s.Month.Heat(240); !ok {
		t.Error("heat for a busy day should be shaded")
	}
}
