package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/scheduler"
	"github.com/javiermolinar/slate/internal/sleep"
	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/tui/commands"
	"github.com/javiermolinar/slate/internal/tui/input"
	"github.com/javiermolinar/slate/internal/tui/view"
)

var promptCommands = []input.PromptCommand{
	{
		Name:        "/add",
		Usage:       "/add [HH:MM[-HH:MM]|45m] [!h|!l] title",
		Description: "Add a task to the selected day",
	},
	{
		Name:        "/backlog",
		Usage:       "/backlog title",
		Description: "Add a task without a date",
	},
	{
		Name:        "/goto",
		Usage:       "/goto <date>",
		Description: "Jump to a day (YYYY-MM-DD, tomorrow, next-week...)",
	},
	{
		Name:        "/sleep",
		Usage:       "/sleep WAKE-SLEEP | clear",
		Description: "Override wake and bed time on the selected day",
	},
	{
		Name:        "/help",
		Usage:       "/help",
		Description: "Show key bindings",
	},
}

// promptState feeds the prompt box renderer.
func (m Model) promptState() view.PromptState {
	value := m.prompt.Value()
	state := view.PromptState{Value: value, Cursor: "_"}
	for _, c := range input.PromptMatchingCommands(value, promptCommands) {
		state.Suggestions = append(state.Suggestions, view.Suggestion{Usage: c.Usage, Description: c.Description})
	}
	return state
}

// runPrompt executes a submitted prompt line.
func (m Model) runPrompt(value string) (tea.Model, tea.Cmd) {
	m.logPrompt(value)
	name, args := input.Split(value)

	switch name {
	case "/add":
		q, err := input.ParseQuickTask(args)
		if err != nil {
			return m, errCmd(err)
		}
		t, err := m.buildQuickTask(q)
		if err != nil {
			return m, errCmd(err)
		}
		return m, commands.CreateTask(m.store, t)

	case "/backlog":
		t, err := task.New(args)
		if err != nil {
			return m, errCmd(err)
		}
		return m, commands.CreateTask(m.store, t)

	case "/goto":
		day, err := dateutil.ParseRelativeDate(args, m.now(), true)
		if err != nil {
			return m, errCmd(fmt.Errorf("goto %q: %w", args, err))
		}
		return m.moveCursor(day, "goto")

	case "/sleep":
		key := m.cal.Key(m.cursor)
		if strings.EqualFold(args, "clear") {
			return m, commands.ClearSleep(m.store, key)
		}
		p, err := sleep.ParsePeriod(args)
		if err != nil {
			return m, errCmd(err)
		}
		return m, commands.OverrideSleep(m.store, key, p)

	case "/help":
		m.setMode(ModeHelp, "prompt help")
		return m, nil
	}
	return m, errCmd(fmt.Errorf("unknown command %s", name))
}

// buildQuickTask places a typed task on the cursor day.
func (m Model) buildQuickTask(q input.QuickTask) (*task.Task, error) {
	day := m.cursor
	opts := []task.Option{task.WithPriority(q.Priority)}

	if q.AllDay() {
		start := day
		opts = append(opts, task.WithSchedule(&start, nil), task.WithAllDay(true))
		return task.New(q.Title, opts...)
	}

	startMin, endMin, hasEnd := q.Start, q.End, q.HasEnd
	if !q.HasStart {
		slot, err := m.findSlot(day, q.Minutes)
		if err != nil {
			return nil, err
		}
		startMin = task.TimeToMinutes(slot.Start)
		endMin, hasEnd = task.TimeToMinutes(slot.End), true
	}

	start := task.At(day, startMin)
	var end *time.Time
	if hasEnd {
		e := task.At(day, endMin)
		end = &e
	}
	opts = append(opts, task.WithSchedule(&start, end))
	return task.New(q.Title, opts...)
}

// findSlot asks the scheduler for the first free slot on day.
func (m Model) findSlot(day time.Time, minutes int) (scheduler.Slot, error) {
	sched := scheduler.New(m.config.Schedule.DayStart, m.config.Schedule.DayEnd)
	notBefore, ok := sched.EarliestStart(day, m.now())
	if !ok {
		return scheduler.Slot{}, errors.New("that day is over")
	}
	d := m.day()
	if d == nil {
		return scheduler.Slot{}, errors.New("calendar not loaded yet")
	}
	slot, ok := sched.FindSlotInDay(d.Tasks, minutes, notBefore)
	if !ok {
		return scheduler.Slot{}, fmt.Errorf("no free %s slot between %s and %s",
			view.FormatDuration(minutes), sched.DayStart(), sched.DayEnd())
	}
	return slot, nil
}
