// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slate/internal/agenda"
	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/sleep"
	"github.com/javiermolinar/slate/internal/task"
)

// Store is what the TUI reads and writes.
type Store interface {
	task.Repository
	agenda.SleepStore

	SaveSleepSchedule(ctx context.Context, sched sleep.Schedule) error
	SetSleepOverride(ctx context.Context, key dateutil.DateKey, p sleep.Period) error
	ClearSleepOverride(ctx context.Context, key dateutil.DateKey) error
}

// YearLoadedMsg is sent when a year has been built.
type YearLoadedMsg struct {
	Year *agenda.Year
}

// TaskCreatedMsg is sent after a task was stored.
type TaskCreatedMsg struct {
	Task *task.Task
}

// TaskToggledMsg is sent after a task's completion flag changed.
type TaskToggledMsg struct {
	ID        string
	Completed bool
}

// TaskDeletedMsg is sent after a task was removed.
type TaskDeletedMsg struct {
	ID    string
	Title string
}

// SleepChangedMsg is sent after the sleep schedule or an override changed.
type SleepChangedMsg struct {
	Msg string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadYear builds the year containing date.
func LoadYear(store Store, date time.Time, cal dateutil.Calendar) tea.Cmd {
	return func() tea.Msg {
		y, err := agenda.BuildYear(context.Background(), store, store, agenda.Options{Date: date, Calendar: cal})
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading %d: %w", date.Year(), err)}
		}
		return YearLoadedMsg{Year: y}
	}
}

// CreateTask stores t.
func CreateTask(repo task.Repository, t *task.Task) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CreateTask(context.Background(), t); err != nil {
			return ErrMsg{Err: fmt.Errorf("creating task: %w", err)}
		}
		return TaskCreatedMsg{Task: t}
	}
}

// ToggleTask flips the completion flag of t.
func ToggleTask(repo task.Repository, t *task.Task) tea.Cmd {
	id, completed := t.ID, !t.Completed
	return func() tea.Msg {
		if err := repo.SetCompleted(context.Background(), id, completed); err != nil {
			return ErrMsg{Err: fmt.Errorf("updating task: %w", err)}
		}
		return TaskToggledMsg{ID: id, Completed: completed}
	}
}

// DeleteTask removes t.
func DeleteTask(repo task.Repository, t *task.Task) tea.Cmd {
	id, title := t.ID, t.Title
	return func() tea.Msg {
		if err := repo.DeleteTask(context.Background(), id); err != nil {
			return ErrMsg{Err: fmt.Errorf("deleting task: %w", err)}
		}
		return TaskDeletedMsg{ID: id, Title: title}
	}
}

// SeedSleep stores sched unless a schedule already exists.
func SeedSleep(store Store, sched sleep.Schedule) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		_, err := store.GetSleepSchedule(ctx)
		if err == nil {
			return SleepChangedMsg{Msg: "Sleep schedule already stored"}
		}
		if !errors.Is(err, sleep.ErrNoSchedule) {
			return ErrMsg{Err: err}
		}
		if err := store.SaveSleepSchedule(ctx, sched); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving sleep schedule: %w", err)}
		}
		return SleepChangedMsg{Msg: fmt.Sprintf("Stored sleep schedule: weekday %s, weekend %s", sched.Weekday, sched.Weekend)}
	}
}

// OverrideSleep sets the sleep period of one day.
func OverrideSleep(store Store, key dateutil.DateKey, p sleep.Period) tea.Cmd {
	return func() tea.Msg {
		err := store.SetSleepOverride(context.Background(), key, p)
		if errors.Is(err, sleep.ErrNoSchedule) {
			return ErrMsg{Err: fmt.Errorf("%w; press S to store the sleep schedule first", err)}
		}
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("saving override: %w", err)}
		}
		return SleepChangedMsg{Msg: fmt.Sprintf("Sleep on %s: %s", key, p)}
	}
}

// ClearSleep removes the override of one day.
func ClearSleep(store Store, key dateutil.DateKey) tea.Cmd {
	return func() tea.Msg {
		if err := store.ClearSleepOverride(context.Background(), key); err != nil {
			return ErrMsg{Err: fmt.Errorf("clearing override: %w", err)}
		}
		return SleepChangedMsg{Msg: fmt.Sprintf("Cleared sleep override for %s", key)}
	}
}

// Copy puts text on the clipboard through write.
func Copy(text, what string, write func(string) error) tea.Cmd {
	return func() tea.Msg {
		if err := write(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copy failed: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what}
	}
}
