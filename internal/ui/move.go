package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/scheduler"
	"github.com/javiermolinar/slate/internal/task"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		date    string
		start   string
		backlog bool
	)

	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to another day or time",
		Long: `Move a task to a new date and/or start time, keeping its length.

Without --start a timed task keeps its clock time on the new day. A backlog
task moved to a date becomes an all-day task. --backlog removes the date.`,
		Example: `  slate move 1a2b --date=tomorrow
  slate move 1a2b --start=15:30
  slate move 1a2b --backlog`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if backlog && (date != "" || start != "") {
				return errors.New("--backlog cannot be combined with --date or --start")
			}
			if !backlog && date == "" && start == "" {
				return errors.New("nothing to change: pass --date, --start or --backlog")
			}

			ctx := context.Background()
			id, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			t, err := a.store.GetTask(ctx, id)
			if err != nil {
				return fmt.Errorf("fetching task: %w", err)
			}

			if backlog {
				t.Start, t.End, t.AllDay = nil, nil, false
			} else if err := a.reschedule(t, date, start); err != nil {
				return err
			}

			if err := a.store.UpdateTask(ctx, t); err != nil {
				return fmt.Errorf("updating task: %w", err)
			}
			a.log.Event("TASK_MOVED", map[string]any{"id": t.ID, "start": t.StartClock(), "end": t.EndClock()})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Moved task %s: %s\n", shortID(t), t.Title)
			if t.Start == nil {
				fmt.Fprintln(out, "  to the backlog")
				return nil
			}
			fmt.Fprintf(out, "  %s %s\n", t.Start.Format("Mon 2006-01-02"), timeRange(t))
			if t.IsPast(a.now()) {
				fmt.Fprintln(out, "  note: that time has already passed")
			}
			return a.printConflicts(ctx, out, t)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD, today, tomorrow, monday...)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().BoolVar(&backlog, "backlog", false, "Move the task to the backlog")

	return cmd
}

// reschedule moves t to date (default: its current day, or today for
// backlog tasks) and startClock (default: its current start time).
func (a *App) reschedule(t *task.Task, date, startClock string) error {
	now := a.now()

	day := a.cal.Today(now)
	if t.Start != nil {
		day = a.cal.Today(*t.Start)
	}
	if date != "" {
		d, err := dateutil.ParseRelativeDate(date, now, true)
		if err != nil {
			return err
		}
		day = d
	}

	if startClock == "" && (t.Start == nil || t.AllDay) {
		s := day
		t.Start, t.End, t.AllDay = &s, nil, true
		return nil
	}

	minutes := 0
	if t.Start != nil {
		minutes = task.MinutesSinceMidnight(*t.Start)
	}
	if startClock != "" {
		m, err := task.ParseClock(startClock)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		minutes = m
	}

	length := t.Duration()
	newStart := task.At(day, minutes)
	t.Start, t.AllDay = &newStart, false
	if t.End != nil {
		end := newStart.Add(length)
		t.End = &end
	}
	return nil
}

// printConflicts notes when t lies outside working hours or overlaps
// other tasks of its day.
func (a *App) printConflicts(ctx context.Context, w io.Writer, t *task.Task) error {
	if !t.HasInterval() || t.AllDay {
		return nil
	}

	sched := scheduler.New(a.config.Schedule.DayStart, a.config.Schedule.DayEnd)
	if msg := sched.ValidateSlot(t.StartClock(), t.DayEndClock()); msg != "" {
		fmt.Fprintf(w, "  note: %s\n", msg)
	}

	others, err := a.store.ListTasksByDateRange(ctx, *t.Start, *t.Start)
	if err != nil {
		return fmt.Errorf("checking overlaps: %w", err)
	}
	for _, o := range others {
		if o.ID == t.ID || o.AllDay || !o.HasInterval() {
			continue
		}
		if !task.TimesOverlap(t.StartClock(), t.DayEndClock(), o.StartClock(), o.DayEndClock()) {
			continue
		}
		overlap := task.OverlapMinutes(t.StartClock(), t.DayEndClock(), o.StartClock(), o.DayEndClock())
		fmt.Fprintf(w, "  overlaps %q by %s\n", o.Title, FormatDuration(overlap))
	}
	return nil
}
