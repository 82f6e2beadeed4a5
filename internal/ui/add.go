package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/agenda"
	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/scheduler"
	"github.com/javiermolinar/slate/internal/task"
)

// addOptions holds the raw flags of the add command.
type addOptions struct {
	date     string
	start    string
	end      string
	duration int
	priority string
	allDay   bool
	travel   int
	desc     string
}

func (a *App) addCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a new task to your calendar.

Without a date or time the task goes to the backlog. A date alone makes
an all-day task. With --duration and no --start, slate picks the first
free slot inside working hours that does not overlap sleep or other tasks.`,
		Example: `  slate add "Buy milk"
  slate add "Dentist" --date=2025-03-14 --start=10:00 --end=11:00 --travel=20
  slate add "Write report" --date=tomorrow --duration=90 --priority=high
  slate add "Holiday" --date=2025-08-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			ctx := context.Background()
			t, err := a.buildTask(ctx, args[0], opts)
			if err != nil {
				return err
			}
			if err := a.store.CreateTask(ctx, t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}
			a.log.Event("TASK_CREATED", map[string]any{"id": t.ID, "title": t.Title})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created task %s: %s\n", shortID(t), t.Title)
			if t.Start != nil {
				fmt.Fprintf(out, "  %s %s\n", t.Start.Format("Mon 2006-01-02"), timeRange(t))
			}
			return a.printConflicts(ctx, out, t)
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, monday, next-week...)")
	cmd.Flags().StringVar(&opts.start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&opts.end, "end", "", "End time (HH:MM)")
	cmd.Flags().IntVar(&opts.duration, "duration", 0, "Length in minutes")
	cmd.Flags().StringVar(&opts.priority, "priority", "medium", "Priority: low, medium or high")
	cmd.Flags().BoolVar(&opts.allDay, "all-day", false, "Mark as an all-day task")
	cmd.Flags().IntVar(&opts.travel, "travel", 0, "Travel time in minutes before the start")
	cmd.Flags().StringVar(&opts.desc, "desc", "", "Description")

	cmd.MarkFlagsMutuallyExclusive("end", "duration")
	cmd.MarkFlagsMutuallyExclusive("all-day", "start")

	return cmd
}

// buildTask turns add flags into a validated task. It only reads from the
// store, to find a free slot.
func (a *App) buildTask(ctx context.Context, title string, opts addOptions) (*task.Task, error) {
	prio, err := task.ParsePriority(opts.priority)
	if err != nil {
		return nil, err
	}
	if opts.duration < 0 {
		return nil, errors.New("duration cannot be negative")
	}
	if opts.travel < 0 {
		return nil, task.ErrNegativeTravel
	}

	taskOpts := []task.Option{
		task.WithDescription(opts.desc),
		task.WithPriority(prio),
		task.WithTravelTime(time.Duration(opts.travel) * time.Minute),
	}

	timed := opts.start != "" || opts.end != "" || opts.duration > 0
	if opts.date == "" && !timed && !opts.allDay {
		return task.New(title, taskOpts...)
	}

	now := a.now()
	day, err := dateutil.ParseRelativeDate(opts.date, now, true)
	if err != nil {
		return nil, err
	}

	if !timed || opts.allDay {
		start := day
		taskOpts = append(taskOpts, task.WithSchedule(&start, nil), task.WithAllDay(true))
		return task.New(title, taskOpts...)
	}

	startClock := opts.start
	if startClock == "" {
		if opts.duration == 0 {
			return nil, errors.New("--end needs --start")
		}
		slot, err := a.findSlot(ctx, day, now, opts.duration)
		if err != nil {
			return nil, err
		}
		startClock = slot.Start
	}

	startMin, err := task.ParseClock(startClock)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	start := task.At(day, startMin)

	var end *time.Time
	switch {
	case opts.end != "":
		endMin, err := task.ParseClock(opts.end)
		if err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
		e := task.At(day, endMin)
		end = &e
	case opts.duration > 0:
		e := start.Add(time.Duration(opts.duration) * time.Minute)
		end = &e
	}

	taskOpts = append(taskOpts, task.WithSchedule(&start, end))
	return task.New(title, taskOpts...)
}

// findSlot asks the scheduler for the first free slot of the day.
func (a *App) findSlot(ctx context.Context, day, now time.Time, minutes int) (scheduler.Slot, error) {
	sched := scheduler.New(a.config.Schedule.DayStart, a.config.Schedule.DayEnd)

	notBefore, ok := sched.EarliestStart(day, now)
	if !ok {
		return scheduler.Slot{}, fmt.Errorf("cannot schedule on %s: the day is over", day.Format(dateutil.DateLayout))
	}

	d, err := agenda.BuildDay(ctx, a.store, a.store, day, a.cal)
	if err != nil {
		return scheduler.Slot{}, err
	}

	slot, ok := sched.FindSlotInDay(d.Tasks, minutes, notBefore)
	if !ok {
		return scheduler.Slot{}, fmt.Errorf("no free %s slot on %s between %s and %s",
			FormatDuration(minutes), day.Format(dateutil.DateLayout), sched.DayStart(), sched.DayEnd())
	}
	a.log.Event("SLOT_FOUND", map[string]any{"date": day.Format(dateutil.DateLayout), "start": slot.Start, "end": slot.End})
	return slot, nil
}
