package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		backlog   bool
		week      bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a date range",
		Long: `List all tasks scheduled within a date range.

If no dates are specified, lists today's tasks.
If only --start is specified, lists tasks for that single day.
If both --start and --end are specified, lists tasks in that range (inclusive).
With --week, lists the whole week containing --start (or today).
With --backlog, lists the tasks that have no date.`,
		Example: `  slate list
  slate list --start=2025-01-15
  slate list --start=2025-01-15 --end=2025-01-20
  slate list --week
  slate list --backlog`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()
			out := cmd.OutOrStdout()
			opts := PrintOpts{Verbose: verbose, ShowDuration: true}

			if backlog {
				tasks, err := a.store.ListBacklog(ctx)
				if err != nil {
					return fmt.Errorf("listing backlog: %w", err)
				}
				if len(tasks) == 0 {
					fmt.Fprintln(out, "The backlog is empty.")
					return nil
				}
				fmt.Fprintf(out, "=== %s ===\n", formatHeader("Backlog"))
				for _, t := range tasks {
					PrintTaskRow(out, t, opts, opts.CalcMaxDescWidth(50))
				}
				return nil
			}

			if startDate == "" {
				startDate = a.now().Format(dateutil.DateLayout)
			}
			dateRange, err := dateutil.NewDateRange(startDate, endDate, a.cal.Loc())
			if err != nil {
				return err
			}

			if week {
				dateRange.Start, dateRange.End = dateutil.WeekRange(dateRange.Start, a.cal.FirstWeekday)
			}

			tasks, err := a.store.ListTasksByDateRange(ctx, dateRange.Start, dateRange.End)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found in the specified date range.")
				return nil
			}
			printGroupedByDate(out, tasks, a.cal, opts)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().BoolVar(&backlog, "backlog", false, "List undated tasks")
	cmd.Flags().BoolVar(&week, "week", false, "List the week containing the start date")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show descriptions and full titles")
	cmd.MarkFlagsMutuallyExclusive("backlog", "start")
	cmd.MarkFlagsMutuallyExclusive("backlog", "end")
	cmd.MarkFlagsMutuallyExclusive("backlog", "week")
	cmd.MarkFlagsMutuallyExclusive("week", "end")

	return cmd
}

// printGroupedByDate prints tasks under one header per calendar day.
func printGroupedByDate(w io.Writer, tasks []*task.Task, cal dateutil.Calendar, opts PrintOpts) {
	byDate, _ := task.Partition(tasks, cal)
	maxDescWidth := opts.CalcMaxDescWidth(50)

	var current dateutil.DateKey
	for _, t := range tasks {
		key := cal.Key(*t.Start)
		if key == current {
			continue
		}
		if current != "" {
			fmt.Fprintln(w)
		}
		current = key
		day := key.Time(cal.Loc())
		fmt.Fprintf(w, "=== %s ===\n", formatHeader(day.Format("Mon 2006-01-02")))
		for _, dt := range byDate[key] {
			PrintTaskRow(w, dt, opts, maxDescWidth)
		}
	}
}

func (a *App) doneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done [task-id]",
		Short: "Mark a task as completed",
		Long: `Mark a task as completed by its ID or any unique ID prefix.

Example:
  slate done 1a2b3c4d
  slate done 1a2b --undo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()
			id, err := a.resolveTask(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.store.SetCompleted(ctx, id, !undo); err != nil {
				return fmt.Errorf("updating task: %w", err)
			}

			verb := "Completed"
			if undo {
				verb = "Reopened"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s task %s\n", verb, id[:min(idWidth, len(id))])
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task as open again")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [task-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long: `Delete a task by its ID or any unique ID prefix.

Example:
  slate delete 1a2b3c4d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
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
			if err := a.store.DeleteTask(ctx, id); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			a.log.Event("TASK_DELETED", map[string]any{"id": id})
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(t), t.Title)
			return nil
		},
	}
}
