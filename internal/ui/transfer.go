package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/ics"
	"github.com/javiermolinar/slate/internal/task"
)

func (a *App) importCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import [file.ics]",
		Short: "Import events from an iCalendar file",
		Long: `Import the events of an iCalendar (.ics) file as tasks.

Recurring events are expanded inside the import window, which defaults
to the current year. Importing the same file again skips the events it
already created. Use "-" to read from standard input.`,
		Example: `  slate import holidays.ics
  slate import work.ics --start=2025-03-01 --end=2025-03-31
  curl -s https://example.com/cal.ics | slate import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			window, err := a.importWindow(startDate, endDate)
			if err != nil {
				return err
			}

			r, closeFn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			parsed, err := ics.Parse(r, ics.Options{Window: window, Location: a.cal.Loc(), Log: a.log})
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			ctx := context.Background()
			fresh, err := a.newTasks(ctx, parsed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts := PrintOpts{ShowDate: true}
			for _, t := range fresh {
				PrintTaskRow(out, t, opts, opts.CalcMaxDescWidth(40))
			}
			skipped := len(parsed) - len(fresh)
			if dryRun {
				fmt.Fprintf(out, "Would import %d tasks (%d already present)\n", len(fresh), skipped)
				return nil
			}

			if len(fresh) > 0 {
				if err := a.store.CreateTasks(ctx, fresh); err != nil {
					return fmt.Errorf("saving tasks: %w", err)
				}
			}
			a.log.Event("ICS_IMPORTED", map[string]any{"file": args[0], "created": len(fresh), "skipped": skipped})
			fmt.Fprintf(out, "Imported %d tasks (%d already present)\n", len(fresh), skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "First day of the import window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "Last day of the import window (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would be imported without saving")
	return cmd
}

// importWindow turns the inclusive --start/--end days into a window. With
// no flags it covers the current year.
func (a *App) importWindow(startDate, endDate string) (ics.Window, error) {
	if startDate == "" && endDate == "" {
		return ics.YearWindow(a.now(), a.cal.Loc()), nil
	}
	if startDate == "" {
		return ics.Window{}, errors.New("--end needs --start")
	}
	r, err := dateutil.NewDateRange(startDate, endDate, a.cal.Loc())
	if err != nil {
		return ics.Window{}, err
	}
	return ics.Window{Start: r.Start, End: dateutil.AddDays(r.End, 1)}, nil
}

// newTasks drops tasks whose ID is already stored.
func (a *App) newTasks(ctx context.Context, tasks []*task.Task) ([]*task.Task, error) {
	fresh := make([]*task.Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true

		_, err := a.store.GetTask(ctx, t.ID)
		switch {
		case err == nil:
			continue
		case errors.Is(err, task.ErrTaskNotFound):
			fresh = append(fresh, t)
		default:
			return nil, fmt.Errorf("checking task %s: %w", t.ID, err)
		}
	}
	return fresh, nil
}

func (a *App) exportCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "export [file.ics]",
		Short: "Export dated tasks to an iCalendar file",
		Long: `Write dated tasks as iCalendar events. Backlog tasks and sleep
blocks are not exported. Use "-" to write to standard output.`,
		Example: `  slate export slate.ics
  slate export - --start=2025-01-01 --end=2025-12-31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()

			var (
				tasks []*task.Task
				err   error
			)
			if startDate == "" && endDate == "" {
				tasks, err = a.store.ListAllTasks(ctx)
			} else {
				var r *dateutil.DateRange
				if r, err = dateutil.NewDateRange(startDate, endDate, a.cal.Loc()); err != nil {
					return err
				}
				tasks, err = a.store.ListTasksByDateRange(ctx, r.Start, r.End)
			}
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			toStdout := args[0] == "-"
			var w io.Writer = cmd.OutOrStdout()
			if !toStdout {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			n, err := ics.Export(w, tasks, ics.DefaultProdID)
			if err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			a.log.Event("ICS_EXPORTED", map[string]any{"file": args[0], "events": n})
			if !toStdout {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", n, args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "First day to export (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "Last day to export (YYYY-MM-DD)")
	return cmd
}

// openInput opens path, or the command's stdin for "-".
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
