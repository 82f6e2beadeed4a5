package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/agenda"
	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/freetime"
	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/timeline"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

func (a *App) dayCmd() *cobra.Command {
	var (
		date    string
		copyOut bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show a day's timeline and free time",
		Long: `Display one day: tasks grouped by start time, the free time left
between them and the sleep blocks, and a short summary.

With --copy, the free intervals are also put on the clipboard.`,
		Example: `  slate day
  slate day --date=tomorrow --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			day, err := dateutil.ParseRelativeDate(date, a.now(), true)
			if err != nil {
				return err
			}

			d, err := agenda.BuildDay(context.Background(), a.store, a.store, day, a.cal)
			if err != nil {
				return fmt.Errorf("building day: %w", err)
			}

			out := cmd.OutOrStdout()
			a.printMissingSleep(out)
			printDay(out, d, PrintOpts{Verbose: verbose})

			if copyOut {
				if !d.HasFree {
					return errors.New("no free time to copy")
				}
				if err := copyToClipboard(freetime.Format(d.Free)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(out, formatMuted("Copied free time to the clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow...)")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the free intervals to the clipboard")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show descriptions and full titles")
	return cmd
}

// printMissingSleep warns once when no sleep schedule is stored.
func (a *App) printMissingSleep(w io.Writer) {
	if _, err := a.store.GetSleepSchedule(context.Background()); err != nil {
		fmt.Fprintln(w, formatMuted("No sleep schedule stored; run 'slate init' or 'slate sleep set'."))
	}
}

func printDay(w io.Writer, d *agenda.Day, opts PrintOpts) {
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(d.Date.Format("Monday, January 2, 2006")))

	var allDay []*task.Task
	for _, t := range d.Tasks {
		if t.AllDay {
			allDay = append(allDay, t)
		}
	}
	maxDescWidth := opts.CalcMaxDescWidth(50)
	for _, t := range allDay {
		PrintTaskRow(w, t, opts, maxDescWidth)
	}

	rows := d.Rows
	if len(rows) == 0 && len(allDay) == 0 {
		fmt.Fprintln(w, formatMuted("  Nothing planned."))
	}
	for _, row := range rows {
		printRow(w, row, opts, maxDescWidth)
	}

	fmt.Fprintln(w)
	if d.HasFree {
		parts := make([]string, 0, len(d.Free))
		for _, iv := range d.Free {
			parts = append(parts, iv.String())
		}
		fmt.Fprintf(w, "Free: %s\n", formatFree(strings.Join(parts, "  ")))
	} else {
		fmt.Fprintln(w, formatMuted("Free: none"))
	}
	PrintStats(w, d.Stats)
	if awake := d.Stats.BusyMinutes + d.Stats.FreeMinutes; awake > 0 {
		fmt.Fprintf(w, "Load: %s\n", BusyBar(d.Stats.BusyMinutes, awake, 20))
	}
}

// printRow prints one start-time group. Tasks sharing a start are listed
// together under it.
func printRow(w io.Writer, row timeline.Row, opts PrintOpts, maxDescWidth int) {
	var shown []*task.Task
	for _, b := range row.Buckets {
		if !b.Task.AllDay {
			shown = append(shown, b.Task)
		}
	}
	if len(shown) == 0 {
		return
	}
	if len(shown) > 1 {
		fmt.Fprintf(w, "  %s\n", formatMuted(fmt.Sprintf("%s  %d tasks", task.MinutesToTime(row.Offset), len(shown))))
	}
	for _, t := range shown {
		PrintTaskRow(w, t, opts, maxDescWidth)
	}
}
