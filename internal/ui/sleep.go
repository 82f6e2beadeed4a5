package ui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/sleep"
)

func (a *App) sleepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Show or change the sleep schedule",
		Long: `Manage the hours blocked out for sleep.

Periods are written wake-sleep, e.g. 07:00-23:00. A sleep time earlier
than the wake time means bed after midnight. Per-day overrides win over
the weekday and weekend periods.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.showSleep(cmd)
		},
	}
	cmd.AddCommand(a.sleepShowCmd(), a.sleepSetCmd(), a.sleepOverrideCmd(), a.sleepClearCmd())
	return cmd
}

func (a *App) sleepShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored sleep schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.showSleep(cmd)
		},
	}
}

func (a *App) showSleep(cmd *cobra.Command) error {
	if err := a.ensureStore(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	sched, err := a.store.GetSleepSchedule(context.Background())
	if errors.Is(err, sleep.ErrNoSchedule) {
		fmt.Fprintln(out, "No sleep schedule stored; run 'slate init' or 'slate sleep set'.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading sleep schedule: %w", err)
	}

	fmt.Fprintf(out, "weekday  %s\n", formatSleep(sched.Weekday.String()))
	fmt.Fprintf(out, "weekend  %s\n", formatSleep(sched.Weekend.String()))
	if len(sched.Special) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\noverrides:")
	for _, key := range slices.Sorted(maps.Keys(sched.Special)) {
		fmt.Fprintf(out, "  %s  %s\n", key, formatSleep(sched.Special[key].String()))
	}
	return nil
}

func (a *App) sleepSetCmd() *cobra.Command {
	var weekday, weekend string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the weekday and weekend periods",
		Example: `  slate sleep set --weekday=07:00-23:00
  slate sleep set --weekend=09:30-01:00`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if weekday == "" && weekend == "" {
				return errors.New("nothing to set: pass --weekday and/or --weekend")
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()

			sched, err := a.store.GetSleepSchedule(ctx)
			switch {
			case errors.Is(err, sleep.ErrNoSchedule):
				if sched, err = a.config.SleepSchedule(); err != nil {
					return err
				}
			case err != nil:
				return fmt.Errorf("reading sleep schedule: %w", err)
			}

			if weekday != "" {
				if sched.Weekday, err = sleep.ParsePeriod(weekday); err != nil {
					return err
				}
			}
			if weekend != "" {
				if sched.Weekend, err = sleep.ParsePeriod(weekend); err != nil {
					return err
				}
			}
			if err := a.store.SaveSleepSchedule(ctx, sched); err != nil {
				return fmt.Errorf("saving sleep schedule: %w", err)
			}
			a.log.Event("SLEEP_SET", map[string]any{"weekday": sched.Weekday.String(), "weekend": sched.Weekend.String()})
			fmt.Fprintf(cmd.OutOrStdout(), "Sleep schedule: weekday %s, weekend %s\n", sched.Weekday, sched.Weekend)
			return nil
		},
	}
	cmd.Flags().StringVar(&weekday, "weekday", "", "Weekday period (HH:MM-HH:MM, wake-sleep)")
	cmd.Flags().StringVar(&weekend, "weekend", "", "Weekend period (HH:MM-HH:MM, wake-sleep)")
	return cmd
}

func (a *App) sleepOverrideCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "override [date] [period]",
		Short:   "Use a different period on one day",
		Example: `  slate sleep override 2025-12-31 09:00-02:00`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			key, err := a.parseDayKey(args[0])
			if err != nil {
				return err
			}
			p, err := sleep.ParsePeriod(args[1])
			if err != nil {
				return err
			}
			err = a.store.SetSleepOverride(context.Background(), key, p)
			if errors.Is(err, sleep.ErrNoSchedule) {
				return fmt.Errorf("%w; run 'slate init' or 'slate sleep set' first", err)
			}
			if err != nil {
				return fmt.Errorf("saving override: %w", err)
			}
			a.log.Event("SLEEP_OVERRIDE", map[string]any{"date": key.String(), "period": p.String()})
			fmt.Fprintf(cmd.OutOrStdout(), "Sleep on %s: %s\n", key, p)
			return nil
		},
	}
}

func (a *App) sleepClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [date]",
		Short: "Remove the override of one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			key, err := a.parseDayKey(args[0])
			if err != nil {
				return err
			}
			if err := a.store.ClearSleepOverride(context.Background(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared sleep override for %s\n", key)
			return nil
		},
	}
}

func (a *App) parseDayKey(s string) (dateutil.DateKey, error) {
	day, err := dateutil.ParseRelativeDate(s, a.now(), true)
	if err != nil {
		return "", err
	}
	return a.cal.Key(day), nil
}
