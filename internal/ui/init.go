package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/config"
	"github.com/javiermolinar/slate/internal/sleep"
)

func (a *App) initCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file, database and sleep schedule",
		Long: `Prepare slate for first use.

Writes the config file if it does not exist, creates the database and
stores the sleep schedule from the [sleep] section of the config. An
existing sleep schedule is left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if configPath == "" {
				configPath = config.DefaultConfigPath()
			}

			if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
				if err := a.config.SaveTo(configPath); err != nil {
					return fmt.Errorf("saving config: %w", err)
				}
				fmt.Fprintf(out, "Created config %s\n", configPath)
			} else {
				fmt.Fprintf(out, "Config %s\n", configPath)
			}

			if err := a.ensureStore(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Database %s\n", a.config.Storage.DBPath)

			seeded, err := a.seedSleep(context.Background())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(out, "Stored the sleep schedule from the config.")
			} else {
				fmt.Fprintln(out, "Sleep schedule already stored.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file to create (defaults to the standard location)")
	return cmd
}

// seedSleep stores the configured sleep schedule unless one exists.
func (a *App) seedSleep(ctx context.Context) (bool, error) {
	_, err := a.store.GetSleepSchedule(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sleep.ErrNoSchedule) {
		return false, fmt.Errorf("reading sleep schedule: %w", err)
	}

	sched, err := a.config.SleepSchedule()
	if err != nil {
		return false, err
	}
	if err := a.store.SaveSleepSchedule(ctx, sched); err != nil {
		return false, fmt.Errorf("saving sleep schedule: %w", err)
	}
	a.log.Event("SLEEP_SEEDED", map[string]any{"weekday": sched.Weekday.String(), "weekend": sched.Weekend.String()})
	return true, nil
}
