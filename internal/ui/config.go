package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/config"
	"github.com/javiermolinar/slate/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  slate config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				configPath = config.DefaultConfigPath()
			}
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file to edit (defaults to the standard location)")
	return cmd
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, statErr := os.Stat(configPath); errors.Is(statErr, os.ErrNotExist) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Calendar.FirstWeekday = promptValue(reader, out, "First day of the week", cfg.Calendar.FirstWeekday)
	cfg.Calendar.Weekend = promptSlice(reader, out, "Weekend days (comma-separated)", cfg.Calendar.Weekend)
	cfg.Calendar.Timezone = promptValue(reader, out, "Timezone (empty for local)", cfg.Calendar.Timezone)
	cfg.Sleep.Weekday = promptValue(reader, out, "Weekday sleep (wake-sleep)", cfg.Sleep.Weekday)
	cfg.Sleep.Weekend = promptValue(reader, out, "Weekend sleep (wake-sleep)", cfg.Sleep.Weekend)
	cfg.Schedule.DayStart = promptValue(reader, out, "Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(reader, out, "Day end", cfg.Schedule.DayEnd)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	fmt.Fprintln(out, "The sleep schedule in the database is unchanged; use 'slate sleep set' to update it.")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[calendar]")
	fmt.Fprintf(w, "  first_weekday    = %s\n", cfg.Calendar.FirstWeekday)
	fmt.Fprintf(w, "  weekend          = %s\n", strings.Join(cfg.Calendar.Weekend, ", "))
	if cfg.Calendar.Timezone != "" {
		fmt.Fprintf(w, "  timezone         = %s\n", cfg.Calendar.Timezone)
	}
	fmt.Fprintln(w, "\n[sleep]")
	fmt.Fprintf(w, "  weekday          = %s\n", cfg.Sleep.Weekday)
	fmt.Fprintf(w, "  weekend          = %s\n", cfg.Sleep.Weekend)
	fmt.Fprintln(w, "\n[schedule]")
	fmt.Fprintf(w, "  day_start        = %s\n", cfg.Schedule.DayStart)
	fmt.Fprintf(w, "  day_end          = %s\n", cfg.Schedule.DayEnd)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptYesNo(reader *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input := strings.ToLower(readLine(reader))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, w io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	if input := readLine(reader); input != "" {
		return input
	}
	return current
}

func promptSlice(reader *bufio.Reader, w io.Writer, label string, current []string) []string {
	fmt.Fprintf(w, "  %s [%s]: ", label, strings.Join(current, ", "))
	input := readLine(reader)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// promptTheme asks until a known theme is given. End of input keeps the
// current value.
func promptTheme(reader *bufio.Reader, w io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, w, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		if _, err := reader.Peek(1); err != nil {
			return current
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
