// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/sleep"
	"github.com/javiermolinar/slate/internal/task"
)

// Config holds the application configuration.
type Config struct {
	Calendar CalendarConfig `toml:"calendar"`
	Sleep    SleepConfig    `toml:"sleep"`
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// CalendarConfig holds locale settings for date math.
type CalendarConfig struct {
	FirstWeekday string   `toml:"first_weekday"` // e.g., "monday"
	Weekend      []string `toml:"weekend"`       // e.g., ["saturday", "sunday"]
	Timezone     string   `toml:"timezone"`      // IANA name, empty means local
}

// SleepConfig holds the periods seeded by `slate init`.
type SleepConfig struct {
	Weekday string `toml:"weekday"` // "HH:MM-HH:MM" wake-sleep
	Weekend string `toml:"weekend"`
}

// ScheduleConfig holds the working-hours window used to place tasks.
type ScheduleConfig struct {
	DayStart string `toml:"day_start"` // e.g., "09:00"
	DayEnd   string `toml:"day_end"`   // e.g., "17:00"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	def := sleep.Default()
	return &Config{
		Calendar: CalendarConfig{
			FirstWeekday: "monday",
			Weekend:      []string{"saturday", "sunday"},
		},
		Sleep: SleepConfig{
			Weekday: def.Weekday.String(),
			Weekend: def.Weekend.String(),
		},
		Schedule: ScheduleConfig{
			DayStart: "09:00",
			DayEnd:   "17:00",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "slate.db"
	}
	return filepath.Join(home, ".local", "share", "slate", "slate.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "slate", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SLATE_FIRST_WEEKDAY"); v != "" {
		cfg.Calendar.FirstWeekday = v
	}
	if v := os.Getenv("SLATE_WEEKEND"); v != "" {
		cfg.Calendar.Weekend = strings.Split(v, ",")
	}
	if v := os.Getenv("SLATE_TIMEZONE"); v != "" {
		cfg.Calendar.Timezone = v
	}

	if v := os.Getenv("SLATE_SLEEP_WEEKDAY"); v != "" {
		cfg.Sleep.Weekday = v
	}
	if v := os.Getenv("SLATE_SLEEP_WEEKEND"); v != "" {
		cfg.Sleep.Weekend = v
	}

	if v := os.Getenv("SLATE_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("SLATE_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}

	if v := os.Getenv("SLATE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("SLATE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.CalendarSettings(); err != nil {
		return err
	}
	if _, err := c.SleepSchedule(); err != nil {
		return err
	}

	if err := validateTime(c.Schedule.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Schedule.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if _, err := task.ParseClock(t); err != nil {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

// CalendarSettings converts the [calendar] section into a dateutil.Calendar.
func (c *Config) CalendarSettings() (dateutil.Calendar, error) {
	first, ok := dateutil.ParseWeekday(c.Calendar.FirstWeekday)
	if !ok {
		return dateutil.Calendar{}, fmt.Errorf("%w: first_weekday %q", dateutil.ErrInvalidCalendar, c.Calendar.FirstWeekday)
	}

	weekend := make([]time.Weekday, 0, len(c.Calendar.Weekend))
	for _, name := range c.Calendar.Weekend {
		wd, ok := dateutil.ParseWeekday(strings.TrimSpace(name))
		if !ok {
			return dateutil.Calendar{}, fmt.Errorf("%w: weekend day %q", dateutil.ErrInvalidCalendar, name)
		}
		weekend = append(weekend, wd)
	}

	loc := time.Local
	if c.Calendar.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(c.Calendar.Timezone)
		if err != nil {
			return dateutil.Calendar{}, fmt.Errorf("%w: timezone %q: %v", dateutil.ErrInvalidCalendar, c.Calendar.Timezone, err)
		}
	}

	cal := dateutil.Calendar{FirstWeekday: first, Weekend: weekend, Location: loc}
	return cal, cal.Validate()
}

// SleepSchedule converts the [sleep] section into the schedule seeded by init.
func (c *Config) SleepSchedule() (sleep.Schedule, error) {
	weekday, err := sleep.ParsePeriod(c.Sleep.Weekday)
	if err != nil {
		return sleep.Schedule{}, fmt.Errorf("sleep.weekday: %w", err)
	}
	weekend, err := sleep.ParsePeriod(c.Sleep.Weekend)
	if err != nil {
		return sleep.Schedule{}, fmt.Errorf("sleep.weekend: %w", err)
	}
	return sleep.Schedule{Weekday: weekday, Weekend: weekend, Special: map[dateutil.DateKey]sleep.Period{}}, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
