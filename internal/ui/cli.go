// Package ui implements the slate command line.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/agenda"
	"github.com/javiermolinar/slate/internal/config"
	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/db"
	"github.com/javiermolinar/slate/internal/debuglog"
	"github.com/javiermolinar/slate/internal/sleep"
	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// Store is the storage the CLI works against. *db.SQLite implements it.
type Store interface {
	task.Repository
	agenda.SleepStore

	ResolveID(ctx context.Context, prefix string) (string, error)
	SaveSleepSchedule(ctx context.Context, sched sleep.Schedule) error
	SetSleepOverride(ctx context.Context, key dateutil.DateKey, p sleep.Period) error
	ClearSleepOverride(ctx context.Context, key dateutil.DateKey) error
}

// App holds the CLI application state.
type App struct {
	store  Store
	config *config.Config
	cal    dateutil.Calendar
	log    *debuglog.Logger
	root   *cobra.Command

	debug    bool // Enable debug logging
	debugLog string
	noColor  bool
	ownStore bool // store was opened here and must be closed
	nowFunc  func() time.Time
}

// NewApp creates a new CLI application. A nil store is opened lazily from
// the configured database path.
func NewApp(store Store, cfg *config.Config) *App {
	a := &App{store: store, config: cfg, nowFunc: time.Now}

	a.root = &cobra.Command{
		Use:   "slate",
		Short: "A calendar planner for the terminal",
		Long: `Slate keeps your tasks on a calendar.

It shows days, weeks, months and whole years, blocks out the hours you
sleep, and finds free time for new tasks.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			return tui.Run(a.store, a.config, a.cal, a.log)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (JSON lines)")
	a.root.PersistentFlags().StringVar(&a.debugLog, "debug-log", debuglog.DefaultPath, "Debug log file")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.initCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.monthCmd())
	a.root.AddCommand(a.yearCmd())
	a.root.AddCommand(a.sleepCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) setup() error {
	if !colorWanted(a.noColor) {
		DisableColor()
	}

	cal, err := a.config.CalendarSettings()
	if err != nil {
		return fmt.Errorf("invalid calendar settings: %w", err)
	}
	a.cal = cal

	if a.debug && a.log == nil {
		l, err := debuglog.Open(a.debugLog)
		if err != nil {
			return err
		}
		a.log = l
	}
	return nil
}

// ensureStore opens the configured database on first use.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if path == "" {
		return fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	s, err := db.New(path, a.cal.Loc())
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	a.store = s
	a.ownStore = true
	a.log.Event("DB_OPEN", map[string]any{"path": path})
	return nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "slate %s (commit: %s)\n", Version, Commit)
		},
	}
}

// SetArgs overrides the command line arguments.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output and errors to w.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store if the app opened it, and the debug log.
func (a *App) Close() error {
	var err error
	if a.ownStore && a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if cerr := a.log.Close(); err == nil {
		err = cerr
	}
	return err
}

// resolveTask expands a printed ID prefix to a full ID.
func (a *App) resolveTask(ctx context.Context, prefix string) (string, error) {
	id, err := a.store.ResolveID(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("task %s: %w", prefix, err)
	}
	return id, nil
}

// now is the wall clock in the calendar location.
func (a *App) now() time.Time {
	return a.cal.In(a.nowFunc())
}
