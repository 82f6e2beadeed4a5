// Package agenda assembles repository data into calendar views.
package agenda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/slate/internal/calendar"
	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/freetime"
	"github.com/javiermolinar/slate/internal/sleep"
	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/timeline"
)

// SleepStore provides the stored sleep schedule.
type SleepStore interface {
	// GetSleepSchedule returns sleep.ErrNoSchedule when none is stored.
	GetSleepSchedule(ctx context.Context) (sleep.Schedule, error)
}

// Options configures BuildYear.
type Options struct {
	Date     time.Time // any day of the year; zero means now
	Calendar dateutil.Calendar
}

// Year is a built year grid plus what it was built from.
type Year struct {
	Grid         *calendar.YearGrid
	ByDate       map[dateutil.DateKey][]*task.Task
	Backlog      []*task.Task
	Schedule     sleep.Schedule
	MissingSleep bool
	Calendar     dateutil.Calendar
}

// Stats holds per-day figures over user tasks.
type Stats struct {
	Tasks         int
	Completed     int
	HighOpen      int
	BusyMinutes   int
	FreeMinutes   int
	TravelMinutes int
}

// Day is everything shown for a single day.
type Day struct {
	Date    time.Time
	Tasks   []*task.Task
	Free    []freetime.Interval
	HasFree bool
	Rows    []timeline.Row
	Stats   Stats
}

// BuildYear loads the tasks of the year containing opts.Date, merges in the
// synthesized sleep blocks and builds the grid. A missing sleep schedule is
// reported through MissingSleep rather than as an error.
func BuildYear(ctx context.Context, repo task.Repository, store SleepStore, opts Options) (*Year, error) {
	cal := opts.Calendar
	ref := opts.Date
	if ref.IsZero() {
		ref = time.Now()
	}

	first, last := cal.YearInterval(ref)
	tasks, err := repo.ListTasksByDateRange(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	backlog, err := repo.ListBacklog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching backlog: %w", err)
	}

	year := &Year{Backlog: backlog, Calendar: cal}
	year.Schedule, year.MissingSleep, err = loadSchedule(ctx, store)
	if err != nil {
		return nil, err
	}
	if !year.MissingSleep {
		tasks = append(tasks, sleep.ForDates(calendar.YearDates(ref, cal), year.Schedule, cal)...)
	}

	year.ByDate, _ = task.Partition(tasks, cal)
	year.Grid, err = calendar.BuildYearGrid(ref, year.ByDate, cal)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}
	return year, nil
}

// Day summarizes one day of the year. Days outside the year are empty.
func (y *Year) Day(date time.Time) *Day {
	date = y.Calendar.Today(date)
	return DaySummary(date, y.ByDate[y.Calendar.Key(date)])
}

// BuildDay loads and summarizes a single day.
func BuildDay(ctx context.Context, repo task.Repository, store SleepStore, date time.Time, cal dateutil.Calendar) (*Day, error) {
	day := cal.Today(date)
	tasks, err := repo.ListTasksByDateRange(ctx, day, day)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}

	sched, missing, err := loadSchedule(ctx, store)
	if err != nil {
		return nil, err
	}
	if !missing {
		blocks := sleep.Synthesize(day, sleep.Resolve(day, sched, cal), cal.Loc())
		tasks = append(tasks, blocks[0], blocks[1])
	}
	task.SortByStart(tasks)
	return DaySummary(day, tasks), nil
}

func loadSchedule(ctx context.Context, store SleepStore) (sleep.Schedule, bool, error) {
	sched, err := store.GetSleepSchedule(ctx)
	if errors.Is(err, sleep.ErrNoSchedule) {
		return sleep.Schedule{}, true, nil
	}
	if err != nil {
		return sleep.Schedule{}, false, fmt.Errorf("fetching sleep schedule: %w", err)
	}
	return sched, false, nil
}

// DaySummary derives free time, timeline rows and stats from a day's tasks.
// tasks may include sleep blocks; stats count user tasks only.
func DaySummary(date time.Time, tasks []*task.Task) *Day {
	d := &Day{
		Date:  date,
		Tasks: tasks,
		Rows:  timeline.Rows(timeline.Bucketize(tasks)),
	}
	d.Free, d.HasFree = freetime.Calculate(tasks)
	d.Stats.FreeMinutes = freetime.Total(d.Free)

	user := task.UserTasks(tasks)
	d.Stats.Tasks = len(user)
	d.Stats.BusyMinutes = busyMinutes(user)
	for _, t := range user {
		if t.Completed {
			d.Stats.Completed++
		} else if t.Priority == task.PriorityHigh {
			d.Stats.HighOpen++
		}
		d.Stats.TravelMinutes += int(t.TravelTime / time.Minute)
	}
	return d
}

// busyMinutes counts the minutes covered by at least one task.
func busyMinutes(tasks []*task.Task) int {
	free, ok := freetime.Calculate(tasks)
	if ok {
		return task.MinutesPerDay - 1 - freetime.Total(free)
	}
	for _, t := range tasks {
		if t.HasInterval() {
			return task.MinutesPerDay - 1
		}
	}
	return 0
}
