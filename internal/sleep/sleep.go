// Package sleep resolves the sleep period that applies to a date and turns
// it into synthetic "sleep" blocks merged into that day's tasks.
package sleep

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/task"
)

var (
	// ErrNoSchedule is returned when no sleep schedule has been stored yet.
	ErrNoSchedule = errors.New("no sleep schedule configured")

	// ErrInvalidPeriod is returned for periods outside a single day.
	ErrInvalidPeriod = errors.New("sleep period must be HH:MM-HH:MM within one day")
)

// Title is the title given to synthesized sleep blocks.
const Title = "sleep"

// idNamespace scopes the deterministic IDs of sleep blocks.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("slate:sleep"))

// Period is a wake/sleep pair in minutes since midnight.
type Period struct {
	Wake  int
	Sleep int
}

// ParsePeriod parses "HH:MM-HH:MM" (wake-sleep).
func ParsePeriod(s string) (Period, error) {
	wake, bed, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	w, err := task.ParseClock(strings.TrimSpace(wake))
	if err != nil {
		return Period{}, fmt.Errorf("%w: wake %q", ErrInvalidPeriod, wake)
	}
	b, err := task.ParseClock(strings.TrimSpace(bed))
	if err != nil {
		return Period{}, fmt.Errorf("%w: sleep %q", ErrInvalidPeriod, bed)
	}
	return Period{Wake: w, Sleep: b}, nil
}

// Validate checks that both minutes fall within [0, 1440).
// No ordering between Wake and Sleep is enforced.
func (p Period) Validate() error {
	if p.Wake < 0 || p.Wake >= task.MinutesPerDay {
		return fmt.Errorf("%w: wake minute %d", ErrInvalidPeriod, p.Wake)
	}
	if p.Sleep < 0 || p.Sleep >= task.MinutesPerDay {
		return fmt.Errorf("%w: sleep minute %d", ErrInvalidPeriod, p.Sleep)
	}
	return nil
}

// Overnight reports whether bedtime is earlier in the day than wake time,
// i.e. the person goes to bed after midnight.
func (p Period) Overnight() bool {
	return p.Sleep < p.Wake
}

// String formats the period as "HH:MM-HH:MM".
func (p Period) String() string {
	return task.MinutesToTime(p.Wake) + "-" + task.MinutesToTime(p.Sleep)
}

// Schedule is the stored sleep configuration.
type Schedule struct {
	Weekday Period
	Weekend Period
	Special map[dateutil.DateKey]Period
}

// Default returns the schedule seeded by the init step.
func Default() Schedule {
	return Schedule{
		Weekday: Period{Wake: 7 * 60, Sleep: 23 * 60},
		Weekend: Period{Wake: 9 * 60, Sleep: 23*60 + 30},
		Special: map[dateutil.DateKey]Period{},
	}
}

// Validate checks every period in the schedule.
func (s Schedule) Validate() error {
	if err := s.Weekday.Validate(); err != nil {
		return fmt.Errorf("weekday: %w", err)
	}
	if err := s.Weekend.Validate(); err != nil {
		return fmt.Errorf("weekend: %w", err)
	}
	for k, p := range s.Special {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// Resolve returns the period that applies to date. An override for the exact
// day wins, then the weekend period on weekend days, then the weekday period.
func Resolve(date time.Time, s Schedule, cal dateutil.Calendar) Period {
	if p, ok := s.Special[cal.Key(date)]; ok {
		return p
	}
	if cal.IsWeekend(date) {
		return s.Weekend
	}
	return s.Weekday
}

// Synthesize returns the morning block (00:00:00 to wake) and the evening
// block (bedtime to 23:59:59) for date's day in loc. Overnight periods are
// not special-cased.
func Synthesize(date time.Time, p Period, loc *time.Location) [2]*task.Task {
	if loc == nil {
		loc = time.Local
	}
	day := dateutil.TruncateToDay(date.In(loc))
	key := dateutil.KeyOf(day)

	morningEnd := task.At(day, p.Wake)
	eveningStart := task.At(day, p.Sleep)
	endOfDay := dateutil.EndOfDay(day)

	return [2]*task.Task{
		block(key, "morning", day, morningEnd),
		block(key, "evening", eveningStart, endOfDay),
	}
}

func block(key dateutil.DateKey, part string, start, end time.Time) *task.Task {
	return &task.Task{
		ID:        uuid.NewSHA1(idNamespace, []byte(string(key)+"/"+part)).String(),
		Title:     Title,
		Start:     &start,
		End:       &end,
		Priority:  task.PriorityLow,
		Origin:    task.OriginSleep,
		CreatedAt: start,
		UpdatedAt: start,
	}
}

// ForDates resolves and synthesizes sleep blocks for every date, in order.
func ForDates(dates []time.Time, s Schedule, cal dateutil.Calendar) []*task.Task {
	out := make([]*task.Task, 0, 2*len(dates))
	for _, d := range dates {
		blocks := Synthesize(d, Resolve(d, s, cal), cal.Loc())
		out = append(out, blocks[0], blocks[1])
	}
	return out
}
