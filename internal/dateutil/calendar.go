package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCalendar is returned for calendar settings no grid can be built from.
var ErrInvalidCalendar = errors.New("invalid calendar configuration")

// DateKey is a date truncated to calendar-day granularity ("2006-01-02").
// Keys compare chronologically as strings.
type DateKey string

// KeyOf returns the date key of t in t's own location.
func KeyOf(t time.Time) DateKey {
	return DateKey(t.Format(DateLayout))
}

// ParseKey parses a "2006-01-02" string into a DateKey.
func ParseKey(s string) (DateKey, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDateFormat
	}
	return DateKey(s), nil
}

// Time returns the first instant of the key's day in loc.
func (k DateKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.Parse(DateLayout, string(k))
	if err != nil {
		return time.Time{}
	}
	return Midnight(t.Year(), t.Month(), t.Day(), loc)
}

// String returns the key as text.
func (k DateKey) String() string {
	return string(k)
}

// Calendar holds the locale facts date math depends on.
type Calendar struct {
	FirstWeekday time.Weekday
	Weekend      []time.Weekday
	Location     *time.Location
}

// DefaultCalendar returns a Monday-first calendar with a Saturday/Sunday
// weekend in the local timezone.
func DefaultCalendar() Calendar {
	return Calendar{
		FirstWeekday: time.Monday,
		Weekend:      []time.Weekday{time.Saturday, time.Sunday},
		Location:     time.Local,
	}
}

// Validate checks that the calendar can be used for grid building.
func (c Calendar) Validate() error {
	if c.FirstWeekday < time.Sunday || c.FirstWeekday > time.Saturday {
		return fmt.Errorf("%w: first weekday %d", ErrInvalidCalendar, c.FirstWeekday)
	}
	for _, wd := range c.Weekend {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: weekend day %d", ErrInvalidCalendar, wd)
		}
	}
	return nil
}

// Loc returns the calendar location, defaulting to time.Local.
func (c Calendar) Loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// In converts t to the calendar location.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.Loc())
}

// Weekday returns t's weekday in the calendar location.
func (c Calendar) Weekday(t time.Time) time.Weekday {
	return c.In(t).Weekday()
}

// Key returns the date key of t in the calendar location.
func (c Calendar) Key(t time.Time) DateKey {
	return KeyOf(c.In(t))
}

// Today returns midnight of now's day in the calendar location.
func (c Calendar) Today(now time.Time) time.Time {
	return TruncateToDay(c.In(now))
}

// IsWeekend reports whether t falls on a weekend day in the calendar location.
func (c Calendar) IsWeekend(t time.Time) bool {
	wd := c.Weekday(t)
	for _, w := range c.Weekend {
		if w == wd {
			return true
		}
	}
	return false
}

// YearInterval returns midnight on January 1st and midnight on December
// 31st of t's year in the calendar location.
func (c Calendar) YearInterval(t time.Time) (first, last time.Time) {
	year := c.In(t).Year()
	loc := c.Loc()
	first = Midnight(year, time.January, 1, loc)
	last = Midnight(year, time.December, 31, loc)
	return first, last
}

// WeekdayShortNames returns the short weekday names in column order,
// starting at the calendar's first weekday.
func (c Calendar) WeekdayShortNames() []string {
	names := make([]string, 7)
	for i := range 7 {
		wd := time.Weekday((int(c.FirstWeekday) + i) % 7)
		names[i] = wd.String()[:3]
	}
	return names
}
