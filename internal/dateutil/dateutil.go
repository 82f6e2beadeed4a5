// Package dateutil provides date parsing, date keys and calendar configuration.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrDateInPast         = errors.New("cannot schedule in the past")
)

// DateLayout is the layout used for dates on the command line and in storage.
const DateLayout = "2006-01-02"

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name ("monday", "Sunday", ...).
func ParseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdayMap[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

// DateRange represents a validated date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a new DateRange with validation.
// startDate can be empty (defaults to today) or in YYYY-MM-DD format.
// endDate can be empty (defaults to startDate) or in YYYY-MM-DD format.
// Returns an error if endDate is before startDate.
func NewDateRange(startDate, endDate string, loc *time.Location) (*DateRange, error) {
	start, err := ParseDate(startDate, loc)
	if err != nil {
		return nil, err
	}

	var end time.Time
	if endDate == "" {
		end = start
	} else {
		end, err = ParseDate(endDate, loc)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	return &DateRange{Start: start, End: end}, nil
}

// ParseDate parses a date string in YYYY-MM-DD format as midnight in loc.
// If the string is empty, returns today's date. A nil loc means time.Local.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if s == "" {
		return TruncateToDay(time.Now().In(loc)), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return Midnight(t.Year(), t.Month(), t.Day(), loc), nil
}

// WeekRange returns the first and last day of the week containing t,
// where weeks begin on firstWeekday.
func WeekRange(t time.Time, firstWeekday time.Weekday) (first, last time.Time) {
	t = TruncateToDay(t)
	back := (int(t.Weekday()) - int(firstWeekday) + 7) % 7
	first = AddDays(t, -back)
	last = AddDays(first, 6)
	return first, last
}

// Midnight returns the first instant of the given day in loc. The date is
// normalized the way time.Date does. In zones whose clocks jump forward at
// midnight the day starts at the end of the gap, not on the previous day.
func Midnight(year int, month time.Month, day int, loc *time.Location) time.Time {
	noon := time.Date(year, month, day, 12, 0, 0, 0, loc)
	t := time.Date(noon.Year(), noon.Month(), noon.Day(), 0, 0, 0, 0, loc)
	if SameDay(t, noon) {
		return t
	}
	if start, _ := noon.ZoneBounds(); SameDay(start, noon) {
		return start
	}
	return t.Add(time.Hour)
}

// TruncateToDay returns the first instant of t's calendar day.
func TruncateToDay(t time.Time) time.Time {
	return Midnight(t.Year(), t.Month(), t.Day(), t.Location())
}

// AddDays returns the first instant of the day n calendar days after t's.
// Unlike t.AddDate it never lands on the wrong day across clock changes.
func AddDays(t time.Time, n int) time.Time {
	return Midnight(t.Year(), t.Month(), t.Day()+n, t.Location())
}

// EndOfDay returns 23:59:59 on t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Next prefixed: "next-monday" through "next-sunday", "next-week"
//
// All inputs are case-insensitive and resolved in relativeTo's location.
// Past absolute dates return ErrDateInPast unless allowPast is set.
// Returns ErrInvalidDateFormat for unrecognized input.
func ParseRelativeDate(s string, relativeTo time.Time, allowPast bool) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return AddDays(today, 1), nil
	case "yesterday":
		if !allowPast {
			return time.Time{}, ErrDateInPast
		}
		return AddDays(today, -1), nil
	case "next-week":
		return AddDays(today, 7), nil
	}

	// "next-monday", "next-tuesday", etc.
	if strings.HasPrefix(input, "next-") {
		weekdayName := strings.TrimPrefix(input, "next-")
		if targetDay, ok := weekdayMap[weekdayName]; ok {
			return nextWeekday(today, targetDay), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	parsed, err := time.Parse(DateLayout, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	result := Midnight(parsed.Year(), parsed.Month(), parsed.Day(), relativeTo.Location())

	if !allowPast && result.Before(today) {
		return time.Time{}, ErrDateInPast
	}

	return result, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return AddDays(today, daysUntil)
}
