package task

import (
	"fmt"
	"time"

	"github.com/javiermolinar/slate/internal/dateutil"
)

// ClockLayout is the zero-padded 24-hour layout used for times of day.
const ClockLayout = "15:04"

// MinutesPerDay is the number of minutes in a calendar day.
const MinutesPerDay = 24 * 60

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MinutesSinceMidnight returns the wall-clock minute of the day of t.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseClock validates an "HH:MM" string and returns its minute of day.
func ParseClock(s string) (int, error) {
	if len(s) != 5 {
		return 0, ErrInvalidTimeFormat
	}
	if _, err := time.Parse(ClockLayout, s); err != nil {
		return 0, ErrInvalidTimeFormat
	}
	return TimeToMinutes(s), nil
}

// At returns the instant at minute-of-day m on date's calendar day.
func At(date time.Time, m int) time.Time {
	t := time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, date.Location())
	if m >= 0 && m < MinutesPerDay && !dateutil.SameDay(t, date) {
		// The clock skipped this time at the start of the day.
		return dateutil.TruncateToDay(date)
	}
	return t
}

// OverlapMinutes calculates the overlapping minutes between two time ranges.
// All times are in "HH:MM" format.
// Returns 0 if there is no overlap.
func OverlapMinutes(start1, end1, start2, end2 string) int {
	overlapStart := max(TimeToMinutes(start1), TimeToMinutes(start2))
	overlapEnd := min(TimeToMinutes(end1), TimeToMinutes(end2))

	if overlapEnd <= overlapStart {
		return 0
	}
	return overlapEnd - overlapStart
}

// TimesOverlap returns true if two time ranges overlap.
// Two time ranges overlap if: start1 < end2 AND start2 < end1
func TimesOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}
