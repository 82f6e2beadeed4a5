// Package scheduler places tasks of a given length into a day's free time.
package scheduler

import (
	"time"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/freetime"
	"github.com/javiermolinar/slate/internal/task"
)

// Scheduler finds slots inside a working-hours window.
type Scheduler struct {
	dayStart string // "HH:MM"
	dayEnd   string // "HH:MM"
}

// New creates a new Scheduler for the given working hours.
func New(dayStart, dayEnd string) *Scheduler {
	return &Scheduler{
		dayStart: dayStart,
		dayEnd:   dayEnd,
	}
}

// Slot is a proposed placement.
type Slot struct {
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// Minutes returns the slot length.
func (s Slot) Minutes() int {
	return task.TimeToMinutes(s.End) - task.TimeToMinutes(s.Start)
}

// FindSlot returns the first placement of durationMinutes inside a free
// interval, clipped to working hours and starting no earlier than notBefore.
// An empty notBefore means no lower bound.
func (s *Scheduler) FindSlot(intervals []freetime.Interval, durationMinutes int, notBefore string) (Slot, bool) {
	if durationMinutes <= 0 {
		return Slot{}, false
	}
	lower := task.TimeToMinutes(s.dayStart)
	if notBefore != "" {
		lower = max(lower, task.TimeToMinutes(notBefore))
	}
	upper := task.TimeToMinutes(s.dayEnd)

	for _, iv := range intervals {
		start := max(task.TimeToMinutes(iv.Start), lower)
		end := min(task.TimeToMinutes(iv.End), upper)
		if start+durationMinutes <= end {
			return Slot{
				Start: task.MinutesToTime(start),
				End:   task.MinutesToTime(start + durationMinutes),
			}, true
		}
	}
	return Slot{}, false
}

// FindSlotInDay runs FindSlot against the free time left by tasks. A day
// without any timed task is free from midnight to 23:59.
func (s *Scheduler) FindSlotInDay(tasks []*task.Task, durationMinutes int, notBefore string) (Slot, bool) {
	intervals, ok := freetime.Calculate(tasks)
	if !ok {
		if hasTimedTask(tasks) {
			return Slot{}, false
		}
		intervals = []freetime.Interval{{Start: "00:00", End: "23:59"}}
	}
	return s.FindSlot(intervals, durationMinutes, notBefore)
}

func hasTimedTask(tasks []*task.Task) bool {
	for _, t := range tasks {
		if t != nil && t.HasInterval() {
			return true
		}
	}
	return false
}

// EarliestStart returns the first time a new task may start on day.
// Today it is now rounded up to the next 15 minutes; later days start at
// midnight. ok is false for past days and when today has no time left.
func (s *Scheduler) EarliestStart(day, now time.Time) (string, bool) {
	today := dateutil.TruncateToDay(now)
	day = dateutil.TruncateToDay(day.In(now.Location()))
	switch {
	case day.Before(today):
		return "", false
	case day.After(today):
		return "", true
	}

	next := roundUpTo15Min(now)
	if !dateutil.SameDay(next, now) {
		return "", false
	}
	return next.Format(task.ClockLayout), true
}

// ValidateSlot checks if a time slot lies within working hours.
// Returns an error message if invalid, empty string if valid.
func (s *Scheduler) ValidateSlot(start, end string) string {
	startMin := task.TimeToMinutes(start)
	endMin := task.TimeToMinutes(end)
	dayStartMin := task.TimeToMinutes(s.dayStart)
	dayEndMin := task.TimeToMinutes(s.dayEnd)

	if startMin >= endMin {
		return "start time must be before end time"
	}
	if startMin < dayStartMin {
		return "start time is before workday start"
	}
	if endMin > dayEndMin {
		return "end time is after workday end"
	}

	return ""
}

// DayStart returns the configured day start time.
func (s *Scheduler) DayStart() string {
	return s.dayStart
}

// DayEnd returns the configured day end time.
func (s *Scheduler) DayEnd() string {
	return s.dayEnd
}

// roundUpTo15Min rounds a time up to the next 15-minute boundary.
func roundUpTo15Min(t time.Time) time.Time {
	minute := t.Minute()
	remainder := minute % 15
	if remainder == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t
	}
	return t.Add(time.Duration(15-remainder) * time.Minute).Truncate(time.Minute)
}
