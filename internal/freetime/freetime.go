// Package freetime derives the uncovered stretches of a day from its tasks.
package freetime

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/javiermolinar/slate/internal/task"
)

const (
	dayStart = "00:00"
	dayEnd   = "23:59"
)

// Interval is a free stretch of a day in "HH:MM".
type Interval struct {
	Start string
	End   string
}

// Minutes returns the interval length.
func (i Interval) Minutes() int {
	return task.TimeToMinutes(i.End) - task.TimeToMinutes(i.Start)
}

// String formats the interval as "HH:MM-HH:MM".
func (i Interval) String() string {
	return i.Start + "-" + i.End
}

type span struct {
	start, end string
}

// Calculate returns the free intervals of a day in chronological order.
// Only tasks with a start strictly before their end count, and a task that
// ends on a later day covers the rest of its start day. ok is false when no
// task counts or when the tasks cover the whole day.
func Calculate(tasks []*task.Task) (intervals []Interval, ok bool) {
	spans := make([]span, 0, len(tasks))
	for _, t := range tasks {
		if t == nil || !t.HasInterval() {
			continue
		}
		spans = append(spans, span{start: t.StartClock(), end: t.DayEndClock()})
	}
	if len(spans) == 0 {
		return nil, false
	}
	slices.SortStableFunc(spans, func(a, b span) int {
		return cmp.Compare(a.start, b.start)
	})

	// marker is the time the day is covered through; it never moves back.
	marker := dayStart
	for _, s := range spans {
		if s.start > marker {
			intervals = append(intervals, Interval{Start: marker, End: s.start})
		}
		if s.end > marker {
			marker = s.end
		}
	}
	if marker < dayEnd {
		intervals = append(intervals, Interval{Start: marker, End: dayEnd})
	}

	if len(intervals) == 0 {
		return nil, false
	}
	return intervals, true
}

// Total returns the free minutes across intervals.
func Total(intervals []Interval) int {
	var total int
	for _, i := range intervals {
		total += i.Minutes()
	}
	return total
}

// Format renders one interval per line, as copied to the clipboard.
func Format(intervals []Interval) string {
	var b strings.Builder
	for _, i := range intervals {
		fmt.Fprintln(&b, i.String())
	}
	return b.String()
}
