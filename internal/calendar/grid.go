// Package calendar builds padded day, week, month and year grids.
package calendar

import (
	"cmp"
	"slices"
	"time"

	"github.com/javiermolinar/slate/internal/dateutil"
)

// DaysPerWeek is the grid row width.
const DaysPerWeek = 7

// YearDates returns every date from January 1st to December 31st of ref's
// year in the calendar location, one day apart, both ends included.
func YearDates(ref time.Time, cal dateutil.Calendar) []time.Time {
	first, last := cal.YearInterval(ref)
	dates := make([]time.Time, 0, 366)
	for d := first; !d.After(last); d = dateutil.AddDays(d, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Pad surrounds dates with zero-time padding slots so the first date lands
// in its weekday column and the total length is a multiple of size.
func Pad(dates []time.Time, size int, firstWeekday time.Weekday) []time.Time {
	if len(dates) == 0 || size <= 0 {
		return slices.Clone(dates)
	}

	leading := (int(dates[0].Weekday()) - int(firstWeekday) + 7) % 7
	padded := make([]time.Time, leading, leading+len(dates)+size)
	padded = append(padded, dates...)

	trailing := (size - len(padded)%size) % size
	return append(padded, make([]time.Time, trailing)...)
}

// Chunk splits items into consecutive groups of size. The last group may
// be shorter.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		chunks = append(chunks, items[i:min(i+size, len(items))])
	}
	return chunks
}

type monthKey struct {
	year  int
	month time.Month
}

// GroupByMonth groups dates by calendar year and month, in ascending order.
// Dates keep their relative order within a group.
func GroupByMonth(dates []time.Time) [][]time.Time {
	groups := make(map[monthKey][]time.Time)
	for _, d := range dates {
		k := monthKey{d.Year(), d.Month()}
		groups[k] = append(groups[k], d)
	}

	keys := make([]monthKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b monthKey) int {
		if c := cmp.Compare(a.year, b.year); c != 0 {
			return c
		}
		return cmp.Compare(a.month, b.month)
	})

	out := make([][]time.Time, 0, len(keys))
	for _, k := range keys {
		out = append(out, groups[k])
	}
	return out
}
