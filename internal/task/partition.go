package task

import (
	"cmp"
	"slices"

	"github.com/javiermolinar/slate/internal/dateutil"
)

// Partition splits tasks into dated tasks grouped by the calendar day of
// their start, and undated backlog tasks. Tasks within a day are ordered by
// start, then priority (high first), then title. Backlog keeps input order.
func Partition(tasks []*Task, cal dateutil.Calendar) (byDate map[dateutil.DateKey][]*Task, backlog []*Task) {
	byDate = make(map[dateutil.DateKey][]*Task)
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if !t.IsDated() {
			backlog = append(backlog, t)
			continue
		}
		key := cal.Key(*t.Start)
		byDate[key] = append(byDate[key], t)
	}
	for _, day := range byDate {
		SortByStart(day)
	}
	return byDate, backlog
}

// SortByStart orders dated tasks by start, then priority (high first), then title.
func SortByStart(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		if a.Start != nil && b.Start != nil {
			if c := a.Start.Compare(*b.Start); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
}

// UserTasks filters out synthesized tasks.
func UserTasks(tasks []*Task) []*Task {
	var result []*Task
	for _, t := range tasks {
		if t.Origin == OriginUser {
			result = append(result, t)
		}
	}
	return result
}
