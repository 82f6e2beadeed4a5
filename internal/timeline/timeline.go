// Package timeline positions a day's tasks on a minute-scale grid.
package timeline

import (
	"slices"

	"github.com/javiermolinar/slate/internal/task"
)

// Bucket is a task's vertical position on the day, in minutes.
type Bucket struct {
	Task   *task.Task
	Offset int
	Height int
}

// End returns the minute the bucket ends at.
func (b Bucket) End() int {
	return b.Offset + b.Height
}

// NewBucket computes the offset and height of t. Tasks missing a start or
// an end get a zero bucket. Tasks ending on a later day stop at 23:59.
func NewBucket(t *task.Task) Bucket {
	if t.Start == nil || t.End == nil {
		return Bucket{Task: t}
	}
	start := task.MinutesSinceMidnight(*t.Start)
	end := task.MinutesSinceMidnight(*t.End)
	if t.EndsOnLaterDay() {
		end = task.MinutesPerDay - 1
	}
	return Bucket{
		Task:   t,
		Offset: start,
		Height: end - start,
	}
}

// Bucketize groups the day's tasks by exact start offset. Tasks that start
// one minute apart land in different groups even when they overlap.
func Bucketize(tasks []*task.Task) map[int][]Bucket {
	groups := make(map[int][]Bucket)
	for _, t := range tasks {
		if t == nil {
			continue
		}
		b := NewBucket(t)
		groups[b.Offset] = append(groups[b.Offset], b)
	}
	return groups
}

// Row is one offset group, rendered side by side.
type Row struct {
	Offset  int
	Buckets []Bucket
}

// Height returns the tallest bucket of the row.
func (r Row) Height() int {
	var h int
	for _, b := range r.Buckets {
		h = max(h, b.Height)
	}
	return h
}

// Rows orders the groups by offset. Buckets keep their input order.
func Rows(groups map[int][]Bucket) []Row {
	offsets := make([]int, 0, len(groups))
	for off := range groups {
		offsets = append(offsets, off)
	}
	slices.Sort(offsets)

	rows := make([]Row, 0, len(offsets))
	for _, off := range offsets {
		rows = append(rows, Row{Offset: off, Buckets: groups[off]})
	}
	return rows
}
