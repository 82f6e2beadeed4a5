package freetime

import (
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/slate/internal/task"
)

func timed(start, end string) *task.Task {
	day := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	t := &task.Task{Title: start + "-" + end}
	if start != "" {
		s := task.At(day, task.TimeToMinutes(start))
		t.Start = &s
	}
	if end != "" {
		e := task.At(day, task.TimeToMinutes(end))
		t.End = &e
	}
	return t
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		tasks  []*task.Task
		want   []Interval
		wantOK bool
	}{
		{
			name:   "no tasks",
			tasks:  nil,
			wantOK: false,
		},
		{
			name:   "no valid intervals",
			tasks:  []*task.Task{timed("09:00", ""), timed("", ""), timed("10:00", "10:00"), timed("12:00", "11:00")},
			wantOK: false,
		},
		{
			name:   "whole day covered",
			tasks:  []*task.Task{timed("00:00", "23:59")},
			wantOK: false,
		},
		{
			name:   "single task",
			tasks:  []*task.Task{timed("09:00", "10:00")},
			want:   []Interval{{"00:00", "09:00"}, {"10:00", "23:59"}},
			wantOK: true,
		},
		{
			name:   "overlapping tasks",
			tasks:  []*task.Task{timed("09:30", "11:00"), timed("09:00", "10:00")},
			want:   []Interval{{"00:00", "09:00"}, {"11:00", "23:59"}},
			wantOK: true,
		},
		{
			name:   "contained task does not move marker back",
			tasks:  []*task.Task{timed("08:00", "12:00"), timed("09:00", "10:00"), timed("13:00", "14:00")},
			want:   []Interval{{"00:00", "08:00"}, {"12:00", "13:00"}, {"14:00", "23:59"}},
			wantOK: true,
		},
		{
			name:   "contiguous tasks leave no zero-length gap",
			tasks:  []*task.Task{timed("00:00", "09:00"), timed("09:00", "17:00")},
			want:   []Interval{{"17:00", "23:59"}},
			wantOK: true,
		},
		{
			name:   "task starting at midnight",
			tasks:  []*task.Task{timed("00:00", "07:00")},
			want:   []Interval{{"07:00", "23:59"}},
			wantOK: true,
		},
		{
			name:   "invalid tasks are ignored",
			tasks:  []*task.Task{timed("15:00", "14:00"), timed("09:00", "10:00"), nil},
			want:   []Interval{{"00:00", "09:00"}, {"10:00", "23:59"}},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Calculate(tt.tasks)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (got %v)", ok, tt.wantOK, got)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculate_WithSleepBlocks(t *testing.T) {
	day := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	wake := task.At(day, 7*60)
	bed := task.At(day, 23*60)
	eod := time.Date(2025, 4, 2, 23, 59, 59, 0, time.UTC)

	tasks := []*task.Task{
		{Title: "sleep", Start: &day, End: &wake, Origin: task.OriginSleep},
		{Title: "sleep", Start: &bed, End: &eod, Origin: task.OriginSleep},
		timed("06:30", "08:00"),
	}
	got, ok := Calculate(tasks)
	if !ok {
		t.Fatal("expected free time")
	}
	want := []Interval{{"08:00", "23:00"}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCalculate_TaskEndingNextDay(t *testing.T) {
	start := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC)
	late := &task.Task{Title: "night shift", Start: &start, End: &end}

	got, ok := Calculate([]*task.Task{late, timed("09:00", "10:00")})
	if !ok {
		t.Fatal("expected free time")
	}
	want := []Interval{{"00:00", "09:00"}, {"10:00", "22:00"}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if total := Total(got); total != 540+720 {
		t.Errorf("Total = %d, want %d", total, 540+720)
	}

	if _, ok := Calculate([]*task.Task{late, timed("00:00", "22:00")}); ok {
		t.Error("day covered up to a task running past midnight should have no free time")
	}
}

func TestCalculate_Properties(t *testing.T) {
	tasks := []*task.Task{
		timed("22:00", "23:00"), timed("01:00", "02:30"), timed("02:00", "04:00"),
		timed("12:00", "12:30"), timed("12:30", "13:00"), timed("05:00", "05:15"),
	}
	got, ok := Calculate(tasks)
	if !ok {
		t.Fatal("expected free time")
	}
	for i, iv := range got {
		if iv.Start >= iv.End {
			t.Errorf("interval %d is empty or inverted: %v", i, iv)
		}
		if i > 0 && got[i-1].End > iv.Start {
			t.Errorf("interval %d overlaps previous: %v", i, iv)
		}
		for _, tk := range tasks {
			if task.TimesOverlap(iv.Start, iv.End, tk.StartClock(), tk.EndClock()) {
				t.Errorf("interval %v overlaps task %s", iv, tk.Title)
			}
		}
	}
}

func TestTotalAndFormat(t *testing.T) {
	intervals := []Interval{{"00:00", "09:00"}, {"10:00", "23:59"}}
	if got := Total(intervals); got != 540+839 {
		t.Errorf("Total = %d, want %d", got, 540+839)
	}
	want := "00:00-09:00\n10:00-23:59\n"
	if got := Format(intervals); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
	if Format(nil) != "" {
		t.Error("Format(nil) should be empty")
	}
}
