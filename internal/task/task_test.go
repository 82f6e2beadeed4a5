package task

import (
	"errors"
	"testing"
	"time"
)

func at(h, m int) *time.Time {
	t := time.Date(2025, 1, 15, h, m, 0, 0, time.UTC)
	return &t
}

func TestNew(t *testing.T) {
	t.Run("valid task", func(t *testing.T) {
		tsk, err := New("  Write tests ",
			WithDescription("unit + integration"),
			WithSchedule(at(9, 0), at(11, 0)),
			WithPriority(PriorityHigh),
			WithTravelTime(15*time.Minute),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tsk.Title != "Write tests" {
			t.Errorf("got title %q", tsk.Title)
		}
		if tsk.ID == "" {
			t.Error("expected ID to be set")
		}
		if tsk.Origin != OriginUser {
			t.Errorf("got origin %v, want user", tsk.Origin)
		}
		if tsk.Priority != PriorityHigh {
			t.Errorf("got priority %v", tsk.Priority)
		}
		if tsk.CreatedAt.IsZero() || tsk.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}
		if tsk.Duration() != 2*time.Hour {
			t.Errorf("got duration %v", tsk.Duration())
		}
	})

	t.Run("backlog task defaults", func(t *testing.T) {
		tsk, err := New("Someday")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tsk.IsDated() {
			t.Error("expected undated task")
		}
		if tsk.Priority != PriorityMedium {
			t.Errorf("got priority %v, want medium", tsk.Priority)
		}
	})

	t.Run("zero-length task is allowed", func(t *testing.T) {
		tsk, err := New("Reminder", WithSchedule(at(9, 0), at(9, 0)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tsk.HasInterval() {
			t.Error("zero-length task must not have an interval")
		}
	})
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		opts    []Option
		wantErr error
	}{
		{name: "empty title", title: "   ", wantErr: ErrEmptyTitle},
		{name: "end before start", title: "x", opts: []Option{WithSchedule(at(11, 0), at(9, 0))}, wantErr: ErrEndBeforeStart},
		{name: "end without start", title: "x", opts: []Option{WithSchedule(nil, at(9, 0))}, wantErr: ErrEndWithoutStart},
		{name: "negative travel", title: "x", opts: []Option{WithTravelTime(-time.Minute)}, wantErr: ErrNegativeTravel},
		{name: "invalid priority", title: "x", opts: []Option{WithPriority(Priority(7))}, wantErr: ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.title, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"", PriorityMedium, false},
		{"HIGH", PriorityHigh, false},
		{"h", PriorityHigh, false},
		{"urgent", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if PriorityLow >= PriorityMedium || PriorityMedium >= PriorityHigh {
		t.Error("priorities must be ordered low < medium < high")
	}
}

func TestTask_LeaveAt(t *testing.T) {
	tsk := &Task{Title: "Dentist", Start: at(10, 0), TravelTime: 25 * time.Minute}
	got, ok := tsk.LeaveAt()
	if !ok {
		t.Fatal("expected ok")
	}
	if want := *at(9, 35); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, ok := (&Task{Title: "Backlog"}).LeaveAt(); ok {
		t.Error("undated task must not have a leave time")
	}
}

func TestTask_Clocks(t *testing.T) {
	tsk := &Task{Start: at(7, 5), End: at(8, 30)}
	if tsk.StartClock() != "07:05" || tsk.EndClock() != "08:30" {
		t.Errorf("got %s-%s", tsk.StartClock(), tsk.EndClock())
	}
	empty := &Task{}
	if empty.StartClock() != "" || empty.EndClock() != "" {
		t.Error("expected empty clocks for undated task")
	}
}

func TestTask_DayEndClock(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	on := func(d, h int) *time.Time {
		v := day.Add(time.Duration(d*24+h) * time.Hour)
		return &v
	}
	tests := []struct {
		name     string
		task     *Task
		laterDay bool
		want     string
	}{
		{"same day", &Task{Start: on(0, 9), End: on(0, 10)}, false, "10:00"},
		{"ends next morning", &Task{Start: on(0, 22), End: on(1, 1)}, true, "23:59"},
		{"ends at next midnight", &Task{Start: on(0, 22), End: on(1, 0)}, true, "23:59"},
		{"no end", &Task{Start: on(0, 9)}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.EndsOnLaterDay(); got != tt.laterDay {
				t.Errorf("EndsOnLaterDay() = %v, want %v", got, tt.laterDay)
			}
			if got := tt.task.DayEndClock(); got != tt.want {
				t.Errorf("DayEndClock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTask_IsPast(t *testing.T) {
	now := *at(12, 0)
	tests := []struct {
		name string
		task *Task
		want bool
	}{
		{"ended before now", &Task{Start: at(9, 0), End: at(10, 0)}, true},
		{"ends after now", &Task{Start: at(11, 0), End: at(13, 0)}, false},
		{"point task before now", &Task{Start: at(8, 0)}, true},
		{"undated", &Task{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsPast(now); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTask_Clone(t *testing.T) {
	orig := &Task{Title: "a", Start: at(9, 0), End: at(10, 0)}
	c := orig.Clone()
	*c.Start = c.Start.Add(time.Hour)
	if !orig.Start.Equal(*at(9, 0)) {
		t.Error("clone shares start pointer with original")
	}
}
