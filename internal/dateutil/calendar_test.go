package dateutil

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC) // 05:00 next day in Tokyo

	if got := KeyOf(instant); got != "2025-06-30" {
		t.Errorf("KeyOf(utc) = %q, want 2025-06-30", got)
	}

	cal := Calendar{FirstWeekday: time.Monday, Location: tokyo}
	if got := cal.Key(instant); got != "2025-07-01" {
		t.Errorf("cal.Key = %q, want 2025-07-01", got)
	}

	back := DateKey("2025-07-01").Time(tokyo)
	if want := time.Date(2025, 7, 1, 0, 0, 0, 0, tokyo); !back.Equal(want) {
		t.Errorf("Time = %v, want %v", back, want)
	}

	if _, err := ParseKey("2025-7-1"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("ParseKey accepted malformed key: %v", err)
	}
}

func TestCalendar_Validate(t *testing.T) {
	if err := DefaultCalendar().Validate(); err != nil {
		t.Fatalf("default calendar invalid: %v", err)
	}
	bad := Calendar{FirstWeekday: time.Weekday(9)}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidCalendar) {
		t.Errorf("got %v, want ErrInvalidCalendar", err)
	}
	badWeekend := Calendar{FirstWeekday: time.Sunday, Weekend: []time.Weekday{-1}}
	if err := badWeekend.Validate(); !errors.Is(err, ErrInvalidCalendar) {
		t.Errorf("got %v, want ErrInvalidCalendar", err)
	}
}

func TestCalendar_IsWeekend(t *testing.T) {
	cal := Calendar{
		FirstWeekday: time.Sunday,
		Weekend:      []time.Weekday{time.Friday, time.Saturday},
		Location:     time.UTC,
	}
	tests := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC), false},  // Thursday
		{time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), true},  // Friday
		{time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC), true},  // Saturday
		{time.Date(2025, 1, 12, 12, 0, 0, 0, time.UTC), false}, // Sunday
	}
	for _, tc := range tests {
		t.Run(tc.date.Weekday().String(), func(t *testing.T) {
			if got := cal.IsWeekend(tc.date); got != tc.want {
				t.Errorf("IsWeekend(%s) = %v, want %v", tc.date.Weekday(), got, tc.want)
			}
		})
	}
}

func TestCalendar_YearInterval(t *testing.T) {
	cal := Calendar{FirstWeekday: time.Monday, Location: time.UTC}
	first, last := cal.YearInterval(time.Date(2024, 7, 4, 15, 0, 0, 0, time.UTC))
	if !first.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first = %v", first)
	}
	if !last.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last = %v", last)
	}
}

func TestCalendar_WeekdayShortNames(t *testing.T) {
	cal := Calendar{FirstWeekday: time.Monday}
	want := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if got := cal.WeekdayShortNames(); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	cal.FirstWeekday = time.Sunday
	if got := cal.WeekdayShortNames(); got[0] != "Sun" || got[6] != "Sat" {
		t.Errorf("sunday-first got %v", got)
	}
}
