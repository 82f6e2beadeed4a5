package sleep

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/task"
)

func testCalendar() dateutil.Calendar {
	return dateutil.Calendar{
		FirstWeekday: time.Monday,
		Weekend:      []time.Weekday{time.Saturday, time.Sunday},
		Location:     time.UTC,
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    Period
		wantErr bool
	}{
		{input: "07:00-23:00", want: Period{Wake: 420, Sleep: 1380}},
		{input: " 09:30 - 00:30 ", want: Period{Wake: 570, Sleep: 30}},
		{input: "07:00", wantErr: true},
		{input: "7:00-23:00", wantErr: true},
		{input: "07:00-24:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Fatalf("got error %v, want ErrInvalidPeriod", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPeriod_Validate(t *testing.T) {
	valid := []Period{{0, 0}, {420, 1380}, {1439, 1439}, {600, 60}}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("%+v: unexpected error %v", p, err)
		}
	}
	invalid := []Period{{-1, 0}, {0, 1440}, {2000, 100}}
	for _, p := range invalid {
		if err := p.Validate(); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("%+v: got %v, want ErrInvalidPeriod", p, err)
		}
	}
}

func TestPeriod_Overnight(t *testing.T) {
	if (Period{Wake: 420, Sleep: 1380}).Overnight() {
		t.Error("07:00-23:00 is not overnight")
	}
	if !(Period{Wake: 540, Sleep: 60}).Overnight() {
		t.Error("09:00-01:00 is overnight")
	}
}

func TestResolve(t *testing.T) {
	cal := testCalendar()
	s := Default()
	holiday := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC) // Thursday
	party := time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC)   // Saturday
	s.Special[cal.Key(holiday)] = Period{Wake: 600, Sleep: 1400}
	s.Special[cal.Key(party)] = Period{Wake: 660, Sleep: 120}

	tests := []struct {
		name string
		date time.Time
		want Period
	}{
		{"weekday", time.Date(2025, 12, 23, 15, 0, 0, 0, time.UTC), s.Weekday},
		{"weekend", time.Date(2025, 12, 28, 8, 0, 0, 0, time.UTC), s.Weekend},
		{"override on weekday", holiday.Add(13 * time.Hour), Period{Wake: 600, Sleep: 1400}},
		{"override on weekend", party, Period{Wake: 660, Sleep: 120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.date, s, cal); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_CustomWeekend(t *testing.T) {
	cal := testCalendar()
	cal.Weekend = []time.Weekday{time.Friday, time.Saturday}
	s := Default()

	friday := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	if got := Resolve(friday, s, cal); got != s.Weekend {
		t.Errorf("friday: got %+v, want weekend", got)
	}
	if got := Resolve(sunday, s, cal); got != s.Weekday {
		t.Errorf("sunday: got %+v, want weekday", got)
	}
}

func TestSynthesize(t *testing.T) {
	date := time.Date(2025, 3, 4, 16, 20, 0, 0, time.UTC)
	blocks := Synthesize(date, Period{Wake: 420, Sleep: 1380}, time.UTC)

	morning, evening := blocks[0], blocks[1]
	for _, b := range blocks {
		if b.Title != Title || b.Origin != task.OriginSleep || !b.IsSleep() {
			t.Errorf("unexpected block %+v", b)
		}
	}

	if want := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC); !morning.Start.Equal(want) {
		t.Errorf("morning start = %v, want %v", morning.Start, want)
	}
	if want := time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC); !morning.End.Equal(want) {
		t.Errorf("morning end = %v, want %v", morning.End, want)
	}
	if want := time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC); !evening.Start.Equal(want) {
		t.Errorf("evening start = %v, want %v", evening.Start, want)
	}
	if want := time.Date(2025, 3, 4, 23, 59, 59, 0, time.UTC); !evening.End.Equal(want) {
		t.Errorf("evening end = %v, want %v", evening.End, want)
	}
}

func TestSynthesize_DeterministicIDs(t *testing.T) {
	p := Period{Wake: 420, Sleep: 1380}
	d := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	a := Synthesize(d, p, time.UTC)
	b := Synthesize(d.Add(5*time.Hour), p, time.UTC)
	if a[0].ID != b[0].ID || a[1].ID != b[1].ID {
		t.Error("same day must yield the same IDs")
	}
	if a[0].ID == a[1].ID {
		t.Error("morning and evening blocks must have distinct IDs")
	}
	next := Synthesize(d.AddDate(0, 0, 1), p, time.UTC)
	if next[0].ID == a[0].ID {
		t.Error("different days must yield different IDs")
	}
}

func TestSynthesize_Overnight(t *testing.T) {
	d := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	blocks := Synthesize(d, Period{Wake: 600, Sleep: 60}, time.UTC)

	// Taken literally: the evening block starts at 01:00 of the same day.
	if got := blocks[1].StartClock(); got != "01:00" {
		t.Errorf("evening start = %s, want 01:00", got)
	}
	if !blocks[0].HasInterval() || !blocks[1].HasInterval() {
		t.Error("both blocks should still be valid intervals")
	}
}

func TestSynthesize_UsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 20:00 UTC on Mar 4 is already Mar 5 in Tokyo.
	d := time.Date(2025, 3, 4, 20, 0, 0, 0, time.UTC)
	blocks := Synthesize(d, Period{Wake: 420, Sleep: 1380}, tokyo)
	if key := dateutil.KeyOf(*blocks[0].Start); key != "2025-03-05" {
		t.Errorf("got day %s, want 2025-03-05", key)
	}
}

func TestSynthesize_MidnightSkipped(t *testing.T) {
	santiago, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Santiago clocks go from 00:00 straight to 01:00 on 2026-09-06.
	d := time.Date(2026, 9, 6, 12, 0, 0, 0, santiago)
	p := Period{Wake: 420, Sleep: 1380}
	blocks := Synthesize(d, p, santiago)

	morning := blocks[0]
	if key := dateutil.KeyOf(*morning.Start); key != "2026-09-06" {
		t.Errorf("morning block on %s, want 2026-09-06", key)
	}
	if got := morning.StartClock(); got != "01:00" {
		t.Errorf("morning block starts at %s, want 01:00", got)
	}
	if got := morning.EndClock(); got != "07:00" {
		t.Errorf("morning block ends at %s, want 07:00", got)
	}
	if prev := Synthesize(d.AddDate(0, 0, -1), p, santiago); prev[0].ID == morning.ID {
		t.Error("transition day shares block IDs with the day before")
	}
}

func TestForDates(t *testing.T) {
	cal := testCalendar()
	s := Default()
	dates := []time.Time{
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), // Friday
		time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), // Saturday
	}
	blocks := ForDates(dates, s, cal)
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(blocks))
	}
	if got := blocks[0].EndClock(); got != "07:00" {
		t.Errorf("friday wake = %s, want 07:00", got)
	}
	if got := blocks[2].EndClock(); got != "09:00" {
		t.Errorf("saturday wake = %s, want 09:00", got)
	}
	if got := blocks[3].StartClock(); got != "23:30" {
		t.Errorf("saturday bedtime = %s, want 23:30", got)
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("default schedule invalid: %v", err)
	}
	if s.Weekday.String() != "07:00-23:00" || s.Weekend.String() != "09:00-23:30" {
		t.Errorf("got weekday %s weekend %s", s.Weekday, s.Weekend)
	}
}
