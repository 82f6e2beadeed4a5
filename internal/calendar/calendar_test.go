package calendar

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/task"
)

func utcCalendar(first time.Weekday) dateutil.Calendar {
	return dateutil.Calendar{
		FirstWeekday: first,
		Weekend:      []time.Weekday{time.Saturday, time.Sunday},
		Location:     time.UTC,
	}
}

func days(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestYearDates(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2024, 366},
		{2025, 365},
	}
	for _, tt := range tests {
		ref := time.Date(tt.year, 6, 15, 12, 0, 0, 0, time.UTC)
		dates := YearDates(ref, utcCalendar(time.Monday))
		if len(dates) != tt.want {
			t.Fatalf("%d: got %d dates, want %d", tt.year, len(dates), tt.want)
		}
		if want := time.Date(tt.year, 1, 1, 0, 0, 0, 0, time.UTC); !dates[0].Equal(want) {
			t.Errorf("%d: first date %v, want %v", tt.year, dates[0], want)
		}
		if last := dates[len(dates)-1]; last.Month() != time.December || last.Day() != 31 {
			t.Errorf("%d: last date %v", tt.year, last)
		}
	}
}

func TestYearDates_AcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cal := utcCalendar(time.Monday)
	cal.Location = berlin

	dates := YearDates(time.Date(2025, 1, 1, 0, 0, 0, 0, berlin), cal)
	if len(dates) != 365 {
		t.Fatalf("got %d dates, want 365", len(dates))
	}
	for i, d := range dates {
		if d.Hour() != 0 || d.Minute() != 0 {
			t.Fatalf("date %d (%v) is not midnight", i, d)
		}
	}
}

func TestYearDates_MidnightClockChange(t *testing.T) {
	// These zones start daylight saving at 00:00, so that midnight never
	// happens on the transition day.
	tests := []struct {
		zone string
		year int
		want int
		jump dateutil.DateKey
	}{
		{"America/Santiago", 2026, 365, "2026-09-06"},
		{"Asia/Beirut", 2024, 366, "2024-03-31"},
		{"Asia/Beirut", 2026, 365, "2026-03-29"},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			if err != nil {
				t.Skipf("tzdata unavailable: %v", err)
			}
			cal := utcCalendar(time.Monday)
			cal.Location = loc

			dates := YearDates(time.Date(tt.year, 6, 1, 12, 0, 0, 0, loc), cal)
			if len(dates) != tt.want {
				t.Fatalf("got %d dates, want %d", len(dates), tt.want)
			}
			seen := make(map[dateutil.DateKey]bool, len(dates))
			for i, d := range dates {
				key := cal.Key(d)
				if seen[key] {
					t.Fatalf("date %d: %s listed twice", i, key)
				}
				seen[key] = true
				if d.Year() != tt.year {
					t.Fatalf("date %d (%v) outside %d", i, d, tt.year)
				}
			}
			if !seen[tt.jump] {
				t.Errorf("transition day %s missing", tt.jump)
			}

			grid, err := BuildYearGrid(dates[0], nil, cal)
			if err != nil {
				t.Fatal(err)
			}
			last := dateutil.DateKey(fmt.Sprintf("%d-12-31", tt.year))
			if _, ok := grid.Day(last); !ok {
				t.Errorf("grid has no cell for %s", last)
			}
			if cell, ok := grid.Day(tt.jump); !ok || cell.Date.Hour() != 1 {
				t.Errorf("transition day cell = %v, %v; want it to start at 01:00", cell.Date, ok)
			}
		})
	}
}

func TestPad(t *testing.T) {
	// 2025-01-01 is a Wednesday.
	jan := days(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 31)

	tests := []struct {
		name         string
		first        time.Weekday
		wantLeading  int
		wantTrailing int
	}{
		{"monday first", time.Monday, 2, 2},
		{"sunday first", time.Sunday, 3, 1},
		{"wednesday first", time.Wednesday, 0, 4},
		{"thursday first", time.Thursday, 6, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			padded := Pad(jan, DaysPerWeek, tt.first)
			if len(padded)%DaysPerWeek != 0 {
				t.Fatalf("len %d is not a multiple of 7", len(padded))
			}
			for i := range tt.wantLeading {
				if !padded[i].IsZero() {
					t.Errorf("slot %d should be padding", i)
				}
			}
			if !padded[tt.wantLeading].Equal(jan[0]) {
				t.Errorf("first date not at index %d", tt.wantLeading)
			}
			if trailing := len(padded) - tt.wantLeading - len(jan); trailing != tt.wantTrailing {
				t.Errorf("got %d trailing slots, want %d", trailing, tt.wantTrailing)
			}
		})
	}
}

func TestPad_Properties(t *testing.T) {
	start := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	for n := 1; n <= 60; n++ {
		input := days(start, n)
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			padded := Pad(input, DaysPerWeek, wd)
			if len(padded)%DaysPerWeek != 0 {
				t.Fatalf("n=%d first=%v: len %d not a multiple of 7", n, wd, len(padded))
			}
			var got []time.Time
			for _, d := range padded {
				if !d.IsZero() {
					got = append(got, d)
				}
			}
			if len(got) != n {
				t.Fatalf("n=%d first=%v: got %d dates", n, wd, len(got))
			}
			for i := range got {
				if !got[i].Equal(input[i]) {
					t.Fatalf("n=%d first=%v: order changed at %d", n, wd, i)
				}
			}
			// The first date sits in its weekday column.
			lead := 0
			for padded[lead].IsZero() {
				lead++
			}
			if time.Weekday((int(wd)+lead)%7) != input[0].Weekday() {
				t.Fatalf("n=%d first=%v: first date in column %d", n, wd, lead)
			}
		}
	}
}

func TestPad_Empty(t *testing.T) {
	if got := Pad(nil, DaysPerWeek, time.Monday); len(got) != 0 {
		t.Errorf("got %d slots for empty input", len(got))
	}
}

func TestChunk(t *testing.T) {
	got := Chunk([]int{1, 2, 3, 4, 5, 6, 7, 8}, 3)
	if len(got) != 3 || len(got[2]) != 2 || got[1][0] != 4 {
		t.Errorf("got %v", got)
	}
	if Chunk([]int{1}, 0) != nil {
		t.Error("size 0 should yield nil")
	}
}

func TestGroupByMonth(t *testing.T) {
	// A month-number key alone would sort January 2025 before December 2024.
	dates := days(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), 4)
	groups := GroupByMonth(dates)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0][0].Year() != 2024 || len(groups[0]) != 2 {
		t.Errorf("first group = %v", groups[0])
	}
	if groups[1][0].Year() != 2025 || len(groups[1]) != 2 {
		t.Errorf("second group = %v", groups[1])
	}

	// Same month number in different years stays separate.
	jan := []time.Time{
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	if got := GroupByMonth(jan); len(got) != 2 || got[0][0].Year() != 2025 {
		t.Errorf("got %v", got)
	}
}

func TestBuildYearGrid(t *testing.T) {
	cal := utcCalendar(time.Monday)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	standup := &task.Task{ID: "1", Title: "standup", Start: &start, End: &end}
	tasksByKey := map[dateutil.DateKey][]*task.Task{"2025-03-10": {standup}}

	grid, err := BuildYearGrid(time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), tasksByKey, cal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.Year != 2025 || len(grid.Months) != 12 {
		t.Fatalf("got year %d with %d months", grid.Year, len(grid.Months))
	}

	for i, m := range grid.Months {
		if m.Month != time.Month(i+1) {
			t.Errorf("month %d is %v", i, m.Month)
		}
		if len(m.Days)%DaysPerWeek != 0 {
			t.Errorf("%v: %d cells", m.Month, len(m.Days))
		}
		if m.Title() != m.Month.String() {
			t.Errorf("title %q, want %q", m.Title(), m.Month)
		}
		for _, row := range m.Weeks() {
			if len(row) != DaysPerWeek {
				t.Errorf("%v: row of %d", m.Month, len(row))
			}
		}
	}

	// 2025-01-01 is a Wednesday and 2025-12-31 a Wednesday:
	// 2 leading + 365 + 4 trailing = 371 = 53 weeks.
	if len(grid.Weeks) != 53 {
		t.Errorf("got %d weeks, want 53", len(grid.Weeks))
	}
	for i, w := range grid.Weeks {
		if len(w.Days) != DaysPerWeek {
			t.Errorf("week %d has %d days", i, len(w.Days))
		}
	}

	cell, ok := grid.Day("2025-03-10")
	if !ok || len(cell.Tasks) != 1 || cell.Tasks[0] != standup {
		t.Errorf("march 10 cell = %+v", cell)
	}
	empty, ok := grid.Day("2025-03-11")
	if !ok || len(empty.Tasks) != 0 {
		t.Errorf("march 11 should exist without tasks, got %+v", empty)
	}
	if _, ok := grid.Day("2026-01-01"); ok {
		t.Error("next year's day should not be found")
	}
}

func TestBuildYearGrid_RoundTrip(t *testing.T) {
	for _, first := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
		cal := utcCalendar(first)
		ref := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
		grid, err := BuildYearGrid(ref, nil, cal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := YearDates(ref, cal)
		got := grid.Dates()
		if len(got) != len(want) {
			t.Fatalf("first=%v: got %d dates, want %d", first, len(got), len(want))
		}
		for i := range want {
			if !got[i].Equal(want[i]) {
				t.Fatalf("first=%v: mismatch at %d: %v vs %v", first, i, got[i], want[i])
			}
		}

		var weekDates []time.Time
		for _, w := range grid.Weeks {
			for _, c := range w.Days {
				if !c.IsPadding() {
					weekDates = append(weekDates, c.Date)
				}
			}
		}
		if len(weekDates) != len(want) {
			t.Fatalf("first=%v: weeks hold %d dates, want %d", first, len(weekDates), len(want))
		}
	}
}

func TestBuildYearGrid_InvalidCalendar(t *testing.T) {
	cal := utcCalendar(time.Weekday(9))
	_, err := BuildYearGrid(time.Now(), nil, cal)
	if !errors.Is(err, dateutil.ErrInvalidCalendar) {
		t.Errorf("got %v, want ErrInvalidCalendar", err)
	}
}

func TestGrid_Lookups(t *testing.T) {
	cal := utcCalendar(time.Sunday)
	grid, err := BuildYearGrid(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, cal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	today := time.Date(2025, 5, 14, 18, 30, 0, 0, time.UTC)
	month, ok := grid.MonthOf(today)
	if !ok || month.Month != time.May {
		t.Fatalf("MonthOf = %v, %v", month, ok)
	}
	if !month.IsCurrent(today) {
		t.Error("may should be current")
	}
	if grid.Months[0].IsCurrent(today) {
		t.Error("january should not be current")
	}

	week, ok := grid.WeekOf(today)
	if !ok || !week.IsCurrent(today) {
		t.Fatal("week of May 14 not found")
	}
	if week.Days[0].Date.Weekday() != time.Sunday {
		t.Errorf("week starts on %v, want Sunday", week.Days[0].Date.Weekday())
	}
	if week.Title() != "May" {
		t.Errorf("week title %q", week.Title())
	}

	// The first week of 2025 starts with padding (Jan 1 is Wednesday).
	if first := grid.Weeks[0]; !first.Days[0].IsPadding() || first.Title() != "January" {
		t.Errorf("first week = %+v", first)
	}
}

func TestTitle_AllPadding(t *testing.T) {
	w := WeekGrid{Days: make([]DayCell, DaysPerWeek)}
	if w.Title() != "" {
		t.Errorf("got %q, want empty", w.Title())
	}
	if w.IsCurrent(time.Now()) {
		t.Error("padding-only week cannot be current")
	}
}

func TestDayCell_IDsUnique(t *testing.T) {
	grid, err := BuildYearGrid(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil, utcCalendar(time.Monday))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[string]bool{}
	for _, m := range grid.Months {
		for _, c := range m.Days {
			if c.ID == "" || seen[c.ID] {
				t.Fatalf("duplicate or empty id %q", c.ID)
			}
			seen[c.ID] = true
		}
	}
}
