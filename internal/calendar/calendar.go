package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/task"
)

// DayCell is one slot in a grid. Padding cells have a zero Date.
type DayCell struct {
	ID    string
	Date  time.Time
	Tasks []*task.Task
}

// IsPadding returns true for cells that carry no date.
func (c DayCell) IsPadding() bool {
	return c.Date.IsZero()
}

// Key returns the cell's date key, or "" for padding.
func (c DayCell) Key() dateutil.DateKey {
	if c.IsPadding() {
		return ""
	}
	return dateutil.KeyOf(c.Date)
}

func newCell(date time.Time, tasksByKey map[dateutil.DateKey][]*task.Task) DayCell {
	cell := DayCell{ID: uuid.NewString(), Date: date}
	if !date.IsZero() {
		cell.Tasks = tasksByKey[dateutil.KeyOf(date)]
	}
	return cell
}

func newCells(dates []time.Time, tasksByKey map[dateutil.DateKey][]*task.Task) []DayCell {
	cells := make([]DayCell, len(dates))
	for i, d := range dates {
		cells[i] = newCell(d, tasksByKey)
	}
	return cells
}

func title(cells []DayCell) string {
	for _, c := range cells {
		if !c.IsPadding() {
			return c.Date.Month().String()
		}
	}
	return ""
}

func containsDay(cells []DayCell, day time.Time) bool {
	for _, c := range cells {
		if !c.IsPadding() && dateutil.SameDay(c.Date, day.In(c.Date.Location())) {
			return true
		}
	}
	return false
}

// MonthGrid holds the padded cells of one calendar month.
type MonthGrid struct {
	Year  int
	Month time.Month
	Days  []DayCell
}

// Title returns the month name of the first dated cell.
func (m MonthGrid) Title() string {
	return title(m.Days)
}

// IsCurrent reports whether today falls in this month.
func (m MonthGrid) IsCurrent(today time.Time) bool {
	return containsDay(m.Days, today)
}

// Weeks returns the month's cells in rows of seven.
func (m MonthGrid) Weeks() [][]DayCell {
	return Chunk(m.Days, DaysPerWeek)
}

// WeekGrid holds seven cells.
type WeekGrid struct {
	Days []DayCell
}

// Title returns the month name of the first dated cell.
func (w WeekGrid) Title() string {
	return title(w.Days)
}

// IsCurrent reports whether today falls in this week.
func (w WeekGrid) IsCurrent(today time.Time) bool {
	return containsDay(w.Days, today)
}

type cellPos struct {
	month, monthIdx int
	week, weekIdx   int
}

// YearGrid is a year rendered both as months and as weeks.
type YearGrid struct {
	Year   int
	Months []MonthGrid
	Weeks  []WeekGrid

	loc   *time.Location
	index map[dateutil.DateKey]cellPos
}

// BuildYearGrid builds the month and week grids of ref's year. Each month is
// padded on its own; weeks come from the whole year padded once. Days look
// up their tasks in tasksByKey; a miss means no tasks.
func BuildYearGrid(ref time.Time, tasksByKey map[dateutil.DateKey][]*task.Task, cal dateutil.Calendar) (*YearGrid, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}

	dates := YearDates(ref, cal)
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: empty year interval", dateutil.ErrInvalidCalendar)
	}

	grid := &YearGrid{
		Year:  dates[0].Year(),
		loc:   cal.Loc(),
		index: make(map[dateutil.DateKey]cellPos, len(dates)),
	}

	for mi, group := range GroupByMonth(dates) {
		month := MonthGrid{
			Year:  group[0].Year(),
			Month: group[0].Month(),
			Days:  newCells(Pad(group, DaysPerWeek, cal.FirstWeekday), tasksByKey),
		}
		for ci, c := range month.Days {
			if !c.IsPadding() {
				grid.index[c.Key()] = cellPos{month: mi, monthIdx: ci}
			}
		}
		grid.Months = append(grid.Months, month)
	}

	padded := Pad(dates, DaysPerWeek, cal.FirstWeekday)
	for wi, row := range Chunk(padded, DaysPerWeek) {
		week := WeekGrid{Days: newCells(row, tasksByKey)}
		for ci, c := range week.Days {
			if c.IsPadding() {
				continue
			}
			pos := grid.index[c.Key()]
			pos.week, pos.weekIdx = wi, ci
			grid.index[c.Key()] = pos
		}
		grid.Weeks = append(grid.Weeks, week)
	}

	return grid, nil
}

// Day returns the month cell for key.
func (y *YearGrid) Day(key dateutil.DateKey) (DayCell, bool) {
	pos, ok := y.index[key]
	if !ok {
		return DayCell{}, false
	}
	return y.Months[pos.month].Days[pos.monthIdx], true
}

// MonthOf returns the month grid containing t's day.
func (y *YearGrid) MonthOf(t time.Time) (*MonthGrid, bool) {
	pos, ok := y.index[y.keyOf(t)]
	if !ok {
		return nil, false
	}
	return &y.Months[pos.month], true
}

// WeekOf returns the week grid containing t's day.
func (y *YearGrid) WeekOf(t time.Time) (*WeekGrid, bool) {
	pos, ok := y.index[y.keyOf(t)]
	if !ok {
		return nil, false
	}
	return &y.Weeks[pos.week], true
}

// Dates returns every dated cell of the month grids, in order.
func (y *YearGrid) Dates() []time.Time {
	var dates []time.Time
	for _, m := range y.Months {
		for _, c := range m.Days {
			if !c.IsPadding() {
				dates = append(dates, c.Date)
			}
		}
	}
	return dates
}

func (y *YearGrid) keyOf(t time.Time) dateutil.DateKey {
	return dateutil.KeyOf(t.In(y.loc))
}
