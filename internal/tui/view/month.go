package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MonthCellWidth is the width of one day in the month panel.
const MonthCellWidth = 5

// MonthWidth is the width of a rendered month, without frame.
const MonthWidth = 7 * MonthCellWidth

// MonthCell is one day of the month panel. Day is zero for padding.
type MonthCell struct {
	Day      int
	Tasks    int
	Busy     int // booked minutes, drives the heat shade
	Today    bool
	Selected bool
	Weekend  bool
}

// MonthStyles are the styles a month is drawn with.
type MonthStyles struct {
	Title    lipgloss.Style
	Weekday  lipgloss.Style
	Day      lipgloss.Style
	Weekend  lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Padding  lipgloss.Style

	// Heat returns the background of a day with busy booked minutes.
	Heat func(busy int) (lipgloss.Color, bool)
}

// MonthViewState is everything needed to draw one month.
type MonthViewState struct {
	Title    string
	Weekdays []string
	Weeks    [][]MonthCell
	Styles   MonthStyles
}

// RenderMonth draws a title, the weekday header and one line per week.
// Every line is MonthWidth columns wide.
func RenderMonth(state MonthViewState) string {
	s := state.Styles
	lines := make([]string, 0, len(state.Weeks)+2)
	lines = append(lines, s.Title.Width(MonthWidth).Align(lipgloss.Center).Render(state.Title))

	var header strings.Builder
	for _, name := range state.Weekdays {
		header.WriteString(s.Weekday.Render(fmt.Sprintf("%*s ", MonthCellWidth-1, name)))
	}
	lines = append(lines, header.String())

	for _, week := range state.Weeks {
		var row strings.Builder
		for _, c := range week {
			row.WriteString(renderMonthCell(c, s))
		}
		lines = append(lines, row.String())
	}
	return strings.Join(lines, "\n")
}

func renderMonthCell(c MonthCell, s MonthStyles) string {
	if c.Day == 0 {
		return s.Padding.Render(strings.Repeat(" ", MonthCellWidth))
	}
	marker := " "
	if c.Tasks > 0 {
		marker = "•"
	}
	text := fmt.Sprintf("%3d%s ", c.Day, marker)

	style := s.Day
	switch {
	case c.Selected:
		style = s.Selected
	case c.Today:
		style = s.Today
	case c.Weekend:
		style = s.Weekend
	}
	if !c.Selected && !c.Today && s.Heat != nil {
		if bg, ok := s.Heat(c.Busy); ok {
			style = style.Background(bg)
		}
	}
	return style.Render(text)
}
