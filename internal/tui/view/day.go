package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// LineKind selects the style of a day line.
type LineKind int

const (
	LineTask LineKind = iota
	LineHigh
	LineLow
	LineDone
	LineSleep
)

// DayLine is one row of the day panel.
type DayLine struct {
	Clock    string // "09:00-10:00", "all day", or empty for a continuation
	Title    string
	Note     string // e.g. "leave 08:40"
	Kind     LineKind
	Selected bool
}

// DayStyles are the styles the day panel is drawn with.
type DayStyles struct {
	Title    lipgloss.Style
	Clock    lipgloss.Style
	Task     lipgloss.Style
	High     lipgloss.Style
	Low      lipgloss.Style
	Done     lipgloss.Style
	Sleep    lipgloss.Style
	Selected lipgloss.Style
	Note     lipgloss.Style
	Free     lipgloss.Style
	Stats    lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
}

// DayViewState is everything needed to draw the day panel.
type DayViewState struct {
	Title   string
	Lines   []DayLine
	Free    string
	Stats   string
	Warning string
	Width   int
	Height  int
	Styles  DayStyles
}

// clockWidth fits "HH:MM-HH:MM".
const clockWidth = 11

// RenderDay draws the day panel cut to Width and Height. When the task
// lines do not fit, the ones around the selection are kept.
func RenderDay(state DayViewState) string {
	s := state.Styles
	head := []string{s.Title.Render(state.Title)}
	if state.Warning != "" {
		head = append(head, s.Warning.Render(state.Warning))
	}
	head = append(head, "")

	foot := []string{"", s.Free.Render("Free  " + state.Free), s.Stats.Render(state.Stats)}

	body := make([]string, 0, len(state.Lines))
	selected := -1
	for i, l := range state.Lines {
		if l.Selected {
			selected = i
		}
		body = append(body, renderDayLine(l, s, state.Width))
	}
	if len(body) == 0 {
		body = append(body, s.Muted.Render("Nothing planned."))
	}

	room := state.Height - len(head) - len(foot)
	if state.Height > 0 && room > 0 && len(body) > room {
		start := 0
		if selected >= room {
			start = selected - room + 1
		}
		body = body[start : start+room]
	}

	lines := append(append(head, body...), foot...)
	for i, line := range lines {
		if lipgloss.Width(line) > state.Width {
			lines[i] = ansi.Truncate(line, state.Width, "…")
		}
	}
	if state.Height > 0 && len(lines) > state.Height {
		lines = lines[:state.Height]
	}
	return strings.Join(lines, "\n")
}

func renderDayLine(l DayLine, s DayStyles, width int) string {
	rawClock := ansi.Truncate(l.Clock, clockWidth, "")
	rawClock += strings.Repeat(" ", max(0, clockWidth-lipgloss.Width(rawClock)))
	if l.Selected {
		plain := ansi.Truncate(rawClock+" "+l.Title, width, "…")
		return s.Selected.Width(width).Render(plain)
	}

	style := s.Task
	switch l.Kind {
	case LineHigh:
		style = s.High
	case LineLow:
		style = s.Low
	case LineDone:
		style = s.Done
	case LineSleep:
		style = s.Sleep
	}

	text := style.Render(l.Title)
	if l.Note != "" {
		text += "  " + s.Note.Render("("+l.Note+")")
	}
	return s.Clock.Render(rawClock) + " " + text
}
