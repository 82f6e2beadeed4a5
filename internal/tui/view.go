package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slate/internal/agenda"
	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/task"
	"github.com/javiermolinar/slate/internal/tui/view"
)

const (
	// sideBySideWidth is the narrowest terminal that shows month and day next to each other.
	sideBySideWidth = 80
	// promptMaxLines caps the prompt box, suggestions included.
	promptMaxLines = 6
)

// View renders the TUI.
func (m Model) View() string {
	screen := view.Screen{Width: m.width, Height: m.height}
	if m.width == 0 || m.height == 0 {
		return view.Render(screen)
	}
	screen.Body = m.renderAppContent()
	if m.mode == ModeHelp {
		screen.Modal = m.styles.Overlay.Render(m.help.FullHelpView(m.keys.FullHelp()))
		screen.ModalBg = m.styles.Palette().BgHighlight
	}
	return view.Render(screen)
}

func (m Model) renderAppContent() string {
	header := view.RenderHeader(" slate  "+m.cursor.Format("January 2006"),
		"today "+m.today().Format("Mon 2 Jan")+" ", m.width, m.styles.Header)

	promptBlock := ""
	if m.mode == ModePrompt {
		promptBlock = m.renderPromptBlock()
	}
	footer := view.RenderFooter(view.FooterViewState{
		Width:       m.width,
		PromptBlock: promptBlock,
		StatusLine:  m.statusLine(),
		HelpLine:    m.help.ShortHelpView(m.keys.ShortHelp()),
		Bg:          m.styles.Palette().Bg,
	})

	bodyH := max(1, m.height-1-view.FooterHeight(promptBlock))
	body := m.renderBody(bodyH)
	return lipgloss.JoinVertical(lipgloss.Left, header, view.Fill(body, m.width, bodyH, m.styles.Palette().Bg), footer)
}

func (m Model) renderBody(height int) string {
	if m.year == nil {
		return m.styles.Status.Render("Loading calendar...")
	}

	frameW, frameH := m.styles.Panel.GetFrameSize()
	month := m.styles.Panel.Render(view.RenderMonth(m.monthViewState()))
	monthW := lipgloss.Width(month)

	if m.width >= sideBySideWidth {
		dayW := m.width - monthW - frameW
		day := m.styles.Panel.Render(view.RenderDay(m.dayViewState(dayW, height-frameH)))
		return lipgloss.JoinHorizontal(lipgloss.Top, month, day)
	}

	dayH := height - lipgloss.Height(month) - frameH
	if dayH < 4 {
		return month
	}
	day := m.styles.Panel.Render(view.RenderDay(m.dayViewState(m.width-frameW, dayH)))
	return lipgloss.JoinVertical(lipgloss.Left, month, day)
}

// monthViewState maps the cursor month of the loaded year onto cells.
func (m Model) monthViewState() view.MonthViewState {
	state := view.MonthViewState{Styles: m.styles.Month}
	for _, name := range m.cal.WeekdayShortNames() {
		state.Weekdays = append(state.Weekdays, name[:2])
	}

	month, ok := m.year.Grid.MonthOf(m.cursor)
	if !ok {
		state.Title = m.cursor.Format("January 2006")
		return state
	}
	state.Title = fmt.Sprintf("%s %d", month.Month, month.Year)

	today := m.today()
	for _, week := range month.Weeks() {
		row := make([]view.MonthCell, 0, len(week))
		for _, c := range week {
			if c.IsPadding() {
				row = append(row, view.MonthCell{})
				continue
			}
			stats := agenda.DaySummary(c.Date, c.Tasks).Stats
			row = append(row, view.MonthCell{
				Day:      c.Date.Day(),
				Tasks:    stats.Tasks,
				Busy:     stats.BusyMinutes,
				Today:    dateutil.SameDay(c.Date, today),
				Selected: dateutil.SameDay(c.Date, m.cursor),
				Weekend:  m.cal.IsWeekend(c.Date),
			})
		}
		state.Weeks = append(state.Weeks, row)
	}
	return state
}

// dayViewState lists the cursor day: user tasks in display order followed
// by the sleep blocks.
func (m Model) dayViewState(width, height int) view.DayViewState {
	state := view.DayViewState{
		Title:  m.cursor.Format("Monday, 2 January 2006"),
		Width:  width,
		Height: height,
		Styles: m.styles.Day,
	}
	if m.year.MissingSleep {
		state.Warning = "No sleep schedule; press S to store the configured one"
	}

	d := m.day()
	if d == nil {
		state.Free = "?"
		return state
	}

	for i, t := range displayOrder(d) {
		line := dayLine(t)
		line.Selected = i == m.taskIdx
		state.Lines = append(state.Lines, line)
	}
	for _, t := range d.Tasks {
		if t.IsSleep() {
			state.Lines = append(state.Lines, dayLine(t))
		}
	}

	state.Free = "none"
	if d.HasFree {
		parts := make([]string, 0, len(d.Free))
		for _, iv := range d.Free {
			parts = append(parts, iv.String())
		}
		state.Free = strings.Join(parts, "  ")
	}
	state.Stats = fmt.Sprintf("%d tasks, %d done  busy %s  free %s",
		d.Stats.Tasks, d.Stats.Completed,
		view.FormatDuration(d.Stats.BusyMinutes), view.FormatDuration(d.Stats.FreeMinutes))
	if d.Stats.TravelMinutes > 0 {
		state.Stats += "  travel " + view.FormatDuration(d.Stats.TravelMinutes)
	}
	return state
}

func dayLine(t *task.Task) view.DayLine {
	line := view.DayLine{Title: t.Title}
	switch {
	case t.AllDay:
		line.Clock = "all day"
	case t.End != nil:
		line.Clock = t.StartClock() + "-" + t.EndClock()
	default:
		line.Clock = t.StartClock()
	}
	if t.TravelTime > 0 {
		if at, ok := t.LeaveAt(); ok {
			line.Note = "leave " + at.Format(task.ClockLayout)
		}
	}

	switch {
	case t.IsSleep():
		line.Kind = view.LineSleep
	case t.Completed:
		line.Kind = view.LineDone
	case t.Priority == task.PriorityHigh:
		line.Kind = view.LineHigh
	case t.Priority == task.PriorityLow:
		line.Kind = view.LineLow
	}
	return line
}

func (m Model) renderPromptBlock() string {
	frameW, _ := m.styles.Prompt.GetFrameSize()
	contentW := max(1, m.width-frameW)
	lines := view.PromptLines(m.promptState(), contentW)
	lines = view.ClampPromptLines(lines, promptMaxLines, contentW)
	return view.RenderPrompt(m.width, m.styles.Prompt, lines)
}

func (m Model) statusLine() string {
	switch {
	case m.mode == ModeConfirm:
		return m.styles.Error.Render(m.confirmMessage)
	case m.err != nil && m.statusMsg != "":
		return m.styles.Error.Render(m.statusMsg)
	case m.statusMsg != "":
		return m.styles.Status.Render(m.statusMsg)
	case m.loading:
		return m.styles.Status.Render("Loading...")
	case m.year != nil && len(m.year.Backlog) > 0:
		return m.styles.Status.Render(fmt.Sprintf("%d in backlog", len(m.year.Backlog)))
	}
	return ""
}
