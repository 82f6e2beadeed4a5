package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slate/internal/agenda"
	"github.com/javiermolinar/slate/internal/calendar"
	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/task"
)

const (
	cellWidth  = 4
	monthWidth = calendar.DaysPerWeek * cellWidth
	monthGap   = 3
	weekLines  = 6
)

// gridCmd builds the week, month and year commands, which differ only in
// how they render the loaded year.
func (a *App) gridCmd(use, short string, render func(w io.Writer, y *agenda.Year, date, today time.Time) error) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			now := a.now()
			day, err := dateutil.ParseRelativeDate(date, now, true)
			if err != nil {
				return err
			}

			y, err := agenda.BuildYear(context.Background(), a.store, a.store, agenda.Options{Date: day, Calendar: a.cal})
			if err != nil {
				return fmt.Errorf("building calendar: %w", err)
			}
			out := cmd.OutOrStdout()
			if y.MissingSleep {
				fmt.Fprintln(out, formatMuted("No sleep schedule stored; run 'slate init' or 'slate sleep set'."))
			}
			return render(out, y, day, a.cal.Today(now))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Any day in the period (YYYY-MM-DD, today, next-week...)")
	return cmd
}

func (a *App) weekCmd() *cobra.Command {
	return a.gridCmd("week", "Show the week's tasks day by day", renderWeek)
}

func (a *App) monthCmd() *cobra.Command {
	return a.gridCmd("month", "Show a month calendar", renderMonth)
}

func (a *App) yearCmd() *cobra.Command {
	return a.gridCmd("year", "Show the whole year", renderYear)
}

func renderWeek(w io.Writer, y *agenda.Year, date, today time.Time) error {
	week, ok := y.Grid.WeekOf(date)
	if !ok {
		return fmt.Errorf("no week for %s", date.Format(dateutil.DateLayout))
	}

	var first, last time.Time
	for _, c := range week.Days {
		if c.IsPadding() {
			continue
		}
		if first.IsZero() {
			first = c.Date
		}
		last = c.Date
	}
	header := fmt.Sprintf("WEEK: %s - %s", first.Format("Mon Jan 2"), last.Format("Mon Jan 2, 2006"))
	fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(w, strings.Repeat("─", min(termWidth(), 74)))

	opts := PrintOpts{ShowDuration: true}
	maxDescWidth := opts.CalcMaxDescWidth(40)
	var total agenda.Stats
	for _, c := range week.Days {
		if c.IsPadding() {
			continue
		}
		d := agenda.DaySummary(c.Date, c.Tasks)
		label := c.Date.Format("Mon 02")
		if dateutil.SameDay(c.Date, today) {
			label = formatToday(label)
		} else {
			label = formatHeader(label)
		}
		fmt.Fprintf(w, "%s  %s\n", label, formatMuted("free "+FormatDuration(d.Stats.FreeMinutes)))

		user := task.UserTasks(c.Tasks)
		if len(user) == 0 {
			fmt.Fprintln(w, formatMuted("  -"))
		}
		for _, t := range user {
			PrintTaskRow(w, t, opts, maxDescWidth)
		}

		total.Tasks += d.Stats.Tasks
		total.Completed += d.Stats.Completed
		total.HighOpen += d.Stats.HighOpen
		total.BusyMinutes += d.Stats.BusyMinutes
		total.FreeMinutes += d.Stats.FreeMinutes
		total.TravelMinutes += d.Stats.TravelMinutes
	}
	fmt.Fprintln(w)
	PrintStats(w, total)
	return nil
}

func renderMonth(w io.Writer, y *agenda.Year, date, today time.Time) error {
	month, ok := y.Grid.MonthOf(date)
	if !ok {
		return fmt.Errorf("no month for %s", date.Format(dateutil.DateLayout))
	}
	for _, line := range monthLines(month, y.Calendar, today) {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	var count, open int
	for _, c := range month.Days {
		for _, t := range task.UserTasks(c.Tasks) {
			count++
			if !t.Completed {
				open++
			}
		}
	}
	fmt.Fprintf(w, "\n%s\n", formatStats(fmt.Sprintf("%d tasks, %d open", count, open)))
	return nil
}

func renderYear(w io.Writer, y *agenda.Year, _, today time.Time) error {
	perRow := max(1, min(3, (termWidth()+monthGap)/(monthWidth+monthGap)))
	fmt.Fprintf(w, "%s\n\n", formatHeader(centered(fmt.Sprint(y.Grid.Year), perRow*monthWidth+(perRow-1)*monthGap)))

	for _, months := range calendar.Chunk(y.Grid.Months, perRow) {
		blocks := make([][]string, len(months))
		for i := range months {
			blocks[i] = monthLines(&months[i], y.Calendar, today)
		}
		for li := range blocks[0] {
			parts := make([]string, len(blocks))
			for bi, b := range blocks {
				parts[bi] = b[li]
			}
			fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, strings.Repeat(" ", monthGap)), " "))
		}
		fmt.Fprintln(w)
	}

	if n := len(y.Backlog); n > 0 {
		fmt.Fprintln(w, formatMuted(fmt.Sprintf("%d tasks in the backlog", n)))
	}
	return nil
}

// monthLines renders a month as fixed-width lines: title, weekday header
// and six week rows. Days with user tasks carry a dot.
func monthLines(m *calendar.MonthGrid, cal dateutil.Calendar, today time.Time) []string {
	lines := make([]string, 0, weekLines+2)
	lines = append(lines, formatHeader(centered(fmt.Sprintf("%s %d", m.Title(), m.Year), monthWidth)))

	var header strings.Builder
	for _, name := range cal.WeekdayShortNames() {
		fmt.Fprintf(&header, "%*s", cellWidth, name[:2]+" ")
	}
	lines = append(lines, formatMuted(header.String()))

	weeks := m.Weeks()
	for i := range weekLines {
		if i >= len(weeks) {
			lines = append(lines, strings.Repeat(" ", monthWidth))
			continue
		}
		var row strings.Builder
		for _, c := range weeks[i] {
			row.WriteString(dayCell(c, cal, today))
		}
		lines = append(lines, row.String())
	}
	return lines
}

func dayCell(c calendar.DayCell, cal dateutil.Calendar, today time.Time) string {
	if c.IsPadding() {
		return strings.Repeat(" ", cellWidth)
	}
	marker := " "
	if len(task.UserTasks(c.Tasks)) > 0 {
		marker = "•"
	}
	num := fmt.Sprintf("%2d", c.Date.Day())
	switch {
	case dateutil.SameDay(c.Date, today):
		num = formatToday(num)
	case cal.IsWeekend(c.Date):
		num = formatWeekend(num)
	}
	return " " + num + marker
}

func centered(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
