package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/javiermolinar/slate/internal/agenda"
	"github.com/javiermolinar/slate/internal/task"
)

// idWidth is how many ID characters the CLI prints. Commands accept any
// unique prefix.
const idWidth = 8

// PrintOpts configures task printing behavior.
type PrintOpts struct {
	Verbose      bool // Show descriptions and full titles
	ShowDuration bool // Show duration column
	ShowDate     bool // Prefix rows with the date
	MaxDescWidth int  // Maximum title width (0 = auto)
}

// CalcMaxDescWidth calculates the maximum title width based on options.
func (o PrintOpts) CalcMaxDescWidth(defaultWidth int) int {
	if o.MaxDescWidth > 0 {
		return o.MaxDescWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "  ○ 1a2b3c4d  HH:MM-HH:MM  [H]  " is about 32 columns.
	overhead := 32
	if o.ShowDuration {
		overhead += 7
	}
	if o.ShowDate {
		overhead += 11
	}
	if available := termWidth() - overhead; available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintTaskRow prints a single task row with consistent formatting.
func PrintTaskRow(w io.Writer, t *task.Task, opts PrintOpts, maxDescWidth int) {
	title := truncate(t.Title, maxDescWidth)
	if t.IsSleep() {
		title = formatSleep(title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s  ", statusSymbol(t), formatMuted(shortID(t)))
	if opts.ShowDate {
		date := "          "
		if t.Start != nil {
			date = t.Start.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "%s  ", date)
	}
	fmt.Fprintf(&b, "%s  %s  ", timeRange(t), priorityTag(t.Priority))
	if opts.ShowDuration {
		fmt.Fprintf(&b, "%-5s  ", FormatDuration(int(t.Duration()/time.Minute)))
	}
	b.WriteString(title)
	if t.TravelTime > 0 {
		if at, ok := t.LeaveAt(); ok {
			b.WriteString(formatMuted(fmt.Sprintf("  (leave %s)", at.Format(task.ClockLayout))))
		}
	}
	fmt.Fprintln(w, b.String())

	if opts.Verbose && t.Description != "" {
		fmt.Fprintf(w, "      %s\n", formatMuted(t.Description))
	}
}

// timeRange renders the clock part of a row, 11 columns wide.
func timeRange(t *task.Task) string {
	switch {
	case t.AllDay:
		return "all day    "
	case t.Start == nil:
		return "backlog    "
	case t.End == nil:
		return t.StartClock() + "      "
	default:
		return t.StartClock() + "-" + t.EndClock()
	}
}

func shortID(t *task.Task) string {
	if t.IsSleep() {
		return strings.Repeat("-", idWidth)
	}
	if len(t.ID) <= idWidth {
		return t.ID
	}
	return t.ID[:idWidth]
}

// statusSymbol returns the status indicator for a task.
func statusSymbol(t *task.Task) string {
	switch {
	case t.IsSleep():
		return formatSleep("z")
	case t.Completed:
		return formatFree("✓")
	default:
		return "○"
	}
}

func priorityTag(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return formatHigh("[H]")
	case task.PriorityLow:
		return formatLow("[L]")
	default:
		return "[M]"
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// PrintStats prints the summary line of a day.
func PrintStats(w io.Writer, s agenda.Stats) {
	busy := fmt.Sprintf("Busy: %s", FormatDuration(s.BusyMinutes))
	free := formatFree(fmt.Sprintf("Free: %s", FormatDuration(s.FreeMinutes)))
	fmt.Fprintf(w, "%s | %s | Tasks: %d (%d done)\n", busy, free, s.Tasks, s.Completed)

	var extra []string
	if s.HighOpen > 0 {
		extra = append(extra, formatHigh(fmt.Sprintf("%d high priority open", s.HighOpen)))
	}
	if s.TravelMinutes > 0 {
		extra = append(extra, fmt.Sprintf("Travel: %s", formatStats(FormatDuration(s.TravelMinutes))))
	}
	if len(extra) > 0 {
		fmt.Fprintln(w, strings.Join(extra, " | "))
	}
}

// BusyBar draws busy against awake time as a bar.
func BusyBar(busyMinutes, awakeMinutes, width int) string {
	if awakeMinutes <= 0 {
		return "[" + strings.Repeat("░", width) + "]"
	}
	busyMinutes = min(busyMinutes, awakeMinutes)
	pct := (busyMinutes * 100) / awakeMinutes
	filled := (busyMinutes * width) / awakeMinutes

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", bar, formatStats(fmt.Sprintf("(%d%% booked)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
