package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the CLI.
var (
	// High priority: bold red
	colorHigh = color.New(color.FgRed, color.Bold)

	// Low priority: dim
	colorLow = color.New(color.FgWhite, color.Faint)

	// Sleep blocks: blue, out of the way
	colorSleep = color.New(color.FgBlue, color.Faint)

	// Free time: green
	colorFree = color.New(color.FgGreen)

	// Today in grids: reversed
	colorToday = color.New(color.ReverseVideo, color.Bold)

	// Weekend days in grids
	colorWeekend = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: cyan
	colorStats = color.New(color.FgCyan)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// colorWanted reports whether output should be colored: the flag wins, then
// NO_COLOR and CLICOLOR from the environment.
func colorWanted(noColorFlag bool) bool {
	return !noColorFlag && !termenv.EnvNoColor()
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHigh(s string) string    { return colorHigh.Sprint(s) }
func formatLow(s string) string     { return colorLow.Sprint(s) }
func formatSleep(s string) string   { return colorSleep.Sprint(s) }
func formatFree(s string) string    { return colorFree.Sprint(s) }
func formatToday(s string) string   { return colorToday.Sprint(s) }
func formatWeekend(s string) string { return colorWeekend.Sprint(s) }

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
