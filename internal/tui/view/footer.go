package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	Width       int
	PromptBlock string // rendered prompt box, empty outside prompt mode
	StatusLine  string
	HelpLine    string
	Bg          lipgloss.Color
}

// RenderFooter stacks the prompt, status and help lines, each cut to width.
func RenderFooter(state FooterViewState) string {
	var lines []string
	if state.PromptBlock != "" {
		lines = append(lines, strings.Split(state.PromptBlock, "\n")...)
	}
	lines = append(lines, state.StatusLine, state.HelpLine)
	for i, line := range lines {
		if lipgloss.Width(line) > state.Width {
			lines[i] = ansi.Truncate(line, state.Width, "…")
		}
	}
	return Fill(strings.Join(lines, "\n"), state.Width, len(lines), state.Bg)
}

// FooterHeight returns the number of lines RenderFooter produces.
func FooterHeight(promptBlock string) int {
	if promptBlock == "" {
		return 2
	}
	return strings.Count(promptBlock, "\n") + 3
}

// RenderHeader puts left and right on one line of the given width.
func RenderHeader(left, right string, width int, style lipgloss.Style) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return style.Width(width).Render(ansi.Truncate(left, width, "…"))
	}
	return style.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
