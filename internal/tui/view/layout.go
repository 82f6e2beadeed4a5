// Package view draws the TUI panels from plain state structs. Nothing here
// reads the model or the store.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Screen is one frame: the app body and an optional modal centered on it.
type Screen struct {
	Width   int
	Height  int
	Body    string
	Modal   string
	ModalBg lipgloss.Color
}

// Render composes the frame. Until the terminal size is known it returns a
// placeholder.
func Render(s Screen) string {
	if s.Width <= 0 || s.Height <= 0 {
		return "Loading..."
	}
	if s.Modal == "" {
		return s.Body
	}
	return Overlay(s.Body, s.Modal, s.Width, s.Height, s.ModalBg)
}

// Fill pads each line of content to width with bg and pads or cuts the
// content to exactly height lines. Lines wider than width are left alone.
func Fill(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	pad := lipgloss.NewStyle().Background(bg)

	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if gap := width - lipgloss.Width(line); gap > 0 {
			line += pad.Render(strings.Repeat(" ", gap))
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// Overlay splices modal into the middle of base. Modal lines are cut or
// padded to the widest line so the box keeps a solid background.
func Overlay(base, modal string, width, height int, bg lipgloss.Color) string {
	box := strings.Split(modal, "\n")
	boxW := min(lipgloss.Width(modal), width)
	if boxW == 0 {
		return base
	}
	top := max(0, (height-len(box))/2)
	left := max(0, (width-boxW)/2)

	rows := strings.Split(Fill(base, width, height, ""), "\n")
	pad := lipgloss.NewStyle().Background(bg)
	for i, line := range box {
		row := top + i
		if row >= len(rows) {
			break
		}
		if lipgloss.Width(line) > boxW {
			line = ansi.Cut(line, 0, boxW)
		}
		if gap := boxW - lipgloss.Width(line); gap > 0 {
			line += pad.Render(strings.Repeat(" ", gap))
		}
		line = keepBackground(line, bg)
		rows[row] = ansi.Cut(rows[row], 0, left) + line + ansi.ResetStyle + ansi.Cut(rows[row], left+boxW, width)
	}
	return strings.Join(rows, "\n")
}

// keepBackground re-applies bg after every reset inside line.
func keepBackground(line string, bg lipgloss.Color) string {
	if bg == "" {
		return line
	}
	seq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
	for _, reset := range []string{ansi.ResetStyle, "\x1b[0m", "\x1b[49m"} {
		line = strings.ReplaceAll(line, reset, reset+seq)
	}
	return line
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
