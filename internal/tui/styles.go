package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/slate/internal/tui/theme"
	"github.com/javiermolinar/slate/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	Header  lipgloss.Style
	Panel   lipgloss.Style
	Prompt  lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Overlay lipgloss.Style

	Month view.MonthStyles
	Day   view.DayStyles
	Help  help.Styles
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Foreground(p.Fg)
	muted := lipgloss.NewStyle().Foreground(p.FgMuted)

	s := &Styles{
		palette: p,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Prompt: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Accent).
			Foreground(p.Fg),
		Status: muted,
		Error:  lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Background(p.BgHighlight).
			Foreground(p.Fg).
			Padding(1, 2),
	}

	s.Month = view.MonthStyles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Weekday:  muted,
		Day:      base,
		Weekend:  lipgloss.NewStyle().Foreground(p.Weekend),
		Today:    lipgloss.NewStyle().Bold(true).Foreground(p.TextOnToday).Background(p.Today),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(p.TextOnSelection).Background(p.BgSelection),
		Padding:  lipgloss.NewStyle(),
		Heat:     p.HeatFor,
	}

	s.Day = view.DayStyles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Clock:    muted,
		Task:     base,
		High:     lipgloss.NewStyle().Foreground(p.High).Bold(true),
		Low:      lipgloss.NewStyle().Foreground(p.Low),
		Done:     muted.Strikethrough(true),
		Sleep:    lipgloss.NewStyle().Foreground(p.Sleep).Italic(true),
		Selected: lipgloss.NewStyle().Foreground(p.TextOnSelection).Background(p.BgSelection),
		Note:     muted,
		Free:     lipgloss.NewStyle().Foreground(p.Free),
		Stats:    muted,
		Warning:  lipgloss.NewStyle().Foreground(p.Warning),
		Muted:    muted,
	}

	s.Help = help.New().Styles
	s.Help.ShortKey = lipgloss.NewStyle().Foreground(p.Accent)
	s.Help.ShortDesc = muted
	s.Help.ShortSeparator = muted
	s.Help.FullKey = lipgloss.NewStyle().Foreground(p.Accent)
	s.Help.FullDesc = base
	s.Help.FullSeparator = muted

	return s
}

// Palette returns the colors the styles were built from.
func (s *Styles) Palette() *theme.Palette {
	return s.palette
}
