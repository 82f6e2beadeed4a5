package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/debuglog"
)

func (m Model) logKeyPress(msg tea.KeyMsg) {
	if !m.log.Enabled() {
		return
	}
	m.log.Event("KEY_PRESS", map[string]any{
		"key":  msg.String(),
		"type": fmt.Sprintf("%d", msg.Type),
		"mode": modeString(m.mode),
	})
}

func (m Model) logModeChange(from, to Mode, reason string) {
	if !m.log.Enabled() {
		return
	}
	m.log.Event("MODE_CHANGE", map[string]any{
		"from":   modeString(from),
		"to":     modeString(to),
		"reason": reason,
	})
}

func (m Model) logCursorMove(to time.Time, reason string) {
	if !m.log.Enabled() {
		return
	}
	m.log.Event("CURSOR_MOVE", map[string]any{
		"from":   m.cursor.Format(dateutil.DateLayout),
		"to":     to.Format(dateutil.DateLayout),
		"reason": reason,
	})
}

// logYear records what a load produced.
func (m Model) logYear(action string) {
	if !m.log.Enabled() || m.year == nil {
		return
	}
	var tasks int
	for _, ts := range m.year.ByDate {
		for _, t := range ts {
			if !t.IsSleep() {
				tasks++
			}
		}
	}
	m.log.Event("YEAR_STATE", map[string]any{
		"action":        action,
		"year":          m.year.Grid.Year,
		"days":          len(m.year.Grid.Dates()),
		"tasks":         tasks,
		"backlog":       len(m.year.Backlog),
		"missing_sleep": m.year.MissingSleep,
	})
}

func (m Model) logPrompt(input string) {
	if !m.log.Enabled() {
		return
	}
	m.log.Event("PROMPT", map[string]any{"input": debuglog.Truncate(input, 80)})
}

func modeString(mode Mode) string {
	switch mode {
	case ModeNormal:
		return "normal"
	case ModePrompt:
		return "prompt"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return fmt.Sprintf("unknown(%d)", mode)
	}
}
