package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/slate/internal/tui/commands"
)

const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case commands.YearLoadedMsg:
		m.year = msg.Year
		m.loading = false
		if m.taskIdx >= len(m.selectableTasks()) {
			m.taskIdx = -1
		}
		m.logYear("loaded")
		return m, nil

	case commands.TaskCreatedMsg:
		return m.reload(fmt.Sprintf("Added %q", msg.Task.Title))

	case commands.TaskToggledMsg:
		status := "Reopened task"
		if msg.Completed {
			status = "Completed task"
		}
		return m.reload(status)

	case commands.TaskDeletedMsg:
		m.taskIdx = -1
		return m.reload(fmt.Sprintf("Deleted %q", msg.Title))

	case commands.SleepChangedMsg:
		return m.reload(msg.Msg)

	case commands.ErrMsg:
		m.err = msg.Err
		m.loading = false
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = m.nowFunc().Add(errorDuration)
		return m, clearStatusAfter(errorDuration)

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusTime = m.nowFunc().Add(statusDuration)
		return m, clearStatusAfter(statusDuration)

	case commands.ClearStatusMsg:
		if !m.nowFunc().Before(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// reload shows status and rebuilds the year under the cursor.
func (m Model) reload(status string) (tea.Model, tea.Cmd) {
	m.loading = true
	m.statusMsg = status
	m.statusTime = m.nowFunc().Add(statusDuration)
	return m, tea.Batch(
		commands.LoadYear(m.store, m.cursor, m.cal),
		clearStatusAfter(statusDuration),
	)
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}
