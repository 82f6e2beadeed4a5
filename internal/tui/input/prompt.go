// Package input parses what is typed into the TUI prompt.
package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/javiermolinar/slate/internal/task"
)

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Usage       string
	Description string
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// Split separates "/name rest" into the lowercased name and the trimmed rest.
// Input without a leading slash is treated as "/add".
func Split(input string) (name, args string) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "/add", input
	}
	name, args, _ = strings.Cut(input, " ")
	return strings.ToLower(name), strings.TrimSpace(args)
}

// ErrEmptyTitle is returned when a quick task has no title left.
var ErrEmptyTitle = errors.New("task title is empty")

// QuickTask is a task typed on one line:
//
//	[HH:MM[-HH:MM] | <n>m | <n>h] [!h|!m|!l] title...
//
// A leading duration asks for the first free slot of that length.
type QuickTask struct {
	Title    string
	Start    int // minutes since midnight, valid when HasStart
	End      int // valid when HasEnd
	HasStart bool
	HasEnd   bool
	Minutes  int // requested length when no start was given
	Priority task.Priority
}

// AllDay reports whether no time or length was given.
func (q QuickTask) AllDay() bool {
	return !q.HasStart && q.Minutes == 0
}

// ParseQuickTask parses the arguments of /add and /find.
func ParseQuickTask(args string) (QuickTask, error) {
	q := QuickTask{Priority: task.PriorityMedium}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return q, ErrEmptyTitle
	}

	first := fields[0]
	switch {
	case strings.Contains(first, ":"):
		startStr, endStr, hasEnd := strings.Cut(first, "-")
		start, err := task.ParseClock(startStr)
		if err != nil {
			return q, fmt.Errorf("start %q: %w", startStr, err)
		}
		q.Start, q.HasStart = start, true
		if hasEnd {
			end, err := task.ParseClock(endStr)
			if err != nil {
				return q, fmt.Errorf("end %q: %w", endStr, err)
			}
			if end <= start {
				return q, fmt.Errorf("end %s is not after start %s", endStr, startStr)
			}
			q.End, q.HasEnd = end, true
		}
		fields = fields[1:]
	default:
		if minutes, ok := parseLength(first); ok {
			q.Minutes = minutes
			fields = fields[1:]
		}
	}

	title := make([]string, 0, len(fields))
	for _, f := range fields {
		if p, ok := parsePriorityTag(f); ok {
			q.Priority = p
			continue
		}
		title = append(title, f)
	}
	q.Title = strings.Join(title, " ")
	if q.Title == "" {
		return q, ErrEmptyTitle
	}
	return q, nil
}

// parseLength reads "45m" or "2h".
func parseLength(s string) (int, bool) {
	if len(s) < 2 {
		return 0, false
	}
	unit := 1
	switch s[len(s)-1] {
	case 'm':
	case 'h':
		unit = 60
	default:
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n * unit, true
}

func parsePriorityTag(s string) (task.Priority, bool) {
	if !strings.HasPrefix(s, "!") || len(s) < 2 {
		return 0, false
	}
	switch strings.ToLower(s[1:]) {
	case "h", "high":
		return task.PriorityHigh, true
	case "m", "medium":
		return task.PriorityMedium, true
	case "l", "low":
		return task.PriorityLow, true
	}
	return 0, false
}
