package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Suggestion is a prompt command shown under the input.
type Suggestion struct {
	Usage       string
	Description string
}

// PromptState is the input line and the commands matching it.
type PromptState struct {
	Value       string
	Cursor      string
	Suggestions []Suggestion
}

// PromptLines lays out the input after "> " and one entry per suggestion,
// wrapped to width with indented continuation lines.
func PromptLines(state PromptState, width int) []string {
	lines := indent(Wrap(state.Value+state.Cursor, width-2, width-2), "> ", "  ")
	for _, s := range state.Suggestions {
		text := s.Usage + "  " + s.Description
		lines = append(lines, indent(Wrap(text, width-2, width-4), "  ", "    ")...)
	}
	return lines
}

// ClampPromptLines keeps at most maxLines and marks the cut with "…".
func ClampPromptLines(lines []string, maxLines, width int) []string {
	if maxLines <= 0 {
		return nil
	}
	if len(lines) <= maxLines {
		return lines
	}
	out := append([]string(nil), lines[:maxLines]...)
	last := out[maxLines-1]
	if runewidth.StringWidth(last) < width {
		out[maxLines-1] = last + "…"
	} else {
		out[maxLines-1] = runewidth.Truncate(last, width, "…")
	}
	return out
}

// Wrap breaks s at spaces into lines no wider than first (the first line)
// and rest (every other line). Words wider than a line are split.
func Wrap(s string, first, rest int) []string {
	if first <= 0 || rest <= 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   strings.Builder
		curW  int
		limit = first
	)
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW, limit = 0, rest
	}

	for i, word := range strings.Split(s, " ") {
		w := runewidth.StringWidth(word)
		if i > 0 {
			if curW+1+w <= limit {
				cur.WriteByte(' ')
				curW++
			} else {
				flush()
			}
		}
		for w > 0 && w > limit-curW {
			if curW > 0 {
				flush()
				continue
			}
			head := runewidth.Truncate(word, limit, "")
			if head == "" {
				head = string([]rune(word)[:1])
			}
			cur.WriteString(head)
			curW = runewidth.StringWidth(head)
			word = word[len(head):]
			if w = runewidth.StringWidth(word); w > 0 {
				flush()
			}
		}
		cur.WriteString(word)
		curW += w
	}
	return append(lines, cur.String())
}

// RenderPrompt draws lines inside the prompt box spanning width.
func RenderPrompt(width int, style lipgloss.Style, lines []string) string {
	frameW, _ := style.GetFrameSize()
	if len(lines) == 0 {
		lines = []string{""}
	}
	return style.Width(max(0, width-frameW)).Render(strings.Join(lines, "\n"))
}

func indent(lines []string, first, rest string) []string {
	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = rest + lines[i]
		}
	}
	return lines
}
