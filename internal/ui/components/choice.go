package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D", "E", "F"}

// Choice is a single-answer option picker. The cursor is the tentative
// answer; number keys jump to an option.
type Choice struct {
	Options []string
	Cursor  int

	// Correct and Wrong color an option after grading.
	Correct string
	Wrong   string
}

// NewChoice creates a picker with the cursor on the first option.
func NewChoice(options []string) Choice {
	return Choice{Options: options}
}

// Update moves the cursor. It reports whether the cursor changed.
func (c Choice) Update(msg tea.Msg) (Choice, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Options) == 0 {
		return c, false
	}

	prev := c.Cursor
	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(c.Options) {
			c.Cursor = int(key[0] - '1')
		}
	}
	return c, c.Cursor != prev
}

// Value returns the option under the cursor.
func (c Choice) Value() string {
	if c.Cursor < 0 || c.Cursor >= len(c.Options) {
		return ""
	}
	return c.Options[c.Cursor]
}

// View renders the options.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		label := fmt.Sprint(i + 1)
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case opt == c.Correct:
			style = theme.Correct
		case opt == c.Wrong:
			style = theme.Incorrect
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
