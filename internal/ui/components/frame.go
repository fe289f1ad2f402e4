package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all sections.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 76 {
		w = 76
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a rounded frame centered in the given area.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a bordered card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// Centered renders text centered at width in style.
func Centered(style lipgloss.Style, text string, width int) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

// Message renders a centered status line such as a loading or error
// notice.
func Message(text string, style lipgloss.Style, width, height int) string {
	return style.
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(text)
}
