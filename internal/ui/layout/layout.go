package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/ui/theme"
)

// Smallest terminal the lesson and diagnostic screens render legibly in.
const (
	MinWidth  = 80
	MinHeight = 24
)

const brand = "Pathmind"

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Chrome is the header and footer drawn around the active screen.
type Chrome struct {
	Title  string
	Status string // right side of the header, e.g. the active model
	Hints  []KeyHint
}

// Fits reports whether a width x height terminal can hold the chrome
// and a usable body.
func Fits(width, height int) bool {
	return width >= MinWidth && height >= MinHeight
}

// Render draws the chrome across a width x height terminal. body is
// called with the space left between header and footer.
func (c Chrome) Render(width, height int, body func(w, h int) string) string {
	if !Fits(width, height) {
		return tooSmall(width, height)
	}

	header := c.header(width)
	footer := c.footer(width)
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := lipgloss.NewStyle().
		Width(width).
		Height(h).
		MaxHeight(h).
		Render(body(width, h))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (c Chrome) header(width int) string {
	inner := max(width-4, 0)
	side := inner / 4

	left := lipgloss.NewStyle().
		Width(side).
		Foreground(theme.Primary).
		Bold(true).
		Render(" " + brand)
	right := lipgloss.NewStyle().
		Width(side).
		Align(lipgloss.Right).
		Foreground(theme.Accent).
		MaxWidth(side).
		Render(c.Status)
	center := lipgloss.NewStyle().
		Width(inner - 2*side).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(c.Title)

	return bar(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, center, right))
}

func (c Chrome) footer(width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(c.Hints))
	for i, h := range c.Hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

func tooSmall(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}
