// Package theme holds the palette and the shared lipgloss styles.
package theme

import (
	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#8B5CF6") // violet
	Secondary = lipgloss.Color("#38BDF8") // sky
	Accent    = lipgloss.Color("#FBBF24") // amber
	Success   = lipgloss.Color("#34D399") // emerald
	Error     = lipgloss.Color("#FB7185") // rose
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#7C8BA1")
	BgCode    = lipgloss.Color("#111827")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#374151")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Code renders snippets from generated lessons.
	Code = lipgloss.NewStyle().Foreground(Secondary).Background(BgCode).Padding(0, 1)
)

// Choice and grading states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// Module status and badges on the dashboard.
var (
	Locked    = lipgloss.NewStyle().Foreground(TextDim)
	Available = lipgloss.NewStyle().Foreground(Accent)

	Strength    = lipgloss.NewStyle().Foreground(Success)
	Weakness    = lipgloss.NewStyle().Foreground(Error)
	Recommended = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)
