package diagnostic

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/diagnostic"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *Screen) View(width, height int) string {
	switch s.view.Stage {
	case diagnostic.StageGenerating.String():
		return s.renderWaiting("Preparing questions on "+s.topic+"...", width, height)
	case diagnostic.StageAnalyzing.String():
		return s.renderWaiting("Analyzing your answers...", width, height)
	case diagnostic.StageTesting.String():
		return s.renderQuestion(width, height)
	case diagnostic.StageResults.String():
		return s.renderResults(width, height)
	}
	if s.pending {
		return s.renderWaiting("Preparing questions on "+s.topic+"...", width, height)
	}
	return s.renderIdle(width, height)
}

func (s *Screen) renderWaiting(text string, width, height int) string {
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	return components.Message(frame+"  "+text, lipgloss.NewStyle().Foreground(theme.TextDim), width, height)
}

func (s *Screen) renderIdle(width, height int) string {
	msg := s.view.Error
	if msg == "" {
		msg = "Ready when you are."
	}
	text := lipgloss.NewStyle().Foreground(theme.Error).Render(msg) + "\n\n" +
		theme.Hint.Render("Press Enter to try again.")
	return components.Message(text, lipgloss.NewStyle(), width, height)
}

func (s *Screen) renderQuestion(width, height int) string {
	v := s.view
	cw := components.ContentWidth(width)
	var b strings.Builder

	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", v.Index+1, v.Total))
	if v.Question.Difficulty != "" {
		info += "  " + difficultyStyle(v.Question.Difficulty).Render(string(v.Question.Difficulty))
	}
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar(v.Answered, v.Total, cw).View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).Render(v.Question.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return components.Frame(components.Card(b.String(), cw), width, height)
}

func difficultyStyle(d content.Difficulty) lipgloss.Style {
	switch d {
	case content.Easy:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case content.Hard:
		return lipgloss.NewStyle().Foreground(theme.Error)
	}
	return lipgloss.NewStyle().Foreground(theme.Accent)
}

func (s *Screen) renderResults(width, height int) string {
	v := s.view
	an := v.Analysis
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(components.Centered(theme.Title, fmt.Sprintf("Score: %d%%", an.OverallScore), cw))
	b.WriteString("\n")
	b.WriteString(components.Centered(theme.Subtitle, fmt.Sprintf("%d of %d correct", v.Correct, v.Total), cw))
	b.WriteString("\n\n")

	writeList(&b, "Strengths", an.Strengths, theme.Strength)
	writeList(&b, "To work on", an.Weaknesses, theme.Weakness)

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Your learning path"))
	b.WriteString("\n")
	for i, m := range an.LearningPath {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, m.Step))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return components.Frame(components.Card(b.String(), cw), width, height)
}

func writeList(b *strings.Builder, title string, items []string, style lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(title))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString(style.Render("  • " + it))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
