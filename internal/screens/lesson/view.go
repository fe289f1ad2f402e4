package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/lesson"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.lesson == nil {
		if s.errMsg != "" {
			return components.Message(s.errMsg+"\n\nPress R to retry.", lipgloss.NewStyle().Foreground(theme.Error), width, height)
		}
		return components.Message("Preparing your lesson...", theme.Hint, width, height)
	}

	cw := components.ContentWidth(width)
	l := s.lesson
	var b strings.Builder

	header := fmt.Sprintf("Module %d of %d", l.Module.Index+1, l.Total)
	if l.Review {
		header += "  · review"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(header))
	b.WriteString("\n\n")

	switch {
	case s.finished:
		s.renderFinished(&b, cw)
	case l.Phase() == lesson.PhaseReady:
		s.renderContent(&b, cw)
	default:
		s.renderPractice(&b, cw)
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return components.Frame(components.Card(b.String(), cw), width, height)
}

func (s *Screen) renderContent(b *strings.Builder, cw int) {
	c := s.lesson.Content
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 6).Render(c.Explanation))
	b.WriteString("\n")
	if c.CodeSnippet != "" {
		b.WriteString("\n")
		b.WriteString(theme.Code.Render(c.CodeSnippet))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Press Enter for a practice question."))
}

func (s *Screen) renderPractice(b *strings.Builder, cw int) {
	pq := s.lesson.Content.Practice
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 6).Render(pq.Question))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.grade == nil {
		return
	}
	verdict := theme.Incorrect
	if s.grade.Correct {
		verdict = theme.Correct
	}
	b.WriteString("\n")
	b.WriteString(verdict.Render(s.feedback))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw - 6).Render(s.grade.Explanation))
}

func (s *Screen) renderFinished(b *strings.Builder, cw int) {
	if s.lesson.Review {
		b.WriteString(theme.Correct.Render("Review complete."))
		b.WriteString("\n")
		return
	}
	b.WriteString(theme.Correct.Render("Module complete!"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Width(cw - 6).Render(s.tip))
	b.WriteString("\n")
}
