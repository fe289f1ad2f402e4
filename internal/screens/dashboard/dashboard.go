// Package dashboard shows a topic's learning path with each module's
// status and badge.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/progression"
	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/layout"
	"github.com/abhisek/pathmind/internal/ui/theme"
)

type loadedMsg struct {
	Dashboard *progression.Dashboard
	Err       error
}

// Screen is the per-topic dashboard.
type Screen struct {
	svc    screen.Services
	topic  string
	loaded bool
	dash   *progression.Dashboard
	err    error
	menu   components.Menu
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Focuser = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the dashboard for topic. It loads on Init.
func New(svc screen.Services, topic string) *Screen {
	return &Screen{svc: svc, topic: topic}
}

func (s *Screen) Init() tea.Cmd {
	return s.load()
}

// Focus reloads so a module completed in a lesson shows right away.
func (s *Screen) Focus() tea.Cmd {
	return s.load()
}

func (s *Screen) Title() string {
	return s.topic
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if errors.Is(s.err, progression.ErrNoLearningPath) {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Take the test"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open module"},
		{Key: "T", Description: "Retake test"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) load() tea.Cmd {
	progress, user, topic := s.svc.Progress, s.svc.User, s.topic
	return func() tea.Msg {
		d, err := progress.Dashboard(context.Background(), user, topic)
		return loadedMsg{Dashboard: d, Err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.dash, s.err = msg.Dashboard, msg.Err
		if s.dash != nil {
			selected := s.menu.Selected
			s.menu = s.buildMenu()
			if selected > 0 && selected < len(s.menu.Items) && !s.menu.Items[selected].Disabled {
				s.menu.Selected = selected
			}
		}
		return s, nil

	case tea.KeyMsg:
		if !s.loaded {
			return s, nil
		}
		if errors.Is(s.err, progression.ErrNoLearningPath) {
			if msg.String() == "enter" {
				return s, nav.Diagnostic(s.topic)
			}
			return s, nil
		}
		if msg.String() == "t" || msg.String() == "T" {
			return s, nav.Go(nav.GoMsg{Route: nav.RouteDiagnostic, Topic: s.topic})
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) buildMenu() components.Menu {
	items := make([]components.MenuItem, len(s.dash.Modules))
	for i, m := range s.dash.Modules {
		items[i] = components.MenuItem{
			Label:    fmt.Sprintf("%d. %s", m.Index+1, m.Step),
			Hint:     hint(m),
			Disabled: m.Status == progression.StatusLocked,
			Action: func() tea.Cmd {
				return nav.Go(nav.GoMsg{
					Route:  nav.RouteLesson,
					Topic:  s.dash.Topic,
					Index:  m.Index,
					Review: m.Status == progression.StatusCompleted,
				})
			},
		}
	}
	return components.NewMenu(items)
}

func hint(m progression.ModuleView) string {
	parts := []string{statusIcon(m.Status)}
	switch m.Badge {
	case progression.BadgeStrength:
		parts = append(parts, theme.Strength.Render("strength"))
	case progression.BadgeWeakness:
		parts = append(parts, theme.Weakness.Render("needs work"))
	case progression.BadgeRecommended:
		parts = append(parts, theme.Recommended.Render("start here"))
	}
	return strings.Join(parts, " ")
}

func statusIcon(st progression.Status) string {
	switch st {
	case progression.StatusCompleted:
		return theme.Correct.Render("✓")
	case progression.StatusAvailable:
		return theme.Available.Render("○")
	}
	return theme.Locked.Render("🔒")
}

func (s *Screen) View(width, height int) string {
	switch {
	case !s.loaded:
		return components.Message("Loading your learning path...", theme.Hint, width, height)
	case errors.Is(s.err, progression.ErrNoLearningPath):
		return components.Message("No learning path for "+s.topic+" yet.\n\nPress Enter to take the diagnostic test.", theme.Subtitle, width, height)
	case s.err != nil:
		return components.Message("We couldn't load your learning path. Please try again.", lipgloss.NewStyle().Foreground(theme.Error), width, height)
	}

	d := s.dash
	cw := components.ContentWidth(width)
	var b strings.Builder

	if d.Analysis != nil {
		b.WriteString(components.Centered(theme.Subtitle, fmt.Sprintf("Diagnostic score %d%%", d.Analysis.OverallScore), cw))
		b.WriteString("\n")
	}
	b.WriteString(components.NewProgressBar(d.CompletedCount, d.TotalModules, cw).View())
	b.WriteString("\n\n")
	b.WriteString(components.Card(s.menu.View(), cw))

	if m, ok := d.Module(s.menu.Selected); ok && m.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Render(m.Description))
	}
	return components.Frame(b.String(), width, height)
}
