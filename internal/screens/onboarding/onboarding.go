// Package onboarding walks a new learner from education level to a
// first topic in four steps.
package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	ob "github.com/abhisek/pathmind/internal/onboarding"
	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/layout"
	"github.com/abhisek/pathmind/internal/ui/theme"
)

const subjectsTimeout = 30 * time.Second

// subjectsLoadedMsg carries the subjects for degree.
type subjectsLoadedMsg struct {
	Degree   string
	Subjects []string
	Fallback bool
}

// chooseMsg is sent by a menu item.
type chooseMsg struct {
	Value string
}

// Screen is the onboarding flow.
type Screen struct {
	svc  screen.Services
	flow *ob.Flow

	menu     components.Menu
	subjects []string
	loading  bool
	fallback bool

	// typing is set while the learner enters a custom value.
	typing bool
	input  components.TextInput
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New starts at the education step.
func New(svc screen.Services) *Screen {
	s := &Screen{svc: svc, flow: ob.NewFlow()}
	s.menu = s.buildMenu()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return fmt.Sprintf("Getting Started (%d/%d)", s.flow.Step(), ob.StepCount)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.typing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Tab", Description: "Back to list"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if s.flow.Step() > ob.StepEducation {
		hints = append(hints, layout.KeyHint{Key: "←", Description: "Previous step"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case subjectsLoadedMsg:
		if s.flow.Step() != ob.StepSubject || msg.Degree != s.flow.Degree {
			return s, nil
		}
		s.loading = false
		s.subjects = msg.Subjects
		s.fallback = msg.Fallback
		s.menu = s.buildMenu()
		return s, nil

	case chooseMsg:
		return s.choose(msg.Value)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.typing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.typing {
		switch msg.String() {
		case "enter":
			return s.choose(s.input.Value())
		case "tab":
			s.typing = false
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	// Going back stays possible while subjects load; the late result is
	// dropped by the degree check in Update.
	if msg.String() == "left" || msg.String() == "h" {
		return s.back()
	}
	if s.loading {
		return s, nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// choose applies value to the current step. OtherOption opens the text
// input for steps that accept free text.
func (s *Screen) choose(value string) (screen.Screen, tea.Cmd) {
	if value == ob.OtherOption && !s.typing && s.flow.Step() != ob.StepEducation {
		s.typing = true
		s.input = components.NewTextInput("Type your own...", 80)
		return s, s.input.Init()
	}

	var err error
	switch s.flow.Step() {
	case ob.StepEducation:
		err = s.flow.ChooseLevel(value)
	case ob.StepDegree:
		err = s.flow.ChooseDegree(value)
	case ob.StepSubject:
		err = s.flow.ChooseSubject(value)
	case ob.StepTopic:
		err = s.flow.ChooseTopic(value)
	}
	if err != nil {
		if s.typing {
			s.input.Err = "Please enter at least 3 characters."
		}
		return s, nil
	}

	s.typing = false
	if s.flow.Done() {
		return s, nav.Diagnostic(s.flow.Topic)
	}

	var cmd tea.Cmd
	if s.flow.Step() == ob.StepSubject {
		s.loading = true
		s.subjects = nil
		cmd = s.loadSubjects(s.flow.Degree)
	}
	s.menu = s.buildMenu()
	return s, cmd
}

func (s *Screen) back() (screen.Screen, tea.Cmd) {
	if s.flow.Step() == ob.StepEducation {
		return s, nil
	}
	s.flow.Back()
	s.typing = false
	s.loading = false
	s.menu = s.buildMenu()
	return s, nil
}

func (s *Screen) loadSubjects(degree string) tea.Cmd {
	gen := s.svc.Generator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), subjectsTimeout)
		defer cancel()
		var src ob.SubjectSource
		if gen != nil {
			src = gen
		}
		subjects, fallback := ob.Subjects(ctx, src, degree)
		return subjectsLoadedMsg{Degree: degree, Subjects: subjects, Fallback: fallback}
	}
}

func choice(value string) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return chooseMsg{Value: value} }
	}
}

func (s *Screen) buildMenu() components.Menu {
	var items []components.MenuItem
	switch s.flow.Step() {
	case ob.StepEducation:
		for _, l := range ob.Levels() {
			items = append(items, components.MenuItem{Label: l.Title, Hint: l.Description, Action: choice(l.ID)})
		}
	case ob.StepDegree:
		for _, d := range ob.DegreesFor(s.flow.Level) {
			items = append(items, components.MenuItem{Label: d, Action: choice(d)})
		}
		if !containsOther(items) {
			items = append(items, components.MenuItem{Label: ob.OtherOption, Action: choice(ob.OtherOption)})
		}
	case ob.StepSubject:
		for _, sub := range s.subjects {
			items = append(items, components.MenuItem{Label: sub, Action: choice(sub)})
		}
		items = append(items, components.MenuItem{Label: ob.OtherOption, Action: choice(ob.OtherOption)})
	case ob.StepTopic:
		for _, t := range ob.Topics(s.flow.Subject) {
			items = append(items, components.MenuItem{Label: t.Name, Hint: t.Difficulty, Action: choice(t.Name)})
		}
		items = append(items, components.MenuItem{Label: ob.OtherOption, Action: choice(ob.OtherOption)})
	}
	return components.NewMenu(items)
}

func containsOther(items []components.MenuItem) bool {
	for _, it := range items {
		if it.Label == ob.OtherOption {
			return true
		}
	}
	return false
}

var prompts = map[ob.Step]string{
	ob.StepEducation: "What's your current education level?",
	ob.StepDegree:    "What are you studying?",
	ob.StepSubject:   "Pick a subject",
	ob.StepTopic:     "Pick a topic to start with",
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	heading := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	sections := []string{
		components.NewProgressBar(int(s.flow.Step()), ob.StepCount, cw).View(),
		components.Centered(heading, prompts[s.flow.Step()], cw),
	}

	switch {
	case s.loading:
		sections = append(sections, components.Centered(theme.Hint, "Finding subjects for "+s.flow.Degree+"...", cw))
	case s.typing:
		sections = append(sections, components.Card(s.input.View(), cw))
	default:
		if s.flow.Step() == ob.StepSubject && s.fallback {
			sections = append(sections, components.Centered(theme.Hint, "Showing popular subjects.", cw))
		}
		sections = append(sections, components.Card(s.menu.View(), cw))
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
