// Package topic is the free-text topic entry screen.
package topic

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/onboarding"
	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/layout"
	"github.com/abhisek/pathmind/internal/ui/theme"
)

const charLimit = 80

// Screen asks for a topic and starts its diagnostic test.
type Screen struct {
	input components.TextInput
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates an empty topic entry.
func New() *Screen {
	return &Screen{input: components.NewTextInput("e.g. Python, Data Structures, React", charLimit)}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string {
	return "New Topic"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start test"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		topic, err := onboarding.ValidateFreeText(s.input.Value())
		if err != nil {
			s.input.Err = "Please enter at least 3 characters."
			return s, nil
		}
		return s, nav.Diagnostic(topic)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	heading := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	sections := []string{
		components.Centered(heading, "What would you like to learn?", cw),
		components.Centered(theme.Hint, "We'll ask a few questions to find where to start.", cw),
		components.Card(s.input.View(), cw),
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
