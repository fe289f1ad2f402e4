package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathmind/internal/diagnostic"
	"github.com/abhisek/pathmind/internal/router"
	"github.com/abhisek/pathmind/internal/screen"
	diagscreen "github.com/abhisek/pathmind/internal/screens/diagnostic"
	"github.com/abhisek/pathmind/internal/screens/dashboard"
	"github.com/abhisek/pathmind/internal/screens/home"
	lessonscreen "github.com/abhisek/pathmind/internal/screens/lesson"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/screens/onboarding"
	"github.com/abhisek/pathmind/internal/screens/topic"
	"github.com/abhisek/pathmind/internal/screens/topics"
	"github.com/abhisek/pathmind/internal/ui/layout"
)

// Options configure the terminal app.
type Options struct {
	Services screen.Services

	// Status is shown on the right of the header.
	Status string

	// OnTransition observes diagnostic stage changes.
	OnTransition diagnostic.TransitionFunc

	// Start, when set, opens this route above the home screen.
	Start *nav.GoMsg
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

const homeKey = "home"

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	return AppModel{
		opts:   opts,
		router: router.New(homeKey, home.New()),
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.opts.Start != nil {
		return nav.Go(*m.opts.Start)
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case nav.GoMsg:
		key := msg.Key()
		if msg.Replace {
			// Back to a screen that is already open, such as the
			// dashboard a retake was started from.
			if cmd, ok := m.router.Unwind(key); ok {
				return m, cmd
			}
			return m, m.router.Replace(key, m.resolve(msg))
		}
		return m, m.router.Push(key, m.resolve(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Pop()
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// resolve builds the screen for a route.
func (m AppModel) resolve(msg nav.GoMsg) screen.Screen {
	svc := m.opts.Services
	switch msg.Route {
	case nav.RouteOnboarding:
		return onboarding.New(svc)
	case nav.RouteTopics:
		return topics.New(svc)
	case nav.RouteDiagnostic:
		return diagscreen.New(svc, msg.Topic, m.opts.OnTransition)
	case nav.RouteDashboard:
		return dashboard.New(svc, msg.Topic)
	case nav.RouteLesson:
		return lessonscreen.New(svc, msg.Topic, msg.Index, msg.Review)
	}
	return topic.New()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	chrome := layout.Chrome{Status: m.opts.Status, Hints: defaultHints(m.router.Depth())}
	if active := m.router.Active(); active != nil {
		chrome.Title = active.Title()
		if p, ok := active.(screen.KeyHintProvider); ok && len(p.KeyHints()) > 0 {
			chrome.Hints = p.KeyHints()
		}
	}

	v.SetContent(chrome.Render(m.width, m.height, m.router.View))
	return v
}

// defaultHints are shown for screens that don't describe their own keys.
func defaultHints(depth int) []layout.KeyHint {
	if depth > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and closes every open screen when
// it exits.
func Run(opts Options) error {
	model := newAppModel(opts)
	defer model.router.Close()

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
