// Package topics lists the topics the learner has a learning path for.
package topics

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/theme"
)

type topicsLoadedMsg struct {
	Topics []string
	Err    error
}

// Screen shows one entry per topic, most recent first.
type Screen struct {
	svc    screen.Services
	loaded bool
	err    error
	topics []string
	menu   components.Menu
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Focuser = (*Screen)(nil)

// New creates the screen. Topics load on Init.
func New(svc screen.Services) *Screen {
	return &Screen{svc: svc}
}

func (s *Screen) Init() tea.Cmd {
	return s.load()
}

// Focus reloads when the learner comes back from a dashboard.
func (s *Screen) Focus() tea.Cmd {
	return s.load()
}

func (s *Screen) Title() string {
	return "My Topics"
}

func (s *Screen) load() tea.Cmd {
	progress, user := s.svc.Progress, s.svc.User
	return func() tea.Msg {
		t, err := progress.Topics(context.Background(), user)
		return topicsLoadedMsg{Topics: t, Err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicsLoadedMsg:
		s.loaded = true
		s.err = msg.Err
		s.topics = msg.Topics
		s.menu = s.buildMenu()
		return s, nil
	}

	if !s.loaded {
		return s, nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) buildMenu() components.Menu {
	items := make([]components.MenuItem, 0, len(s.topics)+1)
	for _, t := range s.topics {
		items = append(items, components.MenuItem{Label: t, Action: func() tea.Cmd {
			return nav.Go(nav.GoMsg{Route: nav.RouteDashboard, Topic: t})
		}})
	}
	items = append(items, components.MenuItem{Label: "+ New topic", Action: func() tea.Cmd {
		return nav.Go(nav.GoMsg{Route: nav.RouteTopicEntry})
	}})
	return components.NewMenu(items)
}

func (s *Screen) View(width, height int) string {
	if !s.loaded {
		return components.Message("Loading your topics...", theme.Hint, width, height)
	}
	cw := components.ContentWidth(width)

	heading := fmt.Sprintf("%d topic(s) in progress", len(s.topics))
	if s.err != nil {
		heading = "We couldn't load your topics."
	} else if len(s.topics) == 0 {
		heading = "No topics yet. Start one to get a learning path."
	}
	body := components.Centered(theme.Subtitle, heading, cw) + "\n\n" + components.Card(s.menu.View(), cw)
	return components.Frame(body, width, height)
}
