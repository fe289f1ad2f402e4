package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/theme"
)

const banner = `█▀█ ▄▀█ ▀█▀ █░█ █▀▄▀█ █ █▄░█ █▀▄
█▀▀ █▀█ ░█░ █▀█ █░▀░█ █ █░▀█ █▄▀`

const tagline = "Find your gaps. Follow your path."

// HomeScreen is the main menu.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New() *HomeScreen {
	open := func(r nav.Route) func() tea.Cmd {
		return func() tea.Cmd { return nav.Go(nav.GoMsg{Route: r}) }
	}
	items := []components.MenuItem{
		{Label: "GET STARTED", Hint: "pick a topic step by step", Action: open(nav.RouteOnboarding)},
		{Label: "NEW TOPIC", Hint: "take a diagnostic test", Action: open(nav.RouteTopicEntry)},
		{Label: "MY TOPICS", Hint: "continue a learning path", Action: open(nav.RouteTopics)},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	sections := []string{
		components.Centered(title, banner, cw),
		components.Centered(theme.Subtitle, tagline, cw),
		components.Card(h.menu.View(), cw),
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
