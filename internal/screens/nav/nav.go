// Package nav names the places a screen can send the learner to. The app
// resolves a GoMsg into a screen, so screens never import each other.
package nav

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
)

// Route is a destination.
type Route int

const (
	RouteOnboarding Route = iota // Guided level, degree, subject and topic choice
	RouteTopicEntry              // Free-text topic
	RouteTopics                  // Topics with a learning path
	RouteDiagnostic              // Diagnostic test for Topic
	RouteDashboard               // Learning path for Topic
	RouteLesson                  // Module Index of Topic
)

var routeNames = [...]string{"onboarding", "topic", "topics", "diagnostic", "dashboard", "lesson"}

func (r Route) String() string {
	if r < 0 || int(r) >= len(routeNames) {
		return "unknown"
	}
	return routeNames[r]
}

// GoMsg asks the app to open a route. Replace swaps the active screen
// instead of pushing on top of it.
type GoMsg struct {
	Route   Route
	Topic   string
	Index   int
	Review  bool
	Replace bool
}

// Go returns a command that pushes the route.
func Go(m GoMsg) tea.Cmd {
	return func() tea.Msg { return m }
}

// Dashboard opens the learning path for topic in place of the active
// screen.
func Dashboard(topic string) tea.Cmd {
	return Go(GoMsg{Route: RouteDashboard, Topic: topic, Replace: true})
}

// Diagnostic starts a test for topic in place of the active screen.
func Diagnostic(topic string) tea.Cmd {
	return Go(GoMsg{Route: RouteDiagnostic, Topic: topic, Replace: true})
}

// Key identifies the screen m opens. Two messages with the same key
// open the same screen.
func (m GoMsg) Key() string {
	if m.Route == RouteLesson {
		return fmt.Sprintf("%s|%s|%d", m.Route, m.Topic, m.Index)
	}
	return m.Route.String() + "|" + m.Topic
}
