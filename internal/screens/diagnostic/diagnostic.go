// Package diagnostic is the screen for one diagnostic test: questions
// are answered one at a time and the analysis is shown at the end.
package diagnostic

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathmind/internal/diagnostic"
	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/layout"
)

// startedMsg is sent when question generation finishes.
type startedMsg struct {
	Err error
}

// confirmedMsg is sent when an answer was confirmed, including the
// analysis that follows the last one.
type confirmedMsg struct {
	Err error
}

// spinnerTickMsg animates the waiting indicator.
type spinnerTickMsg time.Time

// Screen drives a diagnostic.Session.
type Screen struct {
	svc     screen.Services
	topic   string
	sess    *diagnostic.Session
	view    diagnostic.View
	choice  components.Choice
	pending bool
	errMsg  string
	frame   int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a screen that tests topic. The test starts on Init.
func New(svc screen.Services, topic string, onTransition diagnostic.TransitionFunc) *Screen {
	sess := diagnostic.NewSession(svc.User, svc.Generator, svc.Recorder, svc.Log)
	if onTransition != nil {
		sess.OnTransition(onTransition)
	}
	return &Screen{svc: svc, topic: topic, sess: sess, view: sess.View()}
}

func (s *Screen) Init() tea.Cmd {
	return s.start()
}

func (s *Screen) Title() string {
	return "Diagnostic: " + s.topic
}

// Close abandons the test; a generator call still running is discarded.
func (s *Screen) Close() {
	s.sess.Abandon()
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.stage() {
	case diagnostic.StageTesting:
		return []layout.KeyHint{
			{Key: "↑↓/1-4", Description: "Choose"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Quit test"},
		}
	case diagnostic.StageResults:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start learning"},
			{Key: "R", Description: "Retake"},
			{Key: "Esc", Description: "Back"},
		}
	case diagnostic.StageIdle:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
}

func (s *Screen) stage() diagnostic.Stage {
	return s.sess.Stage()
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.pending = false
		s.errMsg = ""
		s.refresh()
		return s, nil

	case confirmedMsg:
		s.pending = false
		s.errMsg = ""
		s.refresh()
		// Generator failures show as the idle failure; a stale result
		// belongs to an attempt the learner already left.
		if msg.Err != nil && s.view.Error == "" && !errors.Is(msg.Err, diagnostic.ErrStale) {
			s.errMsg = diagnostic.UserMessage(msg.Err)
		}
		return s, nil

	case spinnerTickMsg:
		if !s.pending {
			return s, nil
		}
		s.frame++
		s.view = s.sess.View()
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) refresh() {
	prevIndex, prevStage := s.view.Index, s.view.Stage
	s.view = s.sess.View()
	if s.view.Question != nil && (s.view.Index != prevIndex || s.view.Stage != prevStage || len(s.choice.Options) == 0) {
		s.choice = components.NewChoice(s.view.Question.Options)
	}
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.pending {
		return s, nil
	}
	key := msg.String()

	switch s.stage() {
	case diagnostic.StageTesting:
		if key == "enter" {
			return s.confirm()
		}
		var moved bool
		s.choice, moved = s.choice.Update(msg)
		if moved {
			if err := s.sess.SelectOption(s.choice.Value()); err != nil {
				s.errMsg = diagnostic.UserMessage(err)
			}
			s.view = s.sess.View()
		}
		return s, nil

	case diagnostic.StageResults:
		switch key {
		case "enter":
			return s, s.openDashboard()
		case "r", "R":
			if err := s.sess.Reset(); err != nil {
				s.errMsg = diagnostic.UserMessage(err)
				return s, nil
			}
			return s, s.start()
		}

	case diagnostic.StageIdle:
		if key == "enter" || key == "r" || key == "R" {
			return s, s.start()
		}
	}
	return s, nil
}

func (s *Screen) confirm() (screen.Screen, tea.Cmd) {
	if err := s.sess.SelectOption(s.choice.Value()); err != nil {
		s.errMsg = diagnostic.UserMessage(err)
		return s, nil
	}
	s.pending = true
	sess := s.sess
	s.view = sess.View()
	return s, tea.Batch(func() tea.Msg {
		return confirmedMsg{Err: sess.ConfirmAnswer(context.Background())}
	}, spinnerTick())
}

// openDashboard waits for the learning path to be stored, then opens it.
func (s *Screen) openDashboard() tea.Cmd {
	svc, topic := s.svc, s.view.Topic
	return func() tea.Msg {
		svc.Flush()
		return nav.GoMsg{Route: nav.RouteDashboard, Topic: topic, Replace: true}
	}
}

func (s *Screen) start() tea.Cmd {
	s.pending = true
	s.frame = 0
	sess, topic := s.sess, s.topic
	return tea.Batch(func() tea.Msg {
		return startedMsg{Err: sess.StartTest(context.Background(), topic)}
	}, spinnerTick())
}

func spinnerTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
