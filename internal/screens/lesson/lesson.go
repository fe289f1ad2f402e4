// Package lesson is the screen for one module: the explanation, a
// practice question and the completion tip.
package lesson

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathmind/internal/lesson"
	"github.com/abhisek/pathmind/internal/router"
	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/ui/components"
	"github.com/abhisek/pathmind/internal/ui/layout"
)

// openedMsg carries the loaded lesson.
type openedMsg struct {
	Lesson *lesson.Lesson
	Err    error
}

// advanceMsg fires after a correct answer has been shown long enough.
type advanceMsg struct{}

// completedMsg carries the completion tip.
type completedMsg struct {
	Tip string
	Err error
}

// Screen runs one lesson.
type Screen struct {
	svc    screen.Services
	topic  string
	index  int
	review bool

	lesson   *lesson.Lesson
	loading  bool
	errMsg   string
	choice   components.Choice
	feedback string
	grade    *lesson.Grade
	tip      string
	finished bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the lesson for module index of topic.
func New(svc screen.Services, topic string, index int, review bool) *Screen {
	return &Screen{svc: svc, topic: topic, index: index, review: review}
}

func (s *Screen) Init() tea.Cmd {
	return s.open()
}

func (s *Screen) Title() string {
	if s.lesson != nil {
		return s.lesson.Module.Step
	}
	return s.topic
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.lesson == nil:
		return []layout.KeyHint{{Key: "R", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
	case s.finished:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Back to path"}}
		if s.lesson.HasNext() {
			hints = append(hints, layout.KeyHint{Key: "N", Description: "Next module"})
		}
		return hints
	}
	switch s.lesson.Phase() {
	case lesson.PhaseReady:
		return []layout.KeyHint{{Key: "Enter", Description: "Practice"}, {Key: "Esc", Description: "Back"}}
	case lesson.PhasePractice:
		return []layout.KeyHint{
			{Key: "↑↓/1-4", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return nil
}

func (s *Screen) open() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	flow, user, topic, index, review := s.svc.Lessons, s.svc.User, s.topic, s.index, s.review
	return func() tea.Msg {
		l, err := flow.Open(context.Background(), user, topic, index, review)
		return openedMsg{Lesson: l, Err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg:
		return s.handleOpened(msg)

	case advanceMsg:
		return s, s.complete()

	case completedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = "We couldn't save your progress. Please try again."
			return s, nil
		}
		s.tip = msg.Tip
		s.finished = true
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleOpened(msg openedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	switch {
	case msg.Err == nil:
		s.lesson = msg.Lesson
		s.choice = components.NewChoice(s.lesson.Content.Practice.Options)
		return s, nil
	case errors.Is(msg.Err, lesson.ErrOutOfRange),
		errors.Is(msg.Err, lesson.ErrLocked),
		errors.Is(msg.Err, lesson.ErrNoLearningPath):
		// Navigation guard: back to the dashboard.
		return s, router.Pop()
	}
	s.svc.Logger().Warn("open lesson failed", "topic", s.topic, "index", s.index, "error", msg.Err)
	s.errMsg = "We couldn't load this lesson. Please try again."
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	key := msg.String()

	if s.lesson == nil {
		if key == "r" || key == "R" {
			return s, s.open()
		}
		return s, nil
	}

	if s.finished {
		switch key {
		case "enter":
			return s, router.Pop()
		case "n", "N":
			if s.lesson.HasNext() {
				return s, nav.Go(nav.GoMsg{Route: nav.RouteLesson, Topic: s.lesson.Topic, Index: s.index + 1, Replace: true})
			}
		}
		return s, nil
	}

	switch s.lesson.Phase() {
	case lesson.PhaseReady:
		if key == "enter" {
			if err := s.lesson.StartPractice(); err != nil {
				s.errMsg = err.Error()
			}
		}
	case lesson.PhasePractice:
		if key == "enter" {
			return s.submit()
		}
		var moved bool
		if s.choice, moved = s.choice.Update(msg); moved {
			s.feedback = ""
			s.grade = nil
			s.choice.Wrong = ""
		}
	case lesson.PhaseGraded:
		// Any key skips the wait.
		return s, s.complete()
	}
	return s, nil
}

func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	if err := s.lesson.Select(s.choice.Value()); err != nil {
		return s, nil
	}
	g, err := s.lesson.Submit()
	if err != nil {
		return s, nil
	}
	s.grade = &g
	if !g.Correct {
		s.choice.Wrong = s.choice.Value()
		s.feedback = "Not quite. Try again!"
		return s, nil
	}
	s.choice.Correct = s.choice.Value()
	s.feedback = "Correct!"
	return s, tea.Tick(g.AdvanceAfter, func(time.Time) tea.Msg { return advanceMsg{} })
}

// complete records the completion once; later calls return the same tip.
func (s *Screen) complete() tea.Cmd {
	if s.finished || s.loading {
		return nil
	}
	s.loading = true
	l, svc := s.lesson, s.svc
	return func() tea.Msg {
		tip, err := l.Complete(context.Background())
		if err == nil && !l.Review {
			svc.Flush()
		}
		return completedMsg{Tip: tip, Err: err}
	}
}
