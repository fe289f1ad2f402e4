package lesson

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/pathmind/internal/lesson"
	"github.com/abhisek/pathmind/internal/progression"
	"github.com/abhisek/pathmind/internal/router"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/screens/screentest"
)

const wait = 2 * time.Second

func opened(t *testing.T, env *screentest.Env, topic string, index int, review bool) *Screen {
	t.Helper()
	s := New(env.Services, topic, index, review)
	s.Update(screentest.Await[openedMsg](t, s.Init(), wait))
	return s
}

// answerCorrectly moves from the lesson text to a graded answer.
func answerCorrectly(t *testing.T, s *Screen) {
	t.Helper()
	s.Update(screentest.Enter)
	s.Update(screentest.Key('3'))
	s.Update(screentest.Enter)
	if s.lesson.Phase() != lesson.PhaseGraded {
		t.Fatalf("expected graded, got %s", s.lesson.Phase())
	}
}

func TestLesson_CompleteUnlocksNext(t *testing.T) {
	env := screentest.NewEnv(t)
	env.SeedPath(t, "Go")

	s := opened(t, env, "Go", 0, false)
	if s.lesson == nil {
		t.Fatalf("lesson not opened: %s", s.errMsg)
	}
	if out := s.View(80, 30); !strings.Contains(out, "All about Syntax") {
		t.Fatalf("expected explanation, got:\n%s", out)
	}

	s.Update(screentest.Enter)
	if s.lesson.Phase() != lesson.PhasePractice {
		t.Fatalf("expected practice, got %s", s.lesson.Phase())
	}

	// Wrong first: the question stays open.
	s.Update(screentest.Key('1'))
	if _, cmd := s.Update(screentest.Enter); cmd != nil {
		t.Fatal("a wrong answer must not schedule completion")
	}
	if s.feedback != "Not quite. Try again!" || s.choice.Wrong != "a" {
		t.Fatalf("unexpected feedback %q wrong=%q", s.feedback, s.choice.Wrong)
	}
	if s.grade == nil || s.grade.Correct {
		t.Fatalf("expected an incorrect grade, got %+v", s.grade)
	}
	if out := s.View(80, 30); !strings.Contains(out, "Not quite") || !strings.Contains(out, "c is right.") {
		t.Fatalf("a wrong answer must show the explanation, got:\n%s", out)
	}

	s.Update(screentest.Key('3'))
	if s.choice.Wrong != "" || s.grade != nil {
		t.Fatal("moving the cursor clears the wrong mark and its explanation")
	}
	_, tick := s.Update(screentest.Enter)
	if tick == nil || s.grade == nil || !s.grade.Correct {
		t.Fatal("expected a correct grade with an advance timer")
	}

	// Any key skips the wait.
	_, cmd := s.Update(screentest.Key('x'))
	s.Update(screentest.Await[completedMsg](t, cmd, wait))
	if !s.finished || s.tip != "Keep going!" {
		t.Fatalf("expected finished with tip, got finished=%v tip=%q", s.finished, s.tip)
	}
	if out := s.View(80, 30); !strings.Contains(out, "Module complete!") {
		t.Fatalf("expected completion view, got:\n%s", out)
	}

	d, err := env.Services.Progress.Dashboard(context.Background(), env.Services.User, "Go")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Modules[0].Status != progression.StatusCompleted || d.Modules[1].Status != progression.StatusAvailable {
		t.Fatalf("unexpected statuses %s, %s", d.Modules[0].Status, d.Modules[1].Status)
	}

	_, cmd = s.Update(screentest.Key('n'))
	goMsg := screentest.Await[nav.GoMsg](t, cmd, wait)
	if goMsg.Route != nav.RouteLesson || goMsg.Index != 1 || !goMsg.Replace {
		t.Fatalf("unexpected navigation %+v", goMsg)
	}
}

func TestLesson_AdvanceCompletesOnce(t *testing.T) {
	env := screentest.NewEnv(t)
	env.SeedPath(t, "Go")
	s := opened(t, env, "Go", 0, false)
	answerCorrectly(t, s)

	_, cmd := s.Update(advanceMsg{})
	if cmd == nil {
		t.Fatal("expected completion command")
	}
	if _, again := s.Update(advanceMsg{}); again != nil {
		t.Fatal("completion must only start once")
	}
	s.Update(screentest.Await[completedMsg](t, cmd, wait))

	_, cmd = s.Update(screentest.Enter)
	screentest.Await[router.PopScreenMsg](t, cmd, wait)
}

func TestLesson_ReviewSkipsTip(t *testing.T) {
	env := screentest.NewEnv(t)
	env.SeedPath(t, "Go")
	env.Writer.MarkCompleted(env.Services.User.String(), "Syntax")
	env.Flush(t)

	s := opened(t, env, "Go", 0, false)
	if !s.lesson.Review {
		t.Fatal("a completed module opens in review mode")
	}
	answerCorrectly(t, s)
	_, cmd := s.Update(advanceMsg{})
	s.Update(screentest.Await[completedMsg](t, cmd, wait))
	if s.tip != "" {
		t.Fatalf("review must not fetch a tip, got %q", s.tip)
	}
	if out := s.View(80, 30); !strings.Contains(out, "Review complete.") {
		t.Fatalf("expected review completion, got:\n%s", out)
	}
}

func TestLesson_Guards(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		index int
	}{
		{"locked", "Go", 1},
		{"out of range", "Go", 7},
		{"negative", "Go", -1},
		{"no path", "Rust", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := screentest.NewEnv(t)
			env.SeedPath(t, "Go")

			s := New(env.Services, tt.topic, tt.index, false)
			_, cmd := s.Update(screentest.Await[openedMsg](t, s.Init(), wait))
			screentest.Await[router.PopScreenMsg](t, cmd, wait)
		})
	}
}

func TestLesson_ContentFailureRetries(t *testing.T) {
	env := screentest.NewEnv(t)
	env.SeedPath(t, "Go")
	env.Gen.ContentErr = screentest.ErrBoom

	s := opened(t, env, "Go", 0, false)
	if s.lesson != nil || s.errMsg == "" {
		t.Fatal("expected a load error")
	}
	if out := s.View(80, 24); !strings.Contains(out, "Press R to retry.") {
		t.Fatalf("expected retry prompt, got:\n%s", out)
	}

	env.Gen.ContentErr = nil
	_, cmd := s.Update(screentest.Key('r'))
	s.Update(screentest.Await[openedMsg](t, cmd, wait))
	if s.lesson == nil {
		t.Fatalf("expected lesson after retry, got error %q", s.errMsg)
	}
}
