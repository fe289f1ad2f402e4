package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/abhisek/pathmind/internal/progression"
	"github.com/abhisek/pathmind/internal/screens/nav"
	"github.com/abhisek/pathmind/internal/screens/screentest"
)

const wait = 2 * time.Second

func loaded(t *testing.T, env *screentest.Env, topic string) *Screen {
	t.Helper()
	s := New(env.Services, topic)
	s.Update(screentest.Await[loadedMsg](t, s.Init(), wait))
	return s
}

func TestDashboard_ModulesAndLocks(t *testing.T) {
	env := screentest.NewEnv(t)
	env.SeedPath(t, "Go")
	s := loaded(t, env, "Go")

	if len(s.menu.Items) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(s.menu.Items))
	}
	if s.menu.Items[0].Disabled || !s.menu.Items[1].Disabled {
		t.Fatal("only the first module is open on a new path")
	}

	// The cursor cannot reach a locked module.
	s.Update(screentest.Key('j'))
	if s.menu.Selected != 0 {
		t.Fatalf("cursor moved onto a locked module: %d", s.menu.Selected)
	}

	out := s.View(80, 30)
	for _, want := range []string{"Diagnostic score 50%", "1. Syntax", "2. Closures", "0/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}

	_, cmd := s.Update(screentest.Enter)
	msg := screentest.Await[nav.GoMsg](t, cmd, wait)
	if msg.Route != nav.RouteLesson || msg.Index != 0 || msg.Review || msg.Replace {
		t.Fatalf("unexpected navigation %+v", msg)
	}
}

func TestDashboard_FocusReloadsProgress(t *testing.T) {
	env := screentest.NewEnv(t)
	env.SeedPath(t, "Go")
	s := loaded(t, env, "Go")

	env.Writer.MarkCompleted(env.Services.User.String(), "Syntax")
	env.Flush(t)
	s.Update(screentest.Await[loadedMsg](t, s.Focus(), wait))

	if s.dash.CompletedCount != 1 || s.dash.Modules[1].Status != progression.StatusAvailable {
		t.Fatalf("expected the second module to unlock, got %+v", s.dash.Summary)
	}
	if s.menu.Items[1].Disabled {
		t.Fatal("expected the second module to be selectable")
	}

	_, cmd := s.Update(screentest.Enter)
	msg := screentest.Await[nav.GoMsg](t, cmd, wait)
	if !msg.Review {
		t.Fatal("a completed module opens in review mode")
	}
}

func TestDashboard_NoLearningPath(t *testing.T) {
	env := screentest.NewEnv(t)
	s := loaded(t, env, "Haskell")

	if out := s.View(80, 24); !strings.Contains(out, "No learning path for Haskell yet.") {
		t.Fatalf("expected the empty message, got:\n%s", out)
	}
	_, cmd := s.Update(screentest.Enter)
	msg := screentest.Await[nav.GoMsg](t, cmd, wait)
	if msg.Route != nav.RouteDiagnostic || msg.Topic != "Haskell" || !msg.Replace {
		t.Fatalf("unexpected navigation %+v", msg)
	}
}

func TestDashboard_Retake(t *testing.T) {
	env := screentest.NewEnv(t)
	env.SeedPath(t, "Go")
	s := loaded(t, env, "Go")

	_, cmd := s.Update(screentest.Key('t'))
	msg := screentest.Await[nav.GoMsg](t, cmd, wait)
	if msg.Route != nav.RouteDiagnostic || msg.Replace {
		t.Fatalf("retake pushes a diagnostic, got %+v", msg)
	}
}
