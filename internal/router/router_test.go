package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathmind/internal/screen"
)

// stubScreen records lifecycle calls.
type stubScreen struct {
	title   string
	inits   int
	closed  int
	focused int
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }
func (s *stubScreen) Close()                                  { s.closed++ }
func (s *stubScreen) Focus() tea.Cmd {
	s.focused++
	return nil
}

// plainScreen has no Close or Focus.
type plainScreen struct{ title string }

func (s *plainScreen) Init() tea.Cmd                           { return nil }
func (s *plainScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *plainScreen) View(int, int) string                    { return s.title }
func (s *plainScreen) Title() string                           { return s.title }

func TestPushPop(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New("home", home)

	top := &stubScreen{title: "topics"}
	r.Push("topics", top)
	if r.Depth() != 2 || r.Active() != top || top.inits != 1 {
		t.Fatalf("push: depth=%d active=%v inits=%d", r.Depth(), r.Active().Title(), top.inits)
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active() != home {
		t.Fatalf("pop: depth=%d active=%q", r.Depth(), r.Active().Title())
	}
	if top.closed != 1 || home.focused != 1 || home.closed != 0 {
		t.Fatalf("lifecycle: top closed %d, home focused %d closed %d", top.closed, home.focused, home.closed)
	}

	r.Pop()
	if r.Depth() != 1 || home.closed != 0 {
		t.Fatal("the root screen is never popped")
	}
}

func TestReplace(t *testing.T) {
	r := New("home", &plainScreen{title: "home"})
	first := &stubScreen{title: "first"}
	r.Push("first", first)

	second := &stubScreen{title: "second"}
	r.Replace("second", second)

	if r.Depth() != 2 || r.Active() != second || second.inits != 1 {
		t.Fatalf("replace: depth=%d active=%q inits=%d", r.Depth(), r.Active().Title(), second.inits)
	}
	if first.closed != 1 {
		t.Fatalf("replaced screen closed %d times", first.closed)
	}
}

func TestUnwind(t *testing.T) {
	r := New("home", &plainScreen{title: "home"})
	dash := &stubScreen{title: "dashboard"}
	r.Push("dashboard|Go", dash)
	lesson := &stubScreen{title: "lesson"}
	r.Push("lesson|Go|0", lesson)
	test := &stubScreen{title: "diagnostic"}
	r.Push("diagnostic|Go", test)

	if _, ok := r.Unwind("dashboard|Rust"); ok || r.Depth() != 4 {
		t.Fatal("unknown key must leave the stack alone")
	}
	if _, ok := r.Unwind("diagnostic|Go"); ok {
		t.Fatal("the active screen is not a target")
	}

	if _, ok := r.Unwind("dashboard|Go"); !ok {
		t.Fatal("expected to unwind to the dashboard")
	}
	if r.Depth() != 2 || r.Active() != dash {
		t.Fatalf("unwind: depth=%d active=%q", r.Depth(), r.Active().Title())
	}
	if test.closed != 1 || lesson.closed != 1 || dash.focused != 1 || dash.closed != 0 {
		t.Fatalf("lifecycle: test %d lesson %d dash focused %d closed %d",
			test.closed, lesson.closed, dash.focused, dash.closed)
	}
}

func TestClose(t *testing.T) {
	a := &stubScreen{title: "a"}
	b := &stubScreen{title: "b"}
	r := New("a", a)
	r.Push("b", b)
	r.Close()

	if a.closed != 1 || b.closed != 1 {
		t.Fatalf("expected every screen closed once, got a=%d b=%d", a.closed, b.closed)
	}
}

func TestViewAndUpdateReachTop(t *testing.T) {
	r := New("home", &plainScreen{title: "home"})
	r.Push("x", &plainScreen{title: "x"})
	if got := r.View(10, 10); got != "x" {
		t.Fatalf("view = %q", got)
	}
	if cmd := r.Update(tea.KeyPressMsg{Code: 'a'}); cmd != nil {
		t.Fatal("plain screen returns no command")
	}
}
