package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestChromeRender(t *testing.T) {
	c := Chrome{
		Title:  "Learning Path",
		Status: "openai · gpt-4o-mini",
		Hints:  []KeyHint{{Key: "Enter", Description: "Open"}},
	}

	var bodyW, bodyH int
	out := c.Render(100, 30, func(w, h int) string {
		bodyW, bodyH = w, h
		return "body"
	})

	for _, want := range []string{"Pathmind", "Learning Path", "Enter", "Open", "body"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if bodyW != 100 || bodyH <= 0 || bodyH >= 30 {
		t.Fatalf("unexpected body area %dx%d", bodyW, bodyH)
	}
	if got := lipgloss.Height(out); got != 30 {
		t.Fatalf("frame height = %d, want 30", got)
	}
}

func TestChromeTooSmall(t *testing.T) {
	called := false
	out := Chrome{}.Render(60, 20, func(int, int) string { called = true; return "" })
	if called {
		t.Fatal("body must not render in a terminal that is too small")
	}
	if !strings.Contains(out, "Terminal too small!") || !strings.Contains(out, "60 x 20") {
		t.Fatalf("unexpected message:\n%s", out)
	}
	if Fits(MinWidth-1, MinHeight) || !Fits(MinWidth, MinHeight) {
		t.Fatal("Fits disagrees with the minimum size")
	}
}
