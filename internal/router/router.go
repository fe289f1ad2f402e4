// Package router keeps the stack of open screens.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathmind/internal/screen"
)

// PopScreenMsg asks the router to close the active screen.
type PopScreenMsg struct{}

// Pop returns a command that pops the active screen.
func Pop() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}

// entry is a screen and the key it was opened under.
type entry struct {
	key    string
	screen screen.Screen
}

// Router is a stack of screens. The bottom screen is never popped.
type Router struct {
	stack []entry
}

// New creates a Router with root at the bottom.
func New(key string, root screen.Screen) *Router {
	return &Router{stack: []entry{{key, root}}}
}

// Push opens s on top of the stack.
func (r *Router) Push(key string, s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, entry{key, s})
	return s.Init()
}

// Pop closes the top screen and refocuses the one below it.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	return r.unwindTo(len(r.stack) - 2)
}

// Replace closes the top screen and opens s in its place.
func (r *Router) Replace(key string, s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(key, s)
	}
	closeScreen(r.stack[len(r.stack)-1].screen)
	r.stack[len(r.stack)-1] = entry{key, s}
	return s.Init()
}

// Unwind closes every screen above the nearest one opened under key and
// refocuses it. It reports false, changing nothing, when no screen below
// the top has that key.
func (r *Router) Unwind(key string) (tea.Cmd, bool) {
	for i := len(r.stack) - 2; i >= 0; i-- {
		if r.stack[i].key == key {
			return r.unwindTo(i), true
		}
	}
	return nil, false
}

func (r *Router) unwindTo(i int) tea.Cmd {
	for j := len(r.stack) - 1; j > i; j-- {
		closeScreen(r.stack[j].screen)
	}
	r.stack = r.stack[:i+1]
	if f, ok := r.Active().(screen.Focuser); ok {
		return f.Focus()
	}
	return nil
}

// Close closes every screen on the stack, top first.
func (r *Router) Close() {
	for i := len(r.stack) - 1; i >= 0; i-- {
		closeScreen(r.stack[i].screen)
	}
}

func closeScreen(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}

// Active returns the top screen, or nil for an empty stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1].screen
}

// Depth returns the number of open screens.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles PopScreenMsg and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(PopScreenMsg); ok {
		return r.Pop()
	}
	if len(r.stack) == 0 {
		return nil
	}
	top := &r.stack[len(r.stack)-1]
	var cmd tea.Cmd
	top.screen, cmd = top.screen.Update(msg)
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
