package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathmind/internal/ui/theme"
)

// MenuItem is one row of a Menu. Disabled rows are drawn but the cursor
// skips them, which is how locked modules are shown.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu returns a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = max(m.next(-1, 1), 0)
	return m
}

// next returns the first enabled index after from in direction dir, or
// -1 when there is none.
func (m Menu) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) move(from, dir int) Menu {
	if i := m.next(from, dir); i >= 0 {
		m.Selected = i
	}
	return m
}

// Update moves the cursor and runs the selected item's Action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m = m.move(m.Selected, -1)
	case "down", "j":
		m = m.move(m.Selected, 1)
	case "home", "g":
		m = m.move(-1, 1)
	case "end", "G":
		m = m.move(len(m.Items), -1)
	case "enter":
		if m.Selected < 0 || m.Selected >= len(m.Items) {
			break
		}
		if item := m.Items[m.Selected]; item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	return m, nil
}

// View renders one line per item.
func (m Menu) View() string {
	hint := lipgloss.NewStyle().Foreground(theme.TextDim)
	lines := make([]string, len(m.Items))
	for i, item := range m.Items {
		style, marker := theme.Unselected, "    "
		switch {
		case i == m.Selected:
			style, marker = theme.Selected, "  ▸ "
		case item.Disabled:
			style = theme.Locked
		}
		lines[i] = style.Render(marker + item.Label)
		if item.Hint != "" {
			lines[i] += "  " + hint.Render(item.Hint)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
