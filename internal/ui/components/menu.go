package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/ui/theme"
)

// MenuItem is one row of a Menu. Left and Right adjust a setting in place;
// Action runs on enter.
type MenuItem struct {
	Label  func() string
	Action func() tea.Cmd
	Left   func()
	Right  func()
}

// Menu is a vertical list of settings and actions.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first item selected.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	item := m.Items[m.Selected]
	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j", "tab":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "left", "h":
		if item.Left != nil {
			item.Left()
		}
	case "right", "l", "space", " ":
		if item.Right != nil {
			item.Right()
		}
	case "enter":
		if item.Action != nil {
			return m, item.Action()
		}
		if item.Right != nil {
			item.Right()
		}
	}
	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label()))
		} else {
			b.WriteString(theme.Unselected.Render("    " + item.Label()))
		}
		b.WriteString("\n")
	}
	return b.String()
}
