package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kavin/cogniquest/internal/ui/theme"
)

// Choice is a single-selection row of options. Nothing is chosen until the
// user presses space or enter on an option.
type Choice struct {
	Label   string
	Options []string
	Cursor  int
	Chosen  int
	focused bool
}

// NewChoice creates a choice with nothing selected.
func NewChoice(label string, options []string) Choice {
	return Choice{Label: label, Options: options, Chosen: -1}
}

func (c *Choice) Focus() { c.focused = true }
func (c *Choice) Blur()  { c.focused = false }

// Update moves the cursor and records a choice. The bool reports whether
// the chosen option changed.
func (c Choice) Update(msg tea.Msg) (Choice, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !c.focused {
		return c, false
	}
	switch kmsg.String() {
	case "left", "h", "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "right", "l", "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		if c.Chosen != c.Cursor {
			c.Chosen = c.Cursor
			return c, true
		}
	}
	return c, false
}

// Value returns the chosen option, or "" if none.
func (c Choice) Value() string {
	if c.Chosen < 0 || c.Chosen >= len(c.Options) {
		return ""
	}
	return c.Options[c.Chosen]
}

// Select marks the option equal to value as chosen.
func (c *Choice) Select(value string) {
	c.Chosen = -1
	for i, o := range c.Options {
		if o == value {
			c.Chosen, c.Cursor = i, i
		}
	}
}

// View renders the label and the options side by side.
func (c Choice) View() string {
	label := theme.Label
	if !c.focused {
		label = label.Foreground(theme.TextDim)
	}
	s := label.Render(c.Label+":") + " "
	for i, opt := range c.Options {
		mark := "( )"
		if i == c.Chosen {
			mark = "(•)"
		}
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if c.focused && i == c.Cursor {
			style = theme.Selected
		}
		s += style.Render(mark+" "+opt) + "   "
	}
	return s
}
