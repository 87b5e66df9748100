package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and optional digit filter.
type TextInput struct {
	Model       textinput.Model
	Label       string
	NumericOnly bool
}

// NewTextInput creates a labelled, unfocused text input.
func NewTextInput(label, placeholder string, numericOnly bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{
		Model:       ti,
		Label:       label,
		NumericOnly: numericOnly,
	}
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has the cursor.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages. Non-digit characters are dropped when the input
// is numeric. The bool reports whether the value changed.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd, bool) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			if text := kmsg.Key().Text; text != "" && strings.Trim(text, "0123456789") != "" {
				return t, nil, false
			}
		}
	}

	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd, t.Model.Value() != before
}

// View renders the label and the input on one line.
func (t TextInput) View() string {
	label := theme.Label
	if !t.Model.Focused() {
		label = label.Foreground(theme.TextDim)
	}
	if t.Label == "" {
		return t.Model.View()
	}
	return label.Render(t.Label+":") + " " + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// NumericValue returns the input as an integer. Empty or invalid input is 0.
func (t TextInput) NumericValue() int {
	n, err := strconv.Atoi(strings.TrimSpace(t.Model.Value()))
	if err != nil {
		return 0
	}
	return n
}
