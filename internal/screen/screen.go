// Package screen defines the contract between the router and the views of
// the exam program.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/ui/layout"
)

// Screen is one full-window view.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and a command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content, excluding header and footer.
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status, such as the
// countdown, on the right of the header.
type StatusProvider interface {
	Status() string
}

// Closer is implemented by screens that hold resources. The router calls
// Close when the screen leaves the stack.
type Closer interface {
	Close()
}
