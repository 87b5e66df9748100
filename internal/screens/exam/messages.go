package exam

import (
	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/session"
)

// startedMsg reports the outcome of Controller.Start.
type startedMsg struct {
	Err error
}

// eventMsg carries one controller event into the update loop.
type eventMsg struct {
	Event session.Event
}

// eventsClosedMsg is sent when the subscription channel closes.
type eventsClosedMsg struct{}

// waitForEvent blocks on the subscription and turns the next event into a
// message. The screen re-issues it after every event.
func waitForEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{Event: e}
	}
}
