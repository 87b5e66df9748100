package session

import (
	"time"

	"github.com/kavin/cogniquest/internal/navigator"
)

// EventKind identifies what happened in an Event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventLoadFailed
	EventAdvanced
	EventBack
	EventTick
	EventNarrationStarted
	EventUtterance
	EventNarrationFinished
	EventFinishing
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventLoadFailed:
		return "load_failed"
	case EventAdvanced:
		return "advanced"
	case EventBack:
		return "back"
	case EventTick:
		return "tick"
	case EventNarrationStarted:
		return "narration_started"
	case EventUtterance:
		return "utterance"
	case EventNarrationFinished:
		return "narration_finished"
	case EventFinishing:
		return "finishing"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is published to subscribers as the exam progresses.
type Event struct {
	Kind       EventKind
	Index      int
	QuestionID int
	Direction  navigator.Direction
	Remaining  time.Duration

	// Utterance is set for EventUtterance.
	Utterance string

	// Err is set for EventLoadFailed.
	Err error
}

const subscriberBuffer = 256

type subscriber struct {
	ch chan Event
}

// publishLocked delivers e to every subscriber without blocking. A
// subscriber that has fallen a full buffer behind loses the event; only
// ticks are expected to be dropped in practice.
func (c *Controller) publishLocked(e Event) {
	for _, s := range c.subs {
		select {
		case s.ch <- e:
		default:
			c.log.Warn("subscriber lagging, event dropped", "event", e.Kind.String())
		}
	}
}

// Subscribe returns a channel of exam events and a function that ends the
// subscription. The channel is closed when the subscription ends or the
// controller is closed.
func (c *Controller) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &subscriber{ch: make(chan Event, subscriberBuffer)}
	if c.closed {
		close(s.ch)
		return s.ch, func() {}
	}
	c.subs = append(c.subs, s)

	return s.ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, other := range c.subs {
			if other == s {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				close(s.ch)
				return
			}
		}
	}
}
