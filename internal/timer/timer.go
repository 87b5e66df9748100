// Package timer implements the per-question countdown.
//
// The timer is an explicit state machine. Every Start or Resume opens a new
// epoch and schedules exactly one countdown; the previous countdown is
// cancelled first. Ticks carry the epoch they were scheduled for, and a tick
// from an older epoch is dropped, so a countdown can never be charged twice.
package timer

import (
	"sync"
	"time"
)

// State is the lifecycle state of a Timer.
type State int

const (
	Idle State = iota
	Running
	Paused
	Stopped
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Resolution is the countdown step.
const Resolution = time.Second

// Callbacks receive countdown notifications. They run on the ticking
// goroutine outside the timer's lock, so they may call back into the Timer.
// Receivers should compare epoch against their own record and ignore
// notifications from an epoch they have moved past.
type Callbacks struct {
	OnTick   func(epoch uint64, remaining time.Duration)
	OnExpire func(epoch uint64)
}

// Timer is a pausable countdown at one-second resolution.
type Timer struct {
	clock Clock
	cb    Callbacks

	mu        sync.Mutex
	state     State
	remaining time.Duration
	epoch     uint64
	cancel    func()
}

// New creates an idle timer. A nil clock selects RealClock.
func New(clock Clock, cb Callbacks) *Timer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Timer{clock: clock, cb: cb}
}

// Start resets the remaining time to d and starts counting down, cancelling
// any countdown in progress. Durations are truncated to whole seconds with a
// minimum of one second. It returns the new epoch.
func (t *Timer) Start(d time.Duration) uint64 {
	d = d.Truncate(Resolution)
	if d < Resolution {
		d = Resolution
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.remaining = d
	return t.runLocked()
}

// Pause halts the countdown without touching the remaining time. It is a
// no-op unless the timer is running.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Running {
		return
	}
	t.cancelLocked()
	t.state = Paused
}

// Resume continues a paused countdown from the remaining time and returns
// the new epoch. ok is false if the timer was not paused.
func (t *Timer) Resume() (epoch uint64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Paused {
		return t.epoch, false
	}
	return t.runLocked(), true
}

// Stop halts the countdown and zeroes the remaining time.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.remaining = 0
	t.state = Stopped
}

// Remaining returns the time left in the current countdown.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// State returns the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Epoch returns the epoch of the most recent Start or Resume.
func (t *Timer) Epoch() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch
}

func (t *Timer) runLocked() uint64 {
	t.cancelLocked()
	t.epoch++
	t.state = Running

	epoch := t.epoch
	t.cancel = t.clock.Every(Resolution, func() { t.tick(epoch) })
	return epoch
}

func (t *Timer) cancelLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Timer) tick(epoch uint64) {
	t.mu.Lock()
	if epoch != t.epoch || t.state != Running {
		t.mu.Unlock()
		return
	}

	t.remaining -= Resolution
	if t.remaining < 0 {
		t.remaining = 0
	}
	remaining := t.remaining

	expired := remaining == 0
	if expired {
		t.cancelLocked()
		t.state = Expired
	}
	t.mu.Unlock()

	if t.cb.OnTick != nil {
		t.cb.OnTick(epoch, remaining)
	}
	if expired && t.cb.OnExpire != nil {
		t.cb.OnExpire(epoch)
	}
}
