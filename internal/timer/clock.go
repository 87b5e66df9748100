package timer

import (
	"context"
	"sync"
	"time"
)

// Clock schedules the repeating countdown tick. Every calls f once per
// interval until the returned stop function is called.
type Clock interface {
	Every(interval time.Duration, f func()) (stop func())
}

// RealClock drives ticks from a time.Ticker on its own goroutine.
type RealClock struct{}

func (RealClock) Every(interval time.Duration, f func()) func() {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f()
			}
		}
	}()

	return cancel
}

// FakeClock is a Clock for tests. Ticks are delivered synchronously by
// Advance, so callbacks have finished running when Advance returns.
type FakeClock struct {
	mu     sync.Mutex
	nextID int
	active map[int]func()
}

func NewFakeClock() *FakeClock {
	return &FakeClock{active: make(map[int]func())}
}

func (c *FakeClock) Every(_ time.Duration, f func()) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.active[id] = f
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.active, id)
			c.mu.Unlock()
		})
	}
}

// Advance delivers n ticks to every active schedule.
func (c *FakeClock) Advance(n int) {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		ids := make([]int, 0, len(c.active))
		for id := range c.active {
			ids = append(ids, id)
		}
		c.mu.Unlock()

		for _, id := range ids {
			c.mu.Lock()
			f, ok := c.active[id]
			c.mu.Unlock()
			if ok {
				f()
			}
		}
	}
}

// Active returns the number of schedules that have not been stopped.
func (c *FakeClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}
