// Package narration reads question prompts aloud.
//
// A Narrator plays a sequence of utterances with a pause after each one and
// reports completion exactly once per Speak call, whether the sequence ran
// to the end or was cut short by Stop.
package narration

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Narrator speaks utterance sequences.
type Narrator interface {
	// Speak starts playing utterances and returns immediately. done is called
	// once, from another goroutine, when the sequence ends or is stopped.
	// Starting a new sequence stops the previous one.
	Speak(ctx context.Context, utterances []string, delay time.Duration, done func())

	// Stop cuts the current sequence short. It is safe to call at any time
	// and any number of times.
	Stop()
}

// Speaker renders one utterance and returns when it has finished.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Player is a Narrator that plays sequences through a Speaker.
type Player struct {
	speaker     Speaker
	log         *slog.Logger
	onUtterance func(index int, text string)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger for speaker failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.log = l }
}

// WithUtteranceHook registers f to be called as each utterance begins.
func WithUtteranceHook(f func(index int, text string)) Option {
	return func(p *Player) { p.onUtterance = f }
}

// NewPlayer creates a Player around speaker.
func NewPlayer(speaker Speaker, opts ...Option) *Player {
	p := &Player{speaker: speaker, log: slog.Default()}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Player) Speak(ctx context.Context, utterances []string, delay time.Duration, done func()) {
	runCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer cancel()
		if done != nil {
			defer done()
		}
		p.play(runCtx, utterances, delay)
	}()
}

func (p *Player) play(ctx context.Context, utterances []string, delay time.Duration) {
	for i, u := range utterances {
		if ctx.Err() != nil {
			return
		}
		if p.onUtterance != nil {
			p.onUtterance(i, u)
		}
		if err := p.speaker.Say(ctx, u); err != nil && ctx.Err() == nil {
			p.log.Warn("narration failed", "utterance", i, "error", err)
		}
		if delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Wait blocks until every started sequence has reported completion.
func (p *Player) Wait() {
	p.wg.Wait()
}
