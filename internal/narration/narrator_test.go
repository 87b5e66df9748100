package narration

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavin/cogniquest/internal/exam"
)

type recordingSpeaker struct {
	mu     sync.Mutex
	said   []string
	block  chan struct{}
	failOn string
}

func (s *recordingSpeaker) Say(ctx context.Context, text string) error {
	s.mu.Lock()
	s.said = append(s.said, text)
	s.mu.Unlock()

	if s.block != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.block:
		}
	}
	if text == s.failOn {
		return errors.New("speaker broke")
	}
	return nil
}

func (s *recordingSpeaker) utterances() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.said...)
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("narration did not complete")
	}
}

func TestPlayerSpeaksSequence(t *testing.T) {
	sp := &recordingSpeaker{}
	var hooked []string
	p := NewPlayer(sp, WithUtteranceHook(func(_ int, text string) { hooked = append(hooked, text) }))

	done := make(chan struct{})
	p.Speak(context.Background(), []string{"a", "b", "c"}, 0, func() { close(done) })
	waitDone(t, done)

	assert.Equal(t, []string{"a", "b", "c"}, sp.utterances())
	assert.Equal(t, []string{"a", "b", "c"}, hooked)
}

func TestPlayerStopCompletesOnce(t *testing.T) {
	sp := &recordingSpeaker{block: make(chan struct{})}
	p := NewPlayer(sp)

	var calls atomic.Int32
	done := make(chan struct{})
	p.Speak(context.Background(), []string{"a", "b"}, 0, func() {
		calls.Add(1)
		close(done)
	})

	require.Eventually(t, func() bool { return len(sp.utterances()) == 1 }, time.Second, time.Millisecond)
	p.Stop()
	p.Stop()
	waitDone(t, done)
	p.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []string{"a"}, sp.utterances())
}

func TestPlayerNewSpeakStopsPrevious(t *testing.T) {
	sp := &recordingSpeaker{block: make(chan struct{})}
	p := NewPlayer(sp)

	first := make(chan struct{})
	p.Speak(context.Background(), []string{"one"}, 0, func() { close(first) })
	require.Eventually(t, func() bool { return len(sp.utterances()) == 1 }, time.Second, time.Millisecond)

	second := make(chan struct{})
	p.Speak(context.Background(), []string{"two"}, 0, func() { close(second) })
	waitDone(t, first)

	close(sp.block)
	waitDone(t, second)
}

func TestPlayerStopDuringDelay(t *testing.T) {
	p := NewPlayer(&recordingSpeaker{})

	done := make(chan struct{})
	p.Speak(context.Background(), []string{"a", "b"}, time.Hour, func() { close(done) })
	time.Sleep(10 * time.Millisecond)
	p.Stop()
	waitDone(t, done)
}

func TestPlayerSpeakerFailureStillCompletes(t *testing.T) {
	sp := &recordingSpeaker{failOn: "a"}
	p := NewPlayer(sp)

	done := make(chan struct{})
	p.Speak(context.Background(), []string{"a", "b"}, 0, func() { close(done) })
	waitDone(t, done)
	assert.Equal(t, []string{"a", "b"}, sp.utterances())
}

func TestStopWithoutSpeak(t *testing.T) {
	p := NewPlayer(SilentSpeaker{})
	assert.NotPanics(t, func() {
		p.Stop()
		p.Stop()
	})
}

func TestWriterSpeaker(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(&WriterSpeaker{W: &buf})

	done := make(chan struct{})
	p.Speak(context.Background(), []string{"Apple", "Pen"}, 0, func() { close(done) })
	waitDone(t, done)
	assert.Equal(t, "» Apple\n» Pen\n", buf.String())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAuto, "AUTO": ModeAuto, "exec": ModeExec, " console ": ModeConsole, "silent": ModeSilent} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("loud")
	assert.Error(t, err)
}

func TestNewSpeaker(t *testing.T) {
	sp, err := NewSpeaker(Config{Mode: ModeSilent, Pace: time.Second})
	require.NoError(t, err)
	assert.Equal(t, SilentSpeaker{Pace: time.Second}, sp)

	_, err = NewSpeaker(Config{Mode: ModeConsole})
	assert.Error(t, err)

	sp, err = NewSpeaker(Config{Mode: ModeExec, Command: "espeak -s 140"})
	require.NoError(t, err)
	assert.Equal(t, ExecSpeaker{Command: "espeak", Args: []string{"-s", "140"}}, sp)
}

func TestScript(t *testing.T) {
	reg := Script(exam.Question{Type: exam.TypeRegistration, Text: "Remember these."})
	assert.Equal(t, []string{"Remember these.", "Apple", "Pen", "Tie", "House", "Car"}, reg)

	series := Script(exam.Question{Type: exam.TypeNumberSeriesBackwards, Text: "Say them backwards."})
	require.Len(t, series, 4)
	assert.Equal(t, "eighty-seven", series[1])

	assert.Nil(t, Script(exam.Question{Type: exam.TypeCalculation, Text: "x"}))
}
