package narration

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Mode selects how narration is rendered.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeExec    Mode = "exec"
	ModeConsole Mode = "console"
	ModeSilent  Mode = "silent"
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeExec, ModeConsole, ModeSilent:
		return m, nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("unknown narration mode %q (want auto, exec, console or silent)", s)
}

// ExecSpeaker speaks by running a text-to-speech command with the utterance
// as its final argument.
type ExecSpeaker struct {
	Command string
	Args    []string
}

func (s ExecSpeaker) Say(ctx context.Context, text string) error {
	args := append(append([]string(nil), s.Args...), text)
	cmd := exec.CommandContext(ctx, s.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", s.Command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// WriterSpeaker prints each utterance on its own line.
type WriterSpeaker struct {
	mu sync.Mutex
	W  io.Writer
}

func (s *WriterSpeaker) Say(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.W, "» %s\n", text)
	return err
}

// SilentSpeaker produces no output. It holds each utterance for Pace so the
// subject has time to read it on screen.
type SilentSpeaker struct {
	Pace time.Duration
}

func (s SilentSpeaker) Say(ctx context.Context, _ string) error {
	if s.Pace <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.Pace):
		return nil
	}
}

// DetectCommand returns the first text-to-speech command found on PATH.
func DetectCommand() (string, bool) {
	candidates := []string{"espeak-ng", "espeak", "spd-say"}
	if runtime.GOOS == "darwin" {
		candidates = append([]string{"say"}, candidates...)
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c); err == nil {
			return c, true
		}
	}
	return "", false
}

// Config selects and configures a Speaker.
type Config struct {
	Mode    Mode
	Command string
	Out     io.Writer
	Pace    time.Duration
}

// NewSpeaker builds the Speaker for cfg. Auto mode prefers a detected
// text-to-speech command and falls back to silent.
func NewSpeaker(cfg Config) (Speaker, error) {
	cfg.Command = strings.TrimSpace(cfg.Command)
	switch cfg.Mode {
	case ModeExec:
		cmd := cfg.Command
		if cmd == "" {
			detected, ok := DetectCommand()
			if !ok {
				return nil, fmt.Errorf("no text-to-speech command found; set narration.command")
			}
			cmd = detected
		}
		return execSpeaker(cmd), nil
	case ModeConsole:
		if cfg.Out == nil {
			return nil, fmt.Errorf("console narration needs an output writer")
		}
		return &WriterSpeaker{W: cfg.Out}, nil
	case ModeSilent:
		return SilentSpeaker{Pace: cfg.Pace}, nil
	}

	if cfg.Command != "" {
		return execSpeaker(cfg.Command), nil
	}
	if cmd, ok := DetectCommand(); ok {
		return execSpeaker(cmd), nil
	}
	return SilentSpeaker{Pace: cfg.Pace}, nil
}

// execSpeaker splits a configured command line such as "espeak -s 140".
func execSpeaker(commandLine string) ExecSpeaker {
	fields := strings.Fields(commandLine)
	return ExecSpeaker{Command: fields[0], Args: fields[1:]}
}
