package setup

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/router"
	"github.com/kavin/cogniquest/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "exam" }
func (s *stubScreen) Title() string                           { return "Exam" }

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestSetup(initial Settings) (*SetupScreen, *[]Settings) {
	var started []Settings
	s := New(i18n.Default(), initial, func(st Settings) screen.Screen {
		started = append(started, st)
		return &stubScreen{}
	})
	return s, &started
}

func press(s *SetupScreen, keys ...rune) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(specialKey(k))
	}
	return cmd
}

func TestInitialDurationIsClamped(t *testing.T) {
	s, _ := newTestSetup(Settings{Duration: 500 * time.Second, HighSchool: true})
	if got := s.Settings().Duration; got != 120*time.Second {
		t.Errorf("duration = %v, want 120s", got)
	}
}

func TestAdjustDurationInSteps(t *testing.T) {
	s, _ := newTestSetup(Settings{Duration: 60 * time.Second, HighSchool: true})

	press(s, tea.KeyUp, tea.KeyUp) // duration row
	press(s, tea.KeyRight, tea.KeyRight)
	if got := s.Settings().Duration; got != 70*time.Second {
		t.Errorf("duration = %v, want 70s", got)
	}

	for range 20 {
		press(s, tea.KeyLeft)
	}
	if got := s.Settings().Duration; got != 10*time.Second {
		t.Errorf("duration = %v, want floor of 10s", got)
	}
}

func TestToggleEducation(t *testing.T) {
	s, _ := newTestSetup(Settings{Duration: 60 * time.Second, HighSchool: true})

	press(s, tea.KeyUp) // education row
	press(s, tea.KeyRight)
	if s.Settings().HighSchool {
		t.Error("expected education toggled off")
	}
	if !strings.Contains(s.View(100, 30), "No") {
		t.Error("expected the view to show the new education answer")
	}
}

func TestStartReplacesScreen(t *testing.T) {
	s, started := newTestSetup(Settings{Duration: 45 * time.Second, HighSchool: false})

	cmd := press(s, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a command from start")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Exam" {
		t.Errorf("unexpected screen %q", msg.Screen.Title())
	}
	if len(*started) != 1 || (*started)[0] != (Settings{Duration: 45 * time.Second}) {
		t.Errorf("started with %+v", *started)
	}
}

func TestViewShowsDisclaimer(t *testing.T) {
	s, _ := newTestSetup(Settings{Duration: 60 * time.Second, HighSchool: true})
	if !strings.Contains(s.View(120, 40), "screening tool") {
		t.Error("expected the disclaimer on the setup screen")
	}
}
