// Package setup is the first screen: the exam settings and the start action.
package setup

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/router"
	"github.com/kavin/cogniquest/internal/screen"
	"github.com/kavin/cogniquest/internal/session"
	"github.com/kavin/cogniquest/internal/ui/components"
	"github.com/kavin/cogniquest/internal/ui/layout"
	"github.com/kavin/cogniquest/internal/ui/theme"
)

// Settings are the choices made before the exam starts.
type Settings struct {
	Duration   time.Duration
	HighSchool bool
}

// SetupScreen lets the user adjust the time per question and the
// education level, then starts the exam.
type SetupScreen struct {
	tr       *i18n.Translator
	settings Settings
	menu     components.Menu
	start    func(Settings) screen.Screen
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen. start builds the exam screen from the
// chosen settings.
func New(tr *i18n.Translator, initial Settings, start func(Settings) screen.Screen) *SetupScreen {
	initial.Duration = session.ClampDuration(initial.Duration)
	s := &SetupScreen{tr: tr, settings: initial, start: start}
	s.menu = components.NewMenu([]components.MenuItem{
		{
			Label: func() string {
				return fmt.Sprintf("%-24s ◂ %3ds ▸", tr.T("SettingsDuration"), int(s.settings.Duration.Seconds()))
			},
			Left:  func() { s.adjust(-session.DurationStep) },
			Right: func() { s.adjust(session.DurationStep) },
		},
		{
			Label: func() string {
				answer := tr.T("No")
				if s.settings.HighSchool {
					answer = tr.T("Yes")
				}
				return fmt.Sprintf("%-24s ◂ %s ▸", tr.T("SettingsEducation"), answer)
			},
			Left:  func() { s.settings.HighSchool = !s.settings.HighSchool },
			Right: func() { s.settings.HighSchool = !s.settings.HighSchool },
		},
		{
			Label:  func() string { return tr.T("StartExam") },
			Action: s.begin,
		},
		{
			Label:  func() string { return tr.T("Quit") },
			Action: func() tea.Cmd { return tea.Quit },
		},
	})
	s.menu.Selected = 2
	return s
}

// Settings returns the current choices.
func (s *SetupScreen) Settings() Settings { return s.settings }

func (s *SetupScreen) adjust(delta time.Duration) {
	s.settings.Duration = session.ClampDuration(s.settings.Duration + delta)
}

func (s *SetupScreen) begin() tea.Cmd {
	next := s.start(s.settings)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *SetupScreen) Init() tea.Cmd { return nil }

func (s *SetupScreen) Title() string { return "" }

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Adjust"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SetupScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		theme.Subtitle.Render(s.tr.T("AppTagline")),
		"",
		lipgloss.NewStyle().Align(lipgloss.Left).Render(s.menu.View()),
		"",
		theme.Disclaimer.Width(min(width-4, 72)).Render(s.tr.T("Disclaimer")),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
