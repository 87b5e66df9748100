package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/report"
	"github.com/kavin/cogniquest/internal/router"
	"github.com/kavin/cogniquest/internal/screen"
	examscreen "github.com/kavin/cogniquest/internal/screens/exam"
	"github.com/kavin/cogniquest/internal/screens/notice"
	"github.com/kavin/cogniquest/internal/screens/results"
	"github.com/kavin/cogniquest/internal/screens/setup"
	"github.com/kavin/cogniquest/internal/session"
	"github.com/kavin/cogniquest/internal/ui/layout"
)

// Options configure an interactive run.
type Options struct {
	Translator *i18n.Translator

	// Settings are the initial exam settings.
	Settings setup.Settings

	// SkipSetup starts the exam immediately with Settings.
	SkipSetup bool

	// NewExam builds the exam controller for the chosen settings.
	NewExam func(setup.Settings) (examscreen.Controller, error)

	// Report builds the report for a scored exam.
	Report func(session.Outcome) report.Report

	// Summarize, if set, adds a plain-language summary to the results.
	Summarize results.SummarizeFunc

	// ProgramOptions are passed to the Bubble Tea program.
	ProgramOptions []tea.ProgramOption
}

// runState survives Bubble Tea's copies of AppModel.
type runState struct {
	results *results.ResultsScreen
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	tr     *i18n.Translator
	state  *runState
	width  int
	height int
}

// newAppModel creates the model with either the setup screen or, when
// setup is skipped, the exam screen.
func newAppModel(opts Options) AppModel {
	tr := opts.Translator
	if tr == nil {
		tr = i18n.Default()
	}
	state := &runState{}

	showResults := func(o session.Outcome) screen.Screen {
		state.results = results.New(tr, opts.Report(o), opts.Summarize)
		return state.results
	}
	startExam := func(st setup.Settings) screen.Screen {
		ctrl, err := opts.NewExam(st)
		if err != nil {
			slog.Error("could not start exam", "error", err)
			return notice.New(tr.T("AppTitle"), err.Error())
		}
		return examscreen.New(ctrl, tr, showResults)
	}

	var initial screen.Screen
	if opts.SkipSetup {
		initial = startExam(opts.Settings)
	} else {
		initial = setup.New(tr, opts.Settings, startExam)
	}
	return AppModel{router: router.New(initial), tr: tr, state: state}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.router.CloseAll()
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = kp.KeyHints()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits. It returns
// the report of the finished exam, or nil if the exam was not completed.
func Run(ctx context.Context, opts Options) (*report.Report, error) {
	if opts.NewExam == nil || opts.Report == nil {
		return nil, fmt.Errorf("app: NewExam and Report are required")
	}
	m := newAppModel(opts)
	defer m.router.CloseAll()

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)...)
	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("run program: %w", err)
	}
	if m.state.results == nil {
		return nil, nil
	}
	r := m.state.results.Report()
	return &r, nil
}
