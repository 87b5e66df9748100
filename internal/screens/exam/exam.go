// Package exam is the screen that runs the timed questions. It drives a
// session controller and renders from its snapshots; it keeps no exam state
// of its own beyond the entry fields.
package exam

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/navigator"
	"github.com/kavin/cogniquest/internal/router"
	"github.com/kavin/cogniquest/internal/screen"
	"github.com/kavin/cogniquest/internal/session"
	"github.com/kavin/cogniquest/internal/ui/layout"
)

// Controller is the part of session.Controller the screen uses.
type Controller interface {
	Start(ctx context.Context) error
	Subscribe() (<-chan session.Event, func())
	Snapshot() session.Snapshot
	Next() error
	Back() error
	SetNarrating(narrating bool) error
	UpdateAnswer(id int, a exam.Answer) error
	SubmitDrawing(a exam.ClockDrawingAnswer) error
	Close()
}

// ExamScreen implements screen.Screen for a running exam.
type ExamScreen struct {
	ctrl    Controller
	tr      *i18n.Translator
	results func(session.Outcome) screen.Screen

	events      <-chan session.Event
	unsubscribe func()

	snap        session.Snapshot
	form        form
	formFor     int
	utterance   string
	confirmQuit bool
	errMsg      string
	finished    bool
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.StatusProvider = (*ExamScreen)(nil)
var _ screen.Closer = (*ExamScreen)(nil)

// New creates the screen. results builds the screen shown once the exam
// has been scored.
func New(ctrl Controller, tr *i18n.Translator, results func(session.Outcome) screen.Screen) *ExamScreen {
	return &ExamScreen{ctrl: ctrl, tr: tr, results: results, formFor: -1}
}

func (s *ExamScreen) Init() tea.Cmd {
	s.events, s.unsubscribe = s.ctrl.Subscribe()
	ctrl := s.ctrl
	return tea.Batch(
		func() tea.Msg { return startedMsg{Err: ctrl.Start(context.Background())} },
		waitForEvent(s.events),
	)
}

func (s *ExamScreen) Title() string {
	if !s.snap.Started || s.snap.Total == 0 {
		return ""
	}
	if s.snap.Phase == navigator.Finished {
		return s.tr.T("Scoring")
	}
	return s.tr.Td("QuestionOf", map[string]any{"Index": s.snap.Index + 1, "Total": s.snap.Total})
}

func (s *ExamScreen) Status() string {
	if !s.snap.Started || s.snap.Phase == navigator.Finished {
		return ""
	}
	secs := int((s.snap.Remaining + time.Second - 1) / time.Second)
	return s.tr.Td("SecondsLeft", map[string]any{"Seconds": secs})
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Quit"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End exam"},
			{Key: "N", Description: "Keep going"},
		}
	case s.snap.Phase == navigator.Narrating:
		return []layout.KeyHint{
			{Key: "S", Description: "Skip narration"},
			{Key: "Esc", Description: "Quit"},
		}
	case s.snap.Question.Type == exam.TypeClockDrawing:
		return []layout.KeyHint{
			{Key: "←↑↓→", Description: "Move"},
			{Key: "Space", Description: "Pen"},
			{Key: "U", Description: "Undo"},
			{Key: "Enter", Description: "Submit"},
			{Key: "PgUp", Description: "Previous"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Next question"},
		{Key: "PgUp", Description: "Previous"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Close ends the subscription and the exam.
func (s *ExamScreen) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.ctrl.Close()
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil {
			reason := strings.TrimPrefix(msg.Err.Error(), session.ErrLoad.Error()+": ")
			s.errMsg = s.tr.Td("LoadFailed", map[string]any{"Error": reason})
			return s, nil
		}
		return s, s.refresh()

	case eventMsg:
		return s.handleEvent(msg.Event)

	case eventsClosedMsg:
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.form != nil && s.snap.Phase == navigator.Answering {
		cmd, changed := s.form.Update(msg)
		return s, tea.Batch(cmd, s.saveIfChanged(changed))
	}
	return s, nil
}

func (s *ExamScreen) handleEvent(e session.Event) (screen.Screen, tea.Cmd) {
	next := waitForEvent(s.events)
	switch e.Kind {
	case session.EventUtterance:
		s.utterance = e.Utterance
	case session.EventNarrationStarted, session.EventNarrationFinished, session.EventStarted,
		session.EventAdvanced, session.EventBack:
		s.utterance = ""
	case session.EventLoadFailed:
		// startedMsg carries the same error.
		return s, next
	case session.EventFinished:
		snap := s.ctrl.Snapshot()
		s.snap = snap
		if snap.Outcome != nil && !s.finished {
			s.finished = true
			results := s.results(*snap.Outcome)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: results} }
		}
		return s, next
	}
	return s, tea.Batch(s.refresh(), next)
}

// refresh re-reads the controller and rebuilds the entry form when the
// question changed.
func (s *ExamScreen) refresh() tea.Cmd {
	s.snap = s.ctrl.Snapshot()
	if !s.snap.Started || s.snap.Phase == navigator.Finished {
		return nil
	}
	if s.snap.Question.ID == s.formFor {
		return nil
	}
	s.formFor = s.snap.Question.ID
	s.form = newForm(s.tr, s.snap.Question)
	if s.form == nil {
		return nil
	}
	if a, ok := s.snap.Answer(); ok {
		s.form.Fill(a)
	}
	return s.form.Move(0)
}

func (s *ExamScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, tea.Quit
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.ctrl.Close()
			return s, tea.Quit
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if !s.snap.Started || s.snap.Phase == navigator.Finished {
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "pgup":
		// Back on the first question is a no-op.
		_ = s.ctrl.Back()
		return s, nil
	}

	if s.snap.Phase == navigator.Narrating {
		if key == "s" || key == "S" {
			_ = s.ctrl.SetNarrating(false)
		}
		return s, nil
	}

	switch key {
	case "enter", "pgdown":
		if cf, ok := s.form.(*clockForm); ok {
			_ = s.ctrl.SubmitDrawing(cf.Drawing())
			return s, nil
		}
		_ = s.ctrl.Next()
		return s, nil
	case "tab":
		if _, ok := s.form.(*clockForm); !ok && s.form != nil {
			return s, s.form.Move(1)
		}
	case "shift+tab":
		if _, ok := s.form.(*clockForm); !ok && s.form != nil {
			return s, s.form.Move(-1)
		}
	}

	if s.form == nil {
		return s, nil
	}
	cmd, changed := s.form.Update(msg)
	return s, tea.Batch(cmd, s.saveIfChanged(changed))
}

// saveIfChanged pushes the form's answer to the controller.
func (s *ExamScreen) saveIfChanged(changed bool) tea.Cmd {
	if !changed || s.form == nil {
		return nil
	}
	a := s.form.Answer()
	if err := s.ctrl.UpdateAnswer(s.snap.Question.ID, a); err != nil {
		return nil
	}
	if s.snap.Answers != nil {
		s.snap.Answers[s.snap.Question.ID] = a
	}
	return nil
}
