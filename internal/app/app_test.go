package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/report"
	examscreen "github.com/kavin/cogniquest/internal/screens/exam"
	"github.com/kavin/cogniquest/internal/screens/notice"
	"github.com/kavin/cogniquest/internal/screens/setup"
	"github.com/kavin/cogniquest/internal/session"
)

// fakeController counts Close calls; the app tests never start it.
type fakeController struct {
	closed int
}

func (c *fakeController) Start(context.Context) error { return nil }
func (c *fakeController) Subscribe() (<-chan session.Event, func()) {
	return make(chan session.Event), func() {}
}
func (c *fakeController) Snapshot() session.Snapshot                 { return session.Snapshot{} }
func (c *fakeController) Next() error                                { return nil }
func (c *fakeController) Back() error                                { return nil }
func (c *fakeController) SetNarrating(bool) error                    { return nil }
func (c *fakeController) UpdateAnswer(int, exam.Answer) error        { return nil }
func (c *fakeController) SubmitDrawing(exam.ClockDrawingAnswer) error { return nil }
func (c *fakeController) Close()                                     { c.closed++ }

func testOptions(ctrl *fakeController, err error) (Options, *[]setup.Settings) {
	var started []setup.Settings
	return Options{
		Settings: setup.Settings{Duration: 30 * time.Second, HighSchool: true},
		NewExam: func(st setup.Settings) (examscreen.Controller, error) {
			started = append(started, st)
			if err != nil {
				return nil, err
			}
			return ctrl, nil
		},
		Report: func(session.Outcome) report.Report { return report.Report{} },
	}, &started
}

func TestStartsOnSetup(t *testing.T) {
	opts, started := testOptions(&fakeController{}, nil)
	m := newAppModel(opts)

	if _, ok := m.router.Active().(*setup.SetupScreen); !ok {
		t.Fatalf("initial screen = %T, want setup", m.router.Active())
	}
	if len(*started) != 0 {
		t.Error("exam should not start before the user asks")
	}
}

func TestSkipSetupStartsExam(t *testing.T) {
	opts, started := testOptions(&fakeController{}, nil)
	opts.SkipSetup = true
	m := newAppModel(opts)

	if _, ok := m.router.Active().(*examscreen.ExamScreen); !ok {
		t.Fatalf("initial screen = %T, want exam", m.router.Active())
	}
	if len(*started) != 1 || (*started)[0].Duration != 30*time.Second {
		t.Errorf("started = %v, want one exam with 30s", *started)
	}
}

func TestExamStartFailureShowsNotice(t *testing.T) {
	opts, _ := testOptions(nil, errors.New("open journal: permission denied"))
	opts.SkipSetup = true
	m := newAppModel(opts)

	if _, ok := m.router.Active().(*notice.NoticeScreen); !ok {
		t.Fatalf("initial screen = %T, want notice", m.router.Active())
	}
}

func TestCtrlCClosesScreens(t *testing.T) {
	ctrl := &fakeController{}
	opts, _ := testOptions(ctrl, nil)
	opts.SkipSetup = true
	m := newAppModel(opts)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if ctrl.closed != 1 {
		t.Errorf("controller closed %d times, want 1", ctrl.closed)
	}
}

func TestWindowSize(t *testing.T) {
	opts, _ := testOptions(&fakeController{}, nil)
	updated, _ := newAppModel(opts).Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m := updated.(AppModel)
	if m.width != 100 || m.height != 40 {
		t.Errorf("size = %dx%d, want 100x40", m.width, m.height)
	}
}

func TestRunRequiresFactories(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Error("Run without NewExam should fail")
	}
}
