package results

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/region"
	"github.com/kavin/cogniquest/internal/report"
	"github.com/kavin/cogniquest/internal/scoring"
)

var regionVirginia = region.Info{FullName: "Virginia", Abbreviation: "VA"}

func testReport(unscored bool) report.Report {
	qs := []exam.Question{
		{ID: 1, Text: "What year is it?", Type: exam.TypeOrientation, MaxPoints: 1, Rule: exam.OrientationRule{Dynamic: exam.RuleCurrentYear}},
		{ID: 2, Text: "What state are we in?", Type: exam.TypeOrientation, MaxPoints: 1, Rule: exam.OrientationRule{Dynamic: exam.RuleMatchesRegion}},
		{ID: 5, Text: "You have $100...", Type: exam.TypeCalculation, MaxPoints: 3, Rule: exam.ExactMatchRule{Matches: []string{"23", "77"}}},
	}
	answers := exam.Answers{
		1: exam.OrientationAnswer{Text: "2024"},
		2: exam.OrientationAnswer{Text: "Virginia"},
		5: exam.CalculationAnswer{Spent: 23, Left: 77},
	}
	in := scoring.Input{
		Questions:  qs,
		Answers:    answers,
		HighSchool: true,
		Now:        time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC),
	}
	if !unscored {
		in.Region = &regionVirginia
	}
	res := scoring.Score(in)
	return report.Build(report.Input{
		Questions:  qs,
		Answers:    answers,
		Score:      res,
		Details:    scoring.Explain(in),
		Band:       scoring.DefaultBands().Interpret(res.Total, true),
		HighSchool: true,
		Region:     in.Region,
		FinishedAt: in.Now,
	}, i18n.Default())
}

func key(s string) tea.KeyPressMsg {
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestViewShowsScoreAndBand(t *testing.T) {
	s := New(i18n.Default(), testReport(false), nil)
	view := s.View(100, 30)

	for _, want := range []string{"Exam Complete", "5 / 5", "Dementia is Likely", "View full report", "not a diagnosis"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "could not be scored") {
		t.Error("no unscored note expected when the region is known")
	}
}

func TestViewShowsUnscoredNote(t *testing.T) {
	s := New(i18n.Default(), testReport(true), nil)
	if view := s.View(100, 30); !strings.Contains(view, "1 question could not be scored") {
		t.Errorf("unscored note missing:\n%s", view)
	}
}

func TestReportToggleAndScroll(t *testing.T) {
	s := New(i18n.Default(), testReport(false), nil)

	s.Update(key("r"))
	if !s.showReport {
		t.Fatal("r should open the report")
	}
	view := s.View(100, 6)
	if !strings.Contains(view, "CogniQuest Screening Report") {
		t.Errorf("report view should start at the title:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	if s.offset == 0 {
		t.Error("end should scroll to the bottom")
	}
	if view := s.View(100, 6); !strings.Contains(view, "Disclaimer") {
		t.Errorf("bottom of the report should show the disclaimer:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	if s.offset != 0 {
		t.Errorf("offset = %d after home, want 0", s.offset)
	}

	s.Update(key("r"))
	if s.showReport {
		t.Error("r should close the report")
	}
}

func TestMenuViewReportAndQuit(t *testing.T) {
	s := New(i18n.Default(), testReport(false), nil)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.showReport {
		t.Fatal("enter on the first item should open the report")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.showReport {
		t.Fatal("esc should close the report")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("quit item should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestSummaryLifecycle(t *testing.T) {
	var got report.Report
	s := New(i18n.Default(), testReport(false), func(_ context.Context, r report.Report) (string, error) {
		got = r
		return "Orientation went well.", nil
	})

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init should request a summary")
	}
	if view := s.View(100, 30); !strings.Contains(view, "Writing a plain-language summary") {
		t.Errorf("pending note missing:\n%s", view)
	}

	s.Update(cmd())
	if got.Total != 5 {
		t.Errorf("summarizer saw total %d, want 5", got.Total)
	}
	if view := s.View(100, 30); !strings.Contains(view, "Orientation went well.") {
		t.Errorf("summary missing:\n%s", view)
	}
	if s.Report().Summary != "Orientation went well." {
		t.Errorf("Report().Summary = %q", s.Report().Summary)
	}

	s.Update(key("r"))
	if !strings.Contains(strings.Join(s.lines, "\n"), "Plain-language summary") {
		t.Error("report text should include the summary section")
	}
}

func TestSummaryFailure(t *testing.T) {
	s := New(i18n.Default(), testReport(false), func(context.Context, report.Report) (string, error) {
		return "", errors.New("no provider")
	})
	s.Update(s.Init()())

	if view := s.View(100, 30); !strings.Contains(view, "summary is not available") {
		t.Errorf("failure note missing:\n%s", view)
	}
	if s.Report().Summary != "" {
		t.Error("failed summary should leave the report untouched")
	}
}

func TestNoSummarizer(t *testing.T) {
	s := New(i18n.Default(), testReport(false), nil)
	if cmd := s.Init(); cmd != nil {
		t.Error("Init should do nothing without a summarizer")
	}
}
