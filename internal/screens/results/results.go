// Package results shows the score once an exam has been scored, with the
// full report one key away.
package results

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/report"
	"github.com/kavin/cogniquest/internal/scoring"
	"github.com/kavin/cogniquest/internal/screen"
	"github.com/kavin/cogniquest/internal/ui/components"
	"github.com/kavin/cogniquest/internal/ui/layout"
	"github.com/kavin/cogniquest/internal/ui/theme"
)

// SummarizeFunc writes a plain-language summary of a report.
type SummarizeFunc func(ctx context.Context, r report.Report) (string, error)

type summaryState int

const (
	summaryNone summaryState = iota
	summaryPending
	summaryReady
	summaryFailed
)

// summaryMsg carries the result of the background summary request.
type summaryMsg struct {
	Text string
	Err  error
}

// ResultsScreen implements screen.Screen for the final score.
type ResultsScreen struct {
	tr        *i18n.Translator
	rep       report.Report
	summarize SummarizeFunc

	menu    components.Menu
	summary summaryState

	showReport bool
	lines      []string
	offset     int
	pageSize   int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the screen. summarize may be nil, in which case no summary
// is requested.
func New(tr *i18n.Translator, rep report.Report, summarize SummarizeFunc) *ResultsScreen {
	s := &ResultsScreen{tr: tr, rep: rep, summarize: summarize, pageSize: 10}
	s.menu = components.NewMenu([]components.MenuItem{
		{
			Label:  func() string { return tr.T("ViewReport") },
			Action: func() tea.Cmd { s.toggleReport(); return nil },
		},
		{
			Label:  func() string { return tr.T("Quit") },
			Action: func() tea.Cmd { return tea.Quit },
		},
	})
	s.renderReport()
	return s
}

// Report returns the report as currently shown, including any summary.
func (s *ResultsScreen) Report() report.Report {
	return s.rep
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.summarize == nil {
		return nil
	}
	s.summary = summaryPending
	summarize, rep := s.summarize, s.rep
	return func() tea.Msg {
		text, err := summarize(context.Background(), rep)
		return summaryMsg{Text: text, Err: err}
	}
}

func (s *ResultsScreen) Title() string {
	return s.tr.T("ExamComplete")
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	if s.showReport {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "PgUp/PgDn", Description: "Page"},
			{Key: "R", Description: "Back"},
			{Key: "Q", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "R", Description: "Report"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		if msg.Err != nil || strings.TrimSpace(msg.Text) == "" {
			s.summary = summaryFailed
			return s, nil
		}
		s.summary = summaryReady
		s.rep.Summary = msg.Text
		s.renderReport()
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "Q":
			return s, tea.Quit
		case "r", "R":
			s.toggleReport()
			return s, nil
		}
		if s.showReport {
			s.scroll(msg.String())
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) toggleReport() {
	s.showReport = !s.showReport
	s.offset = 0
}

func (s *ResultsScreen) renderReport() {
	var b strings.Builder
	if err := report.Text(&b, s.rep); err != nil {
		s.lines = []string{err.Error()}
		return
	}
	s.lines = strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

func (s *ResultsScreen) scroll(key string) {
	maxOffset := max(len(s.lines)-s.pageSize, 0)
	switch key {
	case "up", "k":
		s.offset--
	case "down", "j":
		s.offset++
	case "pgup":
		s.offset -= s.pageSize
	case "pgdown", "space":
		s.offset += s.pageSize
	case "home", "g":
		s.offset = 0
	case "end", "G":
		s.offset = maxOffset
	case "esc":
		s.showReport = false
	}
	s.offset = min(max(s.offset, 0), maxOffset)
}

func (s *ResultsScreen) View(width, height int) string {
	if s.showReport {
		return s.viewReport(width, height)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Title, s.tr.T("ExamComplete")))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Label, s.tr.T("FinalScore")))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Title,
		s.tr.Td("ScoreOutOf", map[string]any{"Total": s.rep.Total, "Max": s.rep.MaxTotal})))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, bandStyle(s.rep.Band), s.rep.BandLabel))
	b.WriteString("\n")

	if n := len(s.rep.Unscored); n > 0 {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Caution, s.tr.Tp("UnscoredNote", n)))
		b.WriteString("\n")
	}

	switch s.summary {
	case summaryPending:
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Hint, s.tr.T("SummaryPending")))
		b.WriteString("\n")
	case summaryFailed:
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Hint, s.tr.T("SummaryFailed")))
		b.WriteString("\n")
	case summaryReady:
		b.WriteString("\n")
		card := theme.Card.Width(min(width-4, 72)).Render(s.rep.Summary)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Disclaimer.Width(min(width-4, 72)), s.rep.Disclaimer))
	return b.String()
}

func (s *ResultsScreen) viewReport(width, height int) string {
	s.pageSize = max(height-2, 1)
	s.offset = min(s.offset, max(len(s.lines)-s.pageSize, 0))

	end := min(s.offset+s.pageSize, len(s.lines))
	body := strings.Join(s.lines[s.offset:end], "\n")
	body = theme.Body.Width(min(width-4, 96)).Render(body)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func bandStyle(b scoring.Band) lipgloss.Style {
	switch b {
	case scoring.BandNormal:
		return theme.Good
	case scoring.BandMildImpairment:
		return theme.Caution
	}
	return theme.Bad
}
