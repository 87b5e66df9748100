package exam

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/kavin/cogniquest/internal/navigator"
	"github.com/kavin/cogniquest/internal/ui/components"
	"github.com/kavin/cogniquest/internal/ui/layout"
	"github.com/kavin/cogniquest/internal/ui/theme"
)

func (s *ExamScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderMessage(width, theme.Bad, s.errMsg)
	case s.confirmQuit:
		return s.renderQuitConfirm(width)
	case !s.snap.Started:
		return renderMessage(width, theme.Hint, s.tr.T("Loading"))
	case s.snap.Phase == navigator.Finished:
		return renderMessage(width, theme.Hint, s.tr.T("Scoring"))
	}
	return s.renderQuestion(width, height)
}

func (s *ExamScreen) renderQuestion(width, height int) string {
	inner := max(width-8, 20)
	gap := "\n\n"
	if layout.IsCompactHeight(height) {
		gap = "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(components.Countdown{
		Remaining: s.snap.Remaining,
		Total:     s.snap.Duration,
		Paused:    s.snap.Phase == navigator.Narrating,
		Width:     inner,
	}.View())
	b.WriteString(gap)

	b.WriteString(theme.Prompt.Width(inner).Render(s.snap.Question.Text))
	b.WriteString(gap)

	if s.snap.Phase == navigator.Narrating {
		b.WriteString(theme.Hint.Render(s.tr.T("Listening")))
		if s.utterance != "" && s.utterance != s.snap.Question.Text {
			b.WriteString(gap)
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(s.utterance))
		}
	} else if s.form != nil {
		b.WriteString(s.form.View(inner))
	}

	return lipgloss.NewStyle().Padding(0, 4).Render(b.String())
}

func (s *ExamScreen) renderQuitConfirm(width int) string {
	lines := []string{
		"\n\n",
		layout.Centered(width, theme.Prompt, s.tr.T("QuitConfirm")),
		layout.Centered(width, theme.Hint, s.tr.T("QuitConfirmDetail")),
		"",
		layout.Centered(width, theme.Bad, s.tr.T("ConfirmYes")),
		layout.Centered(width, theme.Selected, s.tr.T("ConfirmNo")),
	}
	return strings.Join(lines, "\n")
}

func renderMessage(width int, style lipgloss.Style, msg string) string {
	return "\n\n\n" + layout.Centered(width, style, msg)
}

// joinColumns places right beside left with a small gutter.
func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
}
