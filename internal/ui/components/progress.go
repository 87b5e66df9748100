package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/kavin/cogniquest/internal/ui/theme"
)

// lowFraction is the share of time left below which the bar turns amber.
const lowFraction = 0.25

// Countdown is a horizontal bar showing the time left on a question.
type Countdown struct {
	Remaining time.Duration
	Total     time.Duration
	Paused    bool
	Width     int
}

// Fraction is the share of time left, between 0 and 1.
func (c Countdown) Fraction() float64 {
	if c.Total <= 0 {
		return 0
	}
	f := float64(c.Remaining) / float64(c.Total)
	return min(max(f, 0), 1)
}

// View renders the bar followed by the seconds left.
func (c Countdown) View() string {
	secs := int((c.Remaining + time.Second - 1) / time.Second)
	suffix := fmt.Sprintf("  %3ds", secs)
	if c.Paused {
		suffix = "  ‖ paused"
	}

	barWidth := max(c.Width-lipgloss.Width(suffix), 4)
	filled := min(max(int(float64(barWidth)*c.Fraction()), 0), barWidth)

	fill := theme.ProgressFilled
	if c.Fraction() < lowFraction {
		fill = theme.ProgressLow
	}

	return fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
