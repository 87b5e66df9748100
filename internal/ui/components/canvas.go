package components

import (
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kavin/cogniquest/internal/ui/theme"
)

// Point is one canvas cell.
type Point struct{ X, Y int }

// Canvas is a keyboard drawing surface with a clock-face outline. The cursor
// moves with the arrow keys; while the pen is down every cell it passes is
// added to the current stroke.
type Canvas struct {
	Width, Height int
	Cursor        Point
	PenDown       bool
	Strokes       [][]Point
}

// NewCanvas creates a canvas with the cursor in the middle.
func NewCanvas(width, height int) Canvas {
	return Canvas{
		Width:  width,
		Height: height,
		Cursor: Point{X: width / 2, Y: height / 2},
	}
}

// Update handles drawing keys. The bool reports whether the drawing changed.
func (c Canvas) Update(msg tea.Msg) (Canvas, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, false
	}
	switch kmsg.String() {
	case "up", "k":
		return c.move(0, -1)
	case "down", "j":
		return c.move(0, 1)
	case "left", "h":
		return c.move(-1, 0)
	case "right", "l":
		return c.move(1, 0)
	case "space", " ":
		c.PenDown = !c.PenDown
		if c.PenDown {
			c.Strokes = append(c.Strokes, []Point{c.Cursor})
			return c, true
		}
	case "backspace", "u":
		if len(c.Strokes) > 0 {
			c.Strokes = c.Strokes[:len(c.Strokes)-1]
			c.PenDown = false
			return c, true
		}
	case "x":
		if len(c.Strokes) > 0 {
			c.Strokes = nil
			c.PenDown = false
			return c, true
		}
	}
	return c, false
}

func (c Canvas) move(dx, dy int) (Canvas, bool) {
	next := Point{
		X: min(max(c.Cursor.X+dx, 0), c.Width-1),
		Y: min(max(c.Cursor.Y+dy, 0), c.Height-1),
	}
	if next == c.Cursor {
		return c, false
	}
	c.Cursor = next
	if c.PenDown && len(c.Strokes) > 0 {
		last := len(c.Strokes) - 1
		c.Strokes[last] = append(c.Strokes[last], next)
		return c, true
	}
	return c, false
}

// onDial reports whether cell (x, y) lies on the clock outline. Cells are
// about twice as tall as wide, so the horizontal radius is doubled.
func (c Canvas) onDial(x, y int) bool {
	ry := float64(c.Height-1) / 2
	rx := float64(c.Width-1) / 2
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (float64(x) - rx) / rx
	dy := (float64(y) - ry) / ry
	return math.Abs(math.Hypot(dx, dy)-1) < 0.5/ry
}

// View renders the canvas inside a border.
func (c Canvas) View() string {
	inked := make(map[Point]bool)
	for _, s := range c.Strokes {
		for _, p := range s {
			inked[p] = true
		}
	}

	dial := lipgloss.NewStyle().Foreground(theme.Border)
	ink := lipgloss.NewStyle().Foreground(theme.Text)
	cursor := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			p := Point{X: x, Y: y}
			switch {
			case p == c.Cursor && c.PenDown:
				b.WriteString(cursor.Render("●"))
			case p == c.Cursor:
				b.WriteString(cursor.Render("+"))
			case inked[p]:
				b.WriteString(ink.Render("█"))
			case c.onDial(x, y):
				b.WriteString(dial.Render("·"))
			default:
				b.WriteString(" ")
			}
		}
		if y < c.Height-1 {
			b.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(b.String())
}
