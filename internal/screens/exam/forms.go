package exam

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/ui/components"
)

// Shapes are the figures offered on the shape question.
var Shapes = []string{"Square", "Triangle"}

// form is the answer entry area for one question.
type form interface {
	// Update handles a message; the bool reports whether the answer changed.
	Update(msg tea.Msg) (tea.Cmd, bool)
	// Answer builds the answer from the current field values.
	Answer() exam.Answer
	// Fill restores fields from a stored answer.
	Fill(a exam.Answer)
	// Move shifts focus by delta fields; 0 focuses the current field.
	Move(delta int) tea.Cmd
	View(width int) string
}

// newForm returns the entry form for q, or nil for questions that take no
// answer.
func newForm(tr *i18n.Translator, q exam.Question) form {
	text := func(label string) components.TextInput {
		return components.NewTextInput(label, tr.T("AnswerPlaceholder"), false, 64)
	}
	number := func(label string) components.TextInput {
		return components.NewTextInput(label, "0", true, 6)
	}
	numbered := func(id string, n int, mk func(string) components.TextInput) []components.TextInput {
		out := make([]components.TextInput, n)
		for i := range out {
			out[i] = mk(tr.Td(id, map[string]any{"N": i + 1}))
		}
		return out
	}

	switch q.Type {
	case exam.TypeOrientation:
		return &fieldForm{
			inputs: []components.TextInput{text("")},
			build:  func(v []string) exam.Answer { return exam.OrientationAnswer{Text: v[0]} },
			fill: func(a exam.Answer) []string {
				return []string{a.(exam.OrientationAnswer).Text}
			},
		}
	case exam.TypeCalculation:
		return &fieldForm{
			inputs: []components.TextInput{number(tr.T("Spent") + " $"), number(tr.T("Left") + " $")},
			build: func(v []string) exam.Answer {
				return exam.CalculationAnswer{Spent: atoi(v[0]), Left: atoi(v[1])}
			},
			fill: func(a exam.Answer) []string {
				c := a.(exam.CalculationAnswer)
				return []string{strconv.Itoa(c.Spent), strconv.Itoa(c.Left)}
			},
		}
	case exam.TypeAnimalList:
		return &fieldForm{
			inputs: []components.TextInput{number(tr.T("AnimalsCount"))},
			build:  func(v []string) exam.Answer { return exam.AnimalListAnswer{Count: atoi(v[0])} },
			fill: func(a exam.Answer) []string {
				return []string{strconv.Itoa(a.(exam.AnimalListAnswer).Count)}
			},
		}
	case exam.TypeFiveWordRecall:
		return &fieldForm{
			inputs: numbered("WordLabel", 5, text),
			build: func(v []string) exam.Answer {
				return exam.WordRecallAnswer{Words: append([]string(nil), v...)}
			},
			fill: func(a exam.Answer) []string { return a.(exam.WordRecallAnswer).Words },
		}
	case exam.TypeNumberSeriesBackwards:
		return &fieldForm{
			inputs: numbered("SeriesLabel", 3, number),
			build: func(v []string) exam.Answer {
				var s exam.NumberSeriesAnswer
				copy(s.Series[:], v)
				return s
			},
			fill: func(a exam.Answer) []string {
				s := a.(exam.NumberSeriesAnswer).Series
				return s[:]
			},
		}
	case exam.TypeStoryRecall:
		return &fieldForm{
			inputs: []components.TextInput{
				text(tr.T("StoryName")),
				text(tr.T("StoryProfession")),
				text(tr.T("StoryReturned")),
				text(tr.T("StoryRegion")),
			},
			build: func(v []string) exam.Answer {
				return exam.StoryAnswer{Name: v[0], Profession: v[1], WhenReturned: v[2], Region: v[3]}
			},
			fill: func(a exam.Answer) []string {
				s := a.(exam.StoryAnswer)
				return []string{s.Name, s.Profession, s.WhenReturned, s.Region}
			},
		}
	case exam.TypeShapeIdentification:
		return &shapeForm{choices: []components.Choice{
			components.NewChoice(tr.T("ShapeTapped"), Shapes),
			components.NewChoice(tr.T("ShapeLargest"), Shapes),
		}}
	case exam.TypeClockDrawing:
		return &clockForm{tr: tr, canvas: components.NewCanvas(41, 15), components: q.RequiredComponents}
	}
	return nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// fieldForm is a column of text inputs mapped to one answer variant.
type fieldForm struct {
	inputs []components.TextInput
	focus  int
	build  func(values []string) exam.Answer
	fill   func(a exam.Answer) []string
}

func (f *fieldForm) Update(msg tea.Msg) (tea.Cmd, bool) {
	var cmd tea.Cmd
	var changed bool
	f.inputs[f.focus], cmd, changed = f.inputs[f.focus].Update(msg)
	return cmd, changed
}

func (f *fieldForm) Answer() exam.Answer {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = in.Value()
	}
	return f.build(values)
}

func (f *fieldForm) Fill(a exam.Answer) {
	for i, v := range f.fill(a) {
		if i < len(f.inputs) {
			f.inputs[i].SetValue(v)
		}
	}
}

func (f *fieldForm) Move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *fieldForm) View(int) string {
	lines := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		lines[i] = in.View()
	}
	return strings.Join(lines, "\n")
}

// shapeForm asks which shape was tapped and which is largest.
type shapeForm struct {
	choices []components.Choice
	focus   int
}

func (f *shapeForm) Update(msg tea.Msg) (tea.Cmd, bool) {
	var changed bool
	f.choices[f.focus], changed = f.choices[f.focus].Update(msg)
	return nil, changed
}

func (f *shapeForm) Answer() exam.Answer {
	return exam.ShapeAnswer{Tapped: f.choices[0].Value(), Largest: f.choices[1].Value()}
}

func (f *shapeForm) Fill(a exam.Answer) {
	s := a.(exam.ShapeAnswer)
	f.choices[0].Select(s.Tapped)
	f.choices[1].Select(s.Largest)
}

func (f *shapeForm) Move(delta int) tea.Cmd {
	f.choices[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.choices)) % len(f.choices)
	f.choices[f.focus].Focus()
	return nil
}

func (f *shapeForm) View(int) string {
	return f.choices[0].View() + "\n\n" + f.choices[1].View()
}

// clockForm is the drawing canvas plus the self-assessment against the
// reference clock.
type clockForm struct {
	tr             *i18n.Translator
	canvas         components.Canvas
	numbersCorrect bool
	timeCorrect    bool
	components     []string
}

func (f *clockForm) Update(msg tea.Msg) (tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "n":
			f.numbersCorrect = !f.numbersCorrect
			return nil, true
		case "t":
			f.timeCorrect = !f.timeCorrect
			return nil, true
		}
	}
	var changed bool
	f.canvas, changed = f.canvas.Update(msg)
	return nil, changed
}

func (f *clockForm) Answer() exam.Answer {
	return f.Drawing()
}

// Drawing converts the canvas into a clock drawing answer.
func (f *clockForm) Drawing() exam.ClockDrawingAnswer {
	strokes := make([]exam.Stroke, 0, len(f.canvas.Strokes))
	for _, s := range f.canvas.Strokes {
		pts := make([]exam.Point, len(s))
		for i, p := range s {
			pts[i] = exam.Point{X: p.X, Y: p.Y}
		}
		strokes = append(strokes, exam.Stroke{Points: pts})
	}
	return exam.ClockDrawingAnswer{
		Strokes:           strokes,
		HasCorrectNumbers: f.numbersCorrect,
		HasCorrectTime:    f.timeCorrect,
	}
}

func (f *clockForm) Fill(a exam.Answer) {
	d := a.(exam.ClockDrawingAnswer)
	f.numbersCorrect = d.HasCorrectNumbers
	f.timeCorrect = d.HasCorrectTime
	f.canvas.Strokes = nil
	for _, s := range d.Strokes {
		pts := make([]components.Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = components.Point{X: p.X, Y: p.Y}
		}
		f.canvas.Strokes = append(f.canvas.Strokes, pts)
	}
}

func (f *clockForm) Move(int) tea.Cmd { return nil }

func (f *clockForm) View(int) string {
	check := func(ok bool) string {
		if ok {
			return "[x]"
		}
		return "[ ]"
	}
	pen := f.tr.T("PenUp")
	if f.canvas.PenDown {
		pen = f.tr.T("PenDown")
	}

	var side strings.Builder
	side.WriteString(f.tr.T("ClockReference") + "\n")
	for _, c := range f.components {
		side.WriteString("  • " + c + "\n")
	}
	side.WriteString("\n" + f.tr.T("DrawingChecklist") + "\n")
	side.WriteString("  " + check(f.numbersCorrect) + " (n) " + f.tr.T("ClockNumbers") + "\n")
	side.WriteString("  " + check(f.timeCorrect) + " (t) " + f.tr.T("ClockTime") + "\n")
	side.WriteString("\n  " + pen)
	return joinColumns(f.canvas.View(), side.String())
}
