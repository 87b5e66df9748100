package exam

import (
	"strconv"
	"strings"
)

// Answer is the subject's response to one question. Each variant belongs to
// exactly one QuestionType; registration has no variant.
type Answer interface {
	// QuestionType reports the question type this answer variant is for.
	QuestionType() QuestionType
	isAnswer()
}

// OrientationAnswer is free text or a typed number.
type OrientationAnswer struct {
	Text string
}

// Number parses the answer as an integer after trimming whitespace.
func (a OrientationAnswer) Number() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(a.Text))
	if err != nil {
		return 0, false
	}
	return n, true
}

// CalculationAnswer holds the two amounts from the shopping problem.
type CalculationAnswer struct {
	Spent int
	Left  int
}

// AnimalListAnswer is the number of animals the subject named.
type AnimalListAnswer struct {
	Count int
}

// WordRecallAnswer is the list of words the subject recalled, in entry order.
type WordRecallAnswer struct {
	Words []string
}

// NumberSeriesAnswer holds the three reversed series. Series[0] is practice.
type NumberSeriesAnswer struct {
	Series [3]string
}

// Point is one sampled position of a stroke, in canvas cells.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Stroke is one continuous line of a drawing.
type Stroke struct {
	Points []Point `json:"points"`
}

// ClockDrawingAnswer carries the drawing and the subject's self-assessment
// against the reference clock. The booleans are not derived from Strokes.
type ClockDrawingAnswer struct {
	Strokes           []Stroke
	HasCorrectNumbers bool
	HasCorrectTime    bool
}

// ShapeAnswer records the shape tapped and the shape picked as largest.
// An empty string means no choice was made.
type ShapeAnswer struct {
	Tapped  string
	Largest string
}

// StoryAnswer holds the four story recall fields.
type StoryAnswer struct {
	Name         string
	Profession   string
	WhenReturned string
	Region       string
}

func (OrientationAnswer) QuestionType() QuestionType  { return TypeOrientation }
func (CalculationAnswer) QuestionType() QuestionType  { return TypeCalculation }
func (AnimalListAnswer) QuestionType() QuestionType   { return TypeAnimalList }
func (WordRecallAnswer) QuestionType() QuestionType   { return TypeFiveWordRecall }
func (NumberSeriesAnswer) QuestionType() QuestionType { return TypeNumberSeriesBackwards }
func (ClockDrawingAnswer) QuestionType() QuestionType { return TypeClockDrawing }
func (ShapeAnswer) QuestionType() QuestionType        { return TypeShapeIdentification }
func (StoryAnswer) QuestionType() QuestionType        { return TypeStoryRecall }

func (OrientationAnswer) isAnswer()  {}
func (CalculationAnswer) isAnswer()  {}
func (AnimalListAnswer) isAnswer()   {}
func (WordRecallAnswer) isAnswer()   {}
func (NumberSeriesAnswer) isAnswer() {}
func (ClockDrawingAnswer) isAnswer() {}
func (ShapeAnswer) isAnswer()        {}
func (StoryAnswer) isAnswer()        {}

// Answers maps question id to the subject's answer.
type Answers map[int]Answer

// Clone returns a shallow copy of the map. Answer values are treated as
// immutable, so sharing them is safe.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Summary renders an answer as a single line for reports.
func Summary(a Answer) string {
	switch v := a.(type) {
	case OrientationAnswer:
		return v.Text
	case CalculationAnswer:
		return "spent " + strconv.Itoa(v.Spent) + ", left " + strconv.Itoa(v.Left)
	case AnimalListAnswer:
		return strconv.Itoa(v.Count) + " animals"
	case WordRecallAnswer:
		return strings.Join(nonEmpty(v.Words), ", ")
	case NumberSeriesAnswer:
		return strings.Join(v.Series[:], " / ")
	case ClockDrawingAnswer:
		return "numbers " + yesNo(v.HasCorrectNumbers) + ", time " + yesNo(v.HasCorrectTime) +
			" (" + strconv.Itoa(len(v.Strokes)) + " strokes)"
	case ShapeAnswer:
		return "tapped " + orNone(v.Tapped) + ", largest " + orNone(v.Largest)
	case StoryAnswer:
		return strings.Join([]string{v.Name, v.Profession, v.WhenReturned, v.Region}, " | ")
	}
	return ""
}

func nonEmpty(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			out = append(out, strings.TrimSpace(w))
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
