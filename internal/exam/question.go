package exam

import "fmt"

// QuestionType identifies the input modality and rubric of a question.
type QuestionType string

const (
	TypeOrientation           QuestionType = "orientation"
	TypeRegistration          QuestionType = "registration"
	TypeCalculation           QuestionType = "calculation"
	TypeAnimalList            QuestionType = "animalList"
	TypeFiveWordRecall        QuestionType = "fiveWordRecall"
	TypeNumberSeriesBackwards QuestionType = "numberSeriesBackwards"
	TypeClockDrawing          QuestionType = "clockDrawing"
	TypeShapeIdentification   QuestionType = "shapeIdentification"
	TypeStoryRecall           QuestionType = "storyRecall"
)

// AllQuestionTypes lists every question type in exam order.
var AllQuestionTypes = []QuestionType{
	TypeOrientation,
	TypeRegistration,
	TypeCalculation,
	TypeAnimalList,
	TypeFiveWordRecall,
	TypeNumberSeriesBackwards,
	TypeClockDrawing,
	TypeShapeIdentification,
	TypeStoryRecall,
}

// ParseQuestionType converts a wire name into a QuestionType.
func ParseQuestionType(s string) (QuestionType, error) {
	for _, t := range AllQuestionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

// AcceptsAnswer reports whether the subject enters an answer for this type.
// Registration is a memory-priming step with nothing to record.
func (t QuestionType) AcceptsAnswer() bool {
	return t != TypeRegistration && t != ""
}

// Narrated reports whether the question is read aloud before answering.
// The timer stays paused while narration plays.
func (t QuestionType) Narrated() bool {
	return t == TypeRegistration || t == TypeNumberSeriesBackwards
}

// Question is one item of the exam. Questions are immutable once loaded.
type Question struct {
	// ID is unique within a bank and is the stable ordering key.
	ID int

	// Text is the prompt shown (and for narrated types, spoken) to the subject.
	Text string

	// Type selects the answer variant and the scoring function.
	Type QuestionType

	// MaxPoints is the most this question can contribute to the total.
	MaxPoints int

	// Rule is the rubric for this question. Nil means nothing can be scored.
	Rule ScoringRule

	// RequiredComponents lists the elements a clock drawing should contain.
	// Shown next to the reference image; never scored.
	RequiredComponents []string
}

// MaxTotal sums MaxPoints across questions.
func MaxTotal(questions []Question) int {
	total := 0
	for _, q := range questions {
		total += q.MaxPoints
	}
	return total
}
