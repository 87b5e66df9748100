// Package scoring turns a completed exam's answers into points.
//
// Scoring is a pure function of its Input. The current time and the resolved
// region are passed in rather than looked up, so the same Input always
// yields the same result.
package scoring

import (
	"time"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/region"
)

// Input is everything a scoring pass depends on.
type Input struct {
	Questions []exam.Question
	Answers   exam.Answers

	// HighSchool is the subject's education flag. It does not change any
	// question's points; it selects the interpretation band.
	HighSchool bool

	// Region is the subject's resolved region, or nil if unknown.
	Region *region.Info

	// Now supplies the date for the currentDay and currentYear rules.
	Now time.Time
}

// Detail is the scoring breakdown for one question.
type Detail struct {
	QuestionID int               `json:"questionId"`
	Type       exam.QuestionType `json:"type"`
	Points     int               `json:"points"`
	MaxPoints  int               `json:"maxPoints"`
	Answered   bool              `json:"answered"`
	Unscored   bool              `json:"unscored"`
	Checks     []Check           `json:"checks,omitempty"`
}

// Score runs one scoring pass.
func Score(in Input) exam.ScoreResult {
	res := exam.ScoreResult{
		PerQuestion: make(map[int]int, len(in.Questions)),
		Unscored:    make(map[int]bool),
	}
	for _, d := range Explain(in) {
		res.PerQuestion[d.QuestionID] = d.Points
		res.Total += d.Points
		if d.Unscored {
			res.Unscored[d.QuestionID] = true
		}
	}
	return res
}

// Explain returns the per-question breakdown in question order, including
// which sub-checks passed.
func Explain(in Input) []Detail {
	out := make([]Detail, 0, len(in.Questions))
	for _, q := range in.Questions {
		d := Detail{QuestionID: q.ID, Type: q.Type, MaxPoints: q.MaxPoints}

		a, ok := in.Answers[q.ID]
		if ok && a != nil {
			d.Answered = true
			d.Checks, d.Unscored = scoreQuestion(q, a, in)
			d.Points = sumChecks(d.Checks)
		}
		out = append(out, d)
	}
	return out
}

func scoreQuestion(q exam.Question, a exam.Answer, in Input) ([]Check, bool) {
	switch q.Type {
	case exam.TypeOrientation:
		return scoreOrientation(q, a, in)
	case exam.TypeRegistration:
		return nil, false
	case exam.TypeCalculation:
		return scoreCalculation(q, a), false
	case exam.TypeAnimalList:
		return scoreAnimalList(q, a), false
	case exam.TypeFiveWordRecall:
		return scoreWordRecall(q, a), false
	case exam.TypeNumberSeriesBackwards:
		return scoreNumberSeries(q, a), false
	case exam.TypeClockDrawing:
		return scoreClockDrawing(a), false
	case exam.TypeShapeIdentification:
		return scoreShapes(q, a), false
	case exam.TypeStoryRecall:
		return scoreStory(q, a), false
	}
	return nil, false
}
