package exam

import (
	"encoding/json"
	"fmt"
	"sort"
)

// RuleWire is the flat JSON form of a scoring rule. Only the fields relevant
// to the owning question's type are populated.
type RuleWire struct {
	DynamicRule        string   `json:"dynamicRule,omitempty"`
	ExactMatches       []string `json:"exactMatches,omitempty"`
	Thresholds         []int    `json:"thresholds,omitempty"`
	RequiredComponents []string `json:"requiredComponents,omitempty"`
	Keywords           []string `json:"keywords,omitempty"`
}

// QuestionWire is the JSON form of a Question.
type QuestionWire struct {
	ID          int       `json:"id"`
	Text        string    `json:"text"`
	Type        string    `json:"type"`
	MaxPoints   int       `json:"maxPoints"`
	ScoringRule *RuleWire `json:"scoringRule,omitempty"`
}

// MarshalJSON encodes the question in bank format.
func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Wire())
}

// UnmarshalJSON decodes a question from bank format. The scoring rule
// variant is chosen by the question type.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w QuestionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := FromWire(w)
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}

// Wire converts the question into its JSON form.
func (q Question) Wire() QuestionWire {
	w := QuestionWire{
		ID:        q.ID,
		Text:      q.Text,
		Type:      string(q.Type),
		MaxPoints: q.MaxPoints,
	}

	var rw RuleWire
	switch r := q.Rule.(type) {
	case OrientationRule:
		rw.DynamicRule = string(r.Dynamic)
	case ExactMatchRule:
		rw.ExactMatches = r.Matches
	case ThresholdRule:
		rw.Thresholds = r.Thresholds
	case KeywordRule:
		rw.Keywords = r.Keywords
	}
	rw.RequiredComponents = q.RequiredComponents

	if rw.DynamicRule != "" || rw.ExactMatches != nil || rw.Thresholds != nil ||
		rw.Keywords != nil || rw.RequiredComponents != nil {
		w.ScoringRule = &rw
	}
	return w
}

// FromWire converts a decoded QuestionWire into a Question.
func FromWire(w QuestionWire) (Question, error) {
	qt, err := ParseQuestionType(w.Type)
	if err != nil {
		return Question{}, fmt.Errorf("question %d: %w", w.ID, err)
	}

	q := Question{
		ID:        w.ID,
		Text:      w.Text,
		Type:      qt,
		MaxPoints: w.MaxPoints,
	}
	if w.ScoringRule == nil {
		return q, nil
	}

	rw := w.ScoringRule
	q.RequiredComponents = rw.RequiredComponents

	switch qt {
	case TypeOrientation:
		if rw.DynamicRule != "" {
			dr, err := ParseDynamicRule(rw.DynamicRule)
			if err != nil {
				// Kept verbatim so the engine scores it as 0.
				dr = DynamicRule(rw.DynamicRule)
			}
			q.Rule = OrientationRule{Dynamic: dr}
		}
	case TypeCalculation, TypeFiveWordRecall, TypeNumberSeriesBackwards, TypeShapeIdentification:
		if rw.ExactMatches != nil {
			q.Rule = ExactMatchRule{Matches: rw.ExactMatches}
		}
	case TypeAnimalList:
		if rw.Thresholds != nil {
			q.Rule = ThresholdRule{Thresholds: rw.Thresholds}
		}
	case TypeStoryRecall:
		if rw.Keywords != nil {
			q.Rule = KeywordRule{Keywords: rw.Keywords}
		}
	}
	return q, nil
}

// AnswerRecord is the tagged JSON form of one answer.
type AnswerRecord struct {
	QuestionID int    `json:"questionId"`
	Type       string `json:"type"`

	Text string `json:"text,omitempty"`

	Spent *int `json:"spent,omitempty"`
	Left  *int `json:"left,omitempty"`

	Count *int `json:"count,omitempty"`

	Words []string `json:"words,omitempty"`

	Series []string `json:"series,omitempty"`

	Strokes           []Stroke `json:"strokes,omitempty"`
	HasCorrectNumbers bool     `json:"hasCorrectNumbers,omitempty"`
	HasCorrectTime    bool     `json:"hasCorrectTime,omitempty"`

	Tapped  string `json:"tapped,omitempty"`
	Largest string `json:"largest,omitempty"`

	Name         string `json:"name,omitempty"`
	Profession   string `json:"profession,omitempty"`
	WhenReturned string `json:"whenReturned,omitempty"`
	Region       string `json:"region,omitempty"`
}

// EncodeAnswer converts an answer into its tagged record.
func EncodeAnswer(questionID int, a Answer) AnswerRecord {
	rec := AnswerRecord{QuestionID: questionID}
	if a == nil {
		return rec
	}
	rec.Type = string(a.QuestionType())

	switch v := a.(type) {
	case OrientationAnswer:
		rec.Text = v.Text
	case CalculationAnswer:
		spent, left := v.Spent, v.Left
		rec.Spent, rec.Left = &spent, &left
	case AnimalListAnswer:
		count := v.Count
		rec.Count = &count
	case WordRecallAnswer:
		rec.Words = v.Words
	case NumberSeriesAnswer:
		rec.Series = append([]string(nil), v.Series[:]...)
	case ClockDrawingAnswer:
		rec.Strokes = v.Strokes
		rec.HasCorrectNumbers = v.HasCorrectNumbers
		rec.HasCorrectTime = v.HasCorrectTime
	case ShapeAnswer:
		rec.Tapped, rec.Largest = v.Tapped, v.Largest
	case StoryAnswer:
		rec.Name = v.Name
		rec.Profession = v.Profession
		rec.WhenReturned = v.WhenReturned
		rec.Region = v.Region
	}
	return rec
}

// Decode converts the record back into an Answer.
func (rec AnswerRecord) Decode() (Answer, error) {
	qt, err := ParseQuestionType(rec.Type)
	if err != nil {
		return nil, fmt.Errorf("answer for question %d: %w", rec.QuestionID, err)
	}

	switch qt {
	case TypeOrientation:
		return OrientationAnswer{Text: rec.Text}, nil
	case TypeCalculation:
		return CalculationAnswer{Spent: deref(rec.Spent), Left: deref(rec.Left)}, nil
	case TypeAnimalList:
		return AnimalListAnswer{Count: deref(rec.Count)}, nil
	case TypeFiveWordRecall:
		return WordRecallAnswer{Words: rec.Words}, nil
	case TypeNumberSeriesBackwards:
		var a NumberSeriesAnswer
		copy(a.Series[:], rec.Series)
		return a, nil
	case TypeClockDrawing:
		return ClockDrawingAnswer{
			Strokes:           rec.Strokes,
			HasCorrectNumbers: rec.HasCorrectNumbers,
			HasCorrectTime:    rec.HasCorrectTime,
		}, nil
	case TypeShapeIdentification:
		return ShapeAnswer{Tapped: rec.Tapped, Largest: rec.Largest}, nil
	case TypeStoryRecall:
		return StoryAnswer{
			Name:         rec.Name,
			Profession:   rec.Profession,
			WhenReturned: rec.WhenReturned,
			Region:       rec.Region,
		}, nil
	}
	return nil, fmt.Errorf("answer for question %d: type %q takes no answer", rec.QuestionID, rec.Type)
}

// EncodeAnswers converts an answers map into records ordered by question id.
func EncodeAnswers(answers Answers) []AnswerRecord {
	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]AnswerRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, EncodeAnswer(id, answers[id]))
	}
	return out
}

// DecodeAnswers parses a JSON array of answer records. A later record for
// the same question replaces an earlier one.
func DecodeAnswers(data []byte) (Answers, error) {
	var recs []AnswerRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}

	out := make(Answers, len(recs))
	for _, rec := range recs {
		a, err := rec.Decode()
		if err != nil {
			return nil, err
		}
		out[rec.QuestionID] = a
	}
	return out, nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
