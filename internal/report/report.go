// Package report turns a scored exam into a printable report. It makes no
// scoring decisions of its own: totals, bands and unscored ids are taken as
// given.
package report

import (
	"strings"
	"time"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/region"
	"github.com/kavin/cogniquest/internal/scoring"
)

// Input is everything a report is built from.
type Input struct {
	SessionID  string
	Questions  []exam.Question
	Answers    exam.Answers
	Score      exam.ScoreResult
	Details    []scoring.Detail
	Band       scoring.Band
	HighSchool bool
	Region     *region.Info
	MaxTotal   int
	FinishedAt time.Time

	// Dwell and Revisions come from the event journal and may be nil.
	Dwell     map[int]time.Duration
	Revisions map[int]int
}

// Report is the rendered-independent report model.
type Report struct {
	SessionID   string       `json:"sessionId,omitempty"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Lang        string       `json:"lang"`
	Total       int          `json:"total"`
	MaxTotal    int          `json:"maxTotal"`
	Band        scoring.Band `json:"band"`
	BandLabel   string       `json:"bandLabel"`
	HighSchool  bool         `json:"highSchool"`
	Region      *region.Info `json:"region"`
	Unscored    []int        `json:"unscored"`
	Items       []Item       `json:"items"`
	Summary     string       `json:"summary,omitempty"`
	Disclaimer  string       `json:"disclaimer"`

	tr *i18n.Translator
}

// Item is one question's line in the report.
type Item struct {
	QuestionID int               `json:"questionId"`
	Type       exam.QuestionType `json:"type"`
	Prompt     string            `json:"prompt"`
	Response   string            `json:"response"`
	Answered   bool              `json:"answered"`
	Points     int               `json:"points"`
	MaxPoints  int               `json:"maxPoints"`
	Unscored   bool              `json:"unscored"`
	Checks     []scoring.Check   `json:"checks,omitempty"`
	DwellMs    int64             `json:"dwellMs,omitempty"`
	Revisions  int               `json:"revisions,omitempty"`

	Answer *exam.AnswerRecord `json:"answer,omitempty"`
}

// Build assembles the report. Registration questions carry no answer and no
// points and are left out of the item list. A nil translator renders
// English.
func Build(in Input, tr *i18n.Translator) Report {
	if tr == nil {
		tr = i18n.Default()
	}
	generated := in.FinishedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	maxTotal := in.MaxTotal
	if maxTotal == 0 {
		maxTotal = exam.MaxTotal(in.Questions)
	}

	r := Report{
		SessionID:   in.SessionID,
		GeneratedAt: generated,
		Lang:        tr.Lang().String(),
		Total:       in.Score.Total,
		MaxTotal:    maxTotal,
		Band:        in.Band,
		BandLabel:   BandLabel(tr, in.Band),
		HighSchool:  in.HighSchool,
		Region:      in.Region,
		Unscored:    in.Score.UnscoredIDs(),
		Disclaimer:  tr.T("Disclaimer"),
		tr:          tr,
	}

	details := make(map[int]scoring.Detail, len(in.Details))
	for _, d := range in.Details {
		details[d.QuestionID] = d
	}

	for _, q := range in.Questions {
		if !q.Type.AcceptsAnswer() {
			continue
		}
		a, answered := in.Answers[q.ID]
		item := Item{
			QuestionID: q.ID,
			Type:       q.Type,
			Prompt:     firstLine(q.Text),
			Response:   Response(tr, q, a),
			Answered:   answered,
			Points:     in.Score.PerQuestion[q.ID],
			MaxPoints:  q.MaxPoints,
			Unscored:   in.Score.IsUnscored(q.ID),
			Checks:     details[q.ID].Checks,
			DwellMs:    in.Dwell[q.ID].Milliseconds(),
			Revisions:  in.Revisions[q.ID],
		}
		if answered {
			rec := exam.EncodeAnswer(q.ID, a)
			item.Answer = &rec
		}
		r.Items = append(r.Items, item)
	}
	return r
}

// Translator returns the translator the report was built with.
func (r Report) Translator() *i18n.Translator {
	if r.tr == nil {
		return i18n.Default()
	}
	return r.tr
}

// BandLabel is the localized interpretation label.
func BandLabel(tr *i18n.Translator, b scoring.Band) string {
	return tr.T("band." + string(b))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
