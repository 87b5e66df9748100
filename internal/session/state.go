package session

import (
	"time"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/navigator"
	"github.com/kavin/cogniquest/internal/region"
	"github.com/kavin/cogniquest/internal/scoring"
)

// Outcome is the immutable result of a finished exam. Reports consume it.
type Outcome struct {
	// SessionID identifies the exam in the journal.
	SessionID string

	// Questions is the bank the exam ran on, in order.
	Questions []exam.Question

	// Answers is a copy of the answers map at finish.
	Answers exam.Answers

	// Score is the scoring pass result.
	Score exam.ScoreResult

	// Details carries per-question sub-checks from the same pass.
	Details []scoring.Detail

	// Band is the interpretation of Score.Total for the education level.
	Band scoring.Band

	// HighSchool is the education flag the exam ran with.
	HighSchool bool

	// Region is the resolved region used for scoring, nil if unknown.
	Region *region.Info

	// MaxTotal is the most points the bank allows.
	MaxTotal int

	StartedAt  time.Time
	FinishedAt time.Time
}

// Snapshot is a read-only copy of the controller's state.
type Snapshot struct {
	SessionID string

	// Loaded is true once questions have been loaded successfully.
	Loaded bool

	// LoadErr is the load failure, if any.
	LoadErr error

	// Started is true once Start has succeeded.
	Started bool

	// Index is the current question position.
	Index int

	// Total is the number of questions.
	Total int

	// Question is the current question. Zero before Start.
	Question exam.Question

	Phase     navigator.Phase
	Direction navigator.Direction

	// Remaining is the countdown for the current question.
	Remaining time.Duration

	// Duration is the full per-question time allowance.
	Duration time.Duration

	// Answers is a copy of the answers entered so far.
	Answers exam.Answers

	// Script holds the narration utterances for the current question.
	Script []string

	// Utterance is the index into Script being spoken, -1 if none.
	Utterance int

	// Outcome is set once scoring has completed.
	Outcome *Outcome
}

// Answer returns the stored answer for the current question, if any.
func (s Snapshot) Answer() (exam.Answer, bool) {
	a, ok := s.Answers[s.Question.ID]
	return a, ok
}

// Scoring reports whether the exam has finished but the score is not ready.
func (s Snapshot) Scoring() bool {
	return s.Phase == navigator.Finished && s.Outcome == nil
}
