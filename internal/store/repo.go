package store

import (
	"context"
	"time"
)

// Session event actions.
const (
	ActionStarted         = "started"
	ActionLoadFailed      = "load_failed"
	ActionQuestionEntered = "question_entered"
	ActionFinished        = "finished"
	ActionAbandoned       = "abandoned"
)

// SessionEventData records a lifecycle or navigation step of an exam.
type SessionEventData struct {
	SessionID     string
	Action        string
	QuestionID    int
	QuestionIndex int
	Direction     string
	Detail        string
	At            time.Time
}

// AnswerEventData records an accepted answer update. Payload is the answer's
// tagged JSON form.
type AnswerEventData struct {
	SessionID    string
	QuestionID   int
	QuestionType string
	Payload      string
	At           time.Time
}

// TimerEventData records a countdown transition.
type TimerEventData struct {
	SessionID  string
	QuestionID int
	Action     string
	Epoch      uint64
	Remaining  time.Duration
	At         time.Time
}

// NarrationEventData records a narration run starting, completing, or a
// completion that arrived after the exam moved on.
type NarrationEventData struct {
	SessionID  string
	QuestionID int
	Action     string
	Token      uint64
	Utterances int
	At         time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to journal events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendTimerEvent(ctx context.Context, data TimerEventData) error
	AppendNarrationEvent(ctx context.Context, data NarrationEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// TimelineEntry is one journal event of any kind.
type TimelineEntry struct {
	Sequence   int64     `json:"sequence"`
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	QuestionID int       `json:"questionId,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

// SessionSummary describes one journaled exam.
type SessionSummary struct {
	SessionID string
	StartedAt time.Time
	// EndedAt is zero while the exam has neither finished nor been abandoned.
	EndedAt time.Time
	// End is ActionFinished, ActionAbandoned or empty.
	End string
}

// LLMUsage totals LLM requests.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// QueryRepo reads the journal back.
type QueryRepo interface {
	// Sessions lists journaled exams in the order they started.
	Sessions(ctx context.Context) ([]SessionSummary, error)

	// Timeline returns every event of the session in sequence order.
	Timeline(ctx context.Context, sessionID string) ([]TimelineEntry, error)

	// Dwell returns how long the subject spent on each question, summed over
	// every visit. A visit ends at the next navigation event.
	Dwell(ctx context.Context, sessionID string) (map[int]time.Duration, error)

	// AnswerRevisions counts accepted answer updates per question.
	AnswerRevisions(ctx context.Context, sessionID string) (map[int]int, error)

	// LLMUsage totals every recorded LLM request.
	LLMUsage(ctx context.Context) (LLMUsage, error)
}
