package store

import (
	"context"
	"database/sql"
	"time"
)

// eventRepo implements EventRepo on the journal tables and the shared
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UnixNano()
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.seq.insert(ctx, "session",
		`INSERT INTO session_events (sequence, session_id, action, question_id, question_index, direction, detail, at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.Action, data.QuestionID, data.QuestionIndex, data.Direction, data.Detail, stamp(data.At),
	)
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.seq.insert(ctx, "answer",
		`INSERT INTO answer_events (sequence, session_id, question_id, question_type, payload, at_ns)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.QuestionID, data.QuestionType, data.Payload, stamp(data.At),
	)
}

func (r *eventRepo) AppendTimerEvent(ctx context.Context, data TimerEventData) error {
	return r.seq.insert(ctx, "timer",
		`INSERT INTO timer_events (sequence, session_id, question_id, action, epoch, remaining_ms, at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.QuestionID, data.Action, int64(data.Epoch), data.Remaining.Milliseconds(), stamp(data.At),
	)
}

func (r *eventRepo) AppendNarrationEvent(ctx context.Context, data NarrationEventData) error {
	return r.seq.insert(ctx, "narration",
		`INSERT INTO narration_events (sequence, session_id, question_id, action, token, utterances, at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.QuestionID, data.Action, int64(data.Token), data.Utterances, stamp(data.At),
	)
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.seq.insert(ctx, "LLM request",
		`INSERT INTO llm_request_events (sequence, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, stamp(time.Time{}),
	)
}
