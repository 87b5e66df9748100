package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type queryRepo struct {
	db *sql.DB
}

func (r *queryRepo) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id,
		       MIN(at_ns),
		       MAX(CASE WHEN action IN (?, ?) THEN at_ns END),
		       MAX(CASE WHEN action IN (?, ?) THEN action END)
		FROM session_events
		GROUP BY session_id
		ORDER BY MIN(sequence)`,
		ActionFinished, ActionAbandoned, ActionFinished, ActionAbandoned,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			s       SessionSummary
			started int64
			ended   sql.NullInt64
			end     sql.NullString
		)
		if err := rows.Scan(&s.SessionID, &started, &ended, &end); err != nil {
			return nil, fmt.Errorf("scan sessions: %w", err)
		}
		s.StartedAt = time.Unix(0, started)
		if ended.Valid {
			s.EndedAt = time.Unix(0, ended.Int64)
		}
		s.End = end.String
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *queryRepo) Timeline(ctx context.Context, sessionID string) ([]TimelineEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sequence, 'session', action, question_id, detail, at_ns FROM session_events WHERE session_id = ?
		UNION ALL
		SELECT sequence, 'answer', 'updated', question_id, question_type, at_ns FROM answer_events WHERE session_id = ?
		UNION ALL
		SELECT sequence, 'timer', action, question_id, CAST(remaining_ms / 1000 AS TEXT) || 's', at_ns FROM timer_events WHERE session_id = ?
		UNION ALL
		SELECT sequence, 'narration', action, question_id, CAST(token AS TEXT), at_ns FROM narration_events WHERE session_id = ?
		ORDER BY 1`,
		sessionID, sessionID, sessionID, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	var out []TimelineEntry
	for rows.Next() {
		var e TimelineEntry
		var atNs int64
		if err := rows.Scan(&e.Sequence, &e.Kind, &e.Action, &e.QuestionID, &e.Detail, &atNs); err != nil {
			return nil, fmt.Errorf("scan timeline: %w", err)
		}
		e.At = time.Unix(0, atNs)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *queryRepo) Dwell(ctx context.Context, sessionID string) (map[int]time.Duration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT action, question_id, at_ns FROM session_events
		 WHERE session_id = ? AND action IN (?, ?, ?)
		 ORDER BY sequence`,
		sessionID, ActionQuestionEntered, ActionFinished, ActionAbandoned,
	)
	if err != nil {
		return nil, fmt.Errorf("query dwell: %w", err)
	}
	defer rows.Close()

	out := make(map[int]time.Duration)
	current := -1
	var since int64
	for rows.Next() {
		var action string
		var qid int
		var atNs int64
		if err := rows.Scan(&action, &qid, &atNs); err != nil {
			return nil, fmt.Errorf("scan dwell: %w", err)
		}
		if current >= 0 {
			out[current] += time.Duration(atNs - since)
		}
		current = -1
		if action == ActionQuestionEntered {
			current, since = qid, atNs
		}
	}
	return out, rows.Err()
}

func (r *queryRepo) AnswerRevisions(ctx context.Context, sessionID string) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT question_id, COUNT(*) FROM answer_events WHERE session_id = ? GROUP BY question_id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query answer revisions: %w", err)
	}
	defer rows.Close()

	out := make(map[int]int)
	for rows.Next() {
		var qid, n int
		if err := rows.Scan(&qid, &n); err != nil {
			return nil, fmt.Errorf("scan answer revisions: %w", err)
		}
		out[qid] = n
	}
	return out, rows.Err()
}

func (r *queryRepo) LLMUsage(ctx context.Context) (LLMUsage, error) {
	var u LLMUsage
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0)
		FROM llm_request_events`,
	).Scan(&u.Requests, &u.Failures, &u.InputTokens, &u.OutputTokens)
	if err != nil {
		return LLMUsage{}, fmt.Errorf("query LLM usage: %w", err)
	}
	return u, nil
}
