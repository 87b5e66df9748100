package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/kavin/cogniquest/internal/store"
)

// JournalingProvider records every attempt in the event journal.
type JournalingProvider struct {
	inner  Provider
	events store.EventRepo
	log    *slog.Logger
}

// WithJournal wraps p so each call is appended as an LLM request event. A
// nil repo disables recording.
func WithJournal(p Provider, events store.EventRepo, log *slog.Logger) Provider {
	if events == nil {
		return p
	}
	if log == nil {
		log = slog.Default()
	}
	return &JournalingProvider{inner: p, events: events, log: log}
}

func (j *JournalingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := j.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  j.inner.Name(),
		Model:     j.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// The caller's context may already be cancelled; the record should
	// still land.
	if jerr := j.events.AppendLLMRequest(context.WithoutCancel(ctx), data); jerr != nil {
		j.log.Warn("journal LLM request failed", "provider", data.Provider, "error", jerr)
	}
	return resp, err
}

func (j *JournalingProvider) Name() string    { return j.inner.Name() }
func (j *JournalingProvider) ModelID() string { return j.inner.ModelID() }
