package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kavin/cogniquest/internal/llm"
)

const summarySystem = `You write short, plain-language summaries of cognitive screening results for the person who took the test.
Rules:
- Use only the facts given. Never add a diagnosis, never speculate about causes.
- Two to four sentences, calm and neutral.
- Mention which areas went well and which lost points, by area name, not by question number.
- If some items were not scored, say so briefly.
- Always end by recommending a conversation with a healthcare professional about any concerns.
- Write in the language given by the "lang" field.`

var summarySchema = &llm.Schema{
	Name:        "report-summary",
	Description: "A plain-language summary of a screening report",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Two to four sentences for the test taker",
			},
		},
		"required":             []string{"summary"},
		"additionalProperties": false,
	},
}

// summaryFacts is what the model sees. Free-text answers are left out.
type summaryFacts struct {
	Lang      string        `json:"lang"`
	Total     int           `json:"total"`
	MaxTotal  int           `json:"maxTotal"`
	BandLabel string        `json:"interpretation"`
	Areas     []summaryArea `json:"areas"`
}

type summaryArea struct {
	Area      string `json:"area"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"maxPoints"`
	Unscored  bool   `json:"unscored,omitempty"`
}

// Summarize asks the provider for a plain-language summary of r.
func Summarize(ctx context.Context, p llm.Provider, r Report) (string, error) {
	facts := summaryFacts{
		Lang:      r.Lang,
		Total:     r.Total,
		MaxTotal:  r.MaxTotal,
		BandLabel: r.BandLabel,
	}
	for _, it := range r.Items {
		facts.Areas = append(facts.Areas, summaryArea{
			Area:      string(it.Type),
			Points:    it.Points,
			MaxPoints: it.MaxPoints,
			Unscored:  it.Unscored,
		})
	}
	data, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("encode summary facts: %w", err)
	}

	req := llm.UserPrompt(summarySystem, "Screening result:\n"+string(data))
	req.Schema = summarySchema
	req.MaxTokens = 400
	req.Temperature = 0.2

	resp, err := p.Generate(llm.WithPurpose(ctx, llm.PurposeReportSummary), req)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	var out struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("decode summary: %w", err)
	}
	s := strings.TrimSpace(out.Summary)
	if s == "" {
		return "", fmt.Errorf("provider returned an empty summary")
	}
	return s, nil
}
