package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func summarySchema() *Schema {
	return &Schema{
		Name: "test-summary",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary":  map[string]any{"type": "string", "minLength": 1},
				"strength": map[string]any{"type": "integer", "minimum": 0},
				"tone":     map[string]any{"type": "string", "enum": []string{"neutral", "warm"}},
				"notes": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []string{"summary", "strength"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"complete", `{"summary":"ok","strength":2,"tone":"warm","notes":["a"]}`, true},
		{"optional fields omitted", `{"summary":"ok","strength":0}`, true},
		{"missing required", `{"summary":"ok"}`, false},
		{"wrong type", `{"summary":"ok","strength":"two"}`, false},
		{"enum violated", `{"summary":"ok","strength":1,"tone":"cold"}`, false},
		{"extra property", `{"summary":"ok","strength":1,"extra":true}`, false},
		{"nested item type", `{"summary":"ok","strength":1,"notes":[3]}`, false},
		{"empty string", `{"summary":"","strength":1}`, false},
		{"malformed", `{"summary":`, false},
		{"empty body", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(summarySchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("err = %v, want *ErrInvalidResponse", err)
			}
			if string(inv.Content) != tt.raw {
				t.Errorf("content = %q, want %q", inv.Content, tt.raw)
			}
		})
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

func TestFinishReportsTruncation(t *testing.T) {
	err := finish(summarySchema(), json.RawMessage(`{"summary":"o`), StopMaxTokens)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %v, want *ErrMaxTokensExceeded", err)
	}
}
