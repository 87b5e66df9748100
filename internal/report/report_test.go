package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/llm"
	"github.com/kavin/cogniquest/internal/region"
	"github.com/kavin/cogniquest/internal/scoring"
)

var finished = time.Date(2024, time.March, 13, 10, 30, 0, 0, time.UTC)

func questions() []exam.Question {
	return []exam.Question{
		{ID: 1, Text: "What year is it?", Type: exam.TypeOrientation, MaxPoints: 1, Rule: exam.OrientationRule{Dynamic: exam.RuleCurrentYear}},
		{ID: 2, Text: "What state are we in?\nTake your time.", Type: exam.TypeOrientation, MaxPoints: 1, Rule: exam.OrientationRule{Dynamic: exam.RuleMatchesRegion}},
		{ID: 4, Text: "Remember these five objects.", Type: exam.TypeRegistration},
		{ID: 5, Text: "You have $100...", Type: exam.TypeCalculation, MaxPoints: 3, Rule: exam.ExactMatchRule{Matches: []string{"23", "77"}}},
		{ID: 6, Text: "Name as many animals as you can.", Type: exam.TypeAnimalList, MaxPoints: 3, Rule: exam.ThresholdRule{Thresholds: []int{5, 10, 15}}},
	}
}

func input(r *region.Info) Input {
	qs := questions()
	answers := exam.Answers{
		1: exam.OrientationAnswer{Text: "2024"},
		2: exam.OrientationAnswer{Text: "Virginia"},
		5: exam.CalculationAnswer{Spent: 23, Left: 70},
	}
	in := scoring.Input{Questions: qs, Answers: answers, HighSchool: true, Region: r, Now: finished}
	res := scoring.Score(in)
	return Input{
		SessionID:  "s-1",
		Questions:  qs,
		Answers:    answers,
		Score:      res,
		Details:    scoring.Explain(in),
		Band:       scoring.DefaultBands().Interpret(res.Total, true),
		HighSchool: true,
		Region:     r,
		FinishedAt: finished,
		Dwell:      map[int]time.Duration{1: 4200 * time.Millisecond},
		Revisions:  map[int]int{5: 3},
	}
}

var virginia = &region.Info{FullName: "Virginia", Abbreviation: "VA"}

func TestBuild(t *testing.T) {
	r := Build(input(virginia), nil)

	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 8, r.MaxTotal)
	assert.Equal(t, scoring.BandImpaired, r.Band)
	assert.Equal(t, "Dementia is Likely", r.BandLabel)
	assert.Empty(t, r.Unscored)

	require.Len(t, r.Items, 4, "registration is left out")
	ids := []int{}
	for _, it := range r.Items {
		ids = append(ids, it.QuestionID)
	}
	assert.Equal(t, []int{1, 2, 5, 6}, ids)

	q2 := r.Items[1]
	assert.Equal(t, "What state are we in?", q2.Prompt)
	assert.Equal(t, 1, q2.Points)

	q5 := r.Items[2]
	assert.Equal(t, "Spent: $23, Left: $70", q5.Response)
	assert.Equal(t, 1, q5.Points)
	assert.Equal(t, 3, q5.Revisions)
	require.NotNil(t, q5.Answer)
	assert.Equal(t, "calculation", q5.Answer.Type)
	assert.Len(t, q5.Checks, 2)

	q6 := r.Items[3]
	assert.False(t, q6.Answered)
	assert.Equal(t, "No response", q6.Response)
	assert.Nil(t, q6.Answer)

	assert.Equal(t, int64(4200), r.Items[0].DwellMs)
}

func TestBuildWithoutRegionMarksUnscored(t *testing.T) {
	r := Build(input(nil), nil)
	assert.Equal(t, []int{2}, r.Unscored)
	assert.True(t, r.Items[1].Unscored)
	assert.Equal(t, 2, r.Total)
}

func TestJSONIncludesUnscoredIDs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, Build(input(nil), nil)))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []any{float64(2)}, doc["unscored"])
	assert.Nil(t, doc["region"])
	assert.Equal(t, "likelyImpaired", doc["band"])
	assert.NoError(t, Validate(buf.Bytes()))
}

func TestJSONEmptyUnscoredIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, Build(input(virginia), nil)))
	assert.Contains(t, buf.String(), `"unscored": []`)
}

func TestValidateRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing fields", `{"total": 3}`},
		{"bad band", `{"generatedAt":"2024-03-13T10:30:00Z","lang":"en","total":1,"maxTotal":30,"band":"great","bandLabel":"x","highSchool":true,"region":null,"unscored":[],"items":[],"disclaimer":"d"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate([]byte(tt.doc)))
		})
	}
}

func TestTextAndMarkdown(t *testing.T) {
	r := Build(input(nil), nil)
	r.Summary = "You did well on orientation."

	var text bytes.Buffer
	require.NoError(t, Text(&text, r))
	out := text.String()
	for _, want := range []string{
		"CogniQuest Screening Report",
		"Final score:     2 / 8",
		"Dementia is Likely",
		"Q2: What state are we in?",
		"Not scored (region unknown)",
		"1 question could not be scored",
		"You did well on orientation.",
		"changed 2 times",
		"Time spent 4s",
		"Disclaimer:",
	} {
		assert.Contains(t, out, want)
	}

	var md bytes.Buffer
	require.NoError(t, Markdown(&md, r))
	assert.Contains(t, md.String(), "# CogniQuest Screening Report")
	assert.Contains(t, md.String(), "| 5 | You have $100... | Spent: $23, Left: $70 | 1 / 3 points (changed 2 times) |")
}

func TestLocalizedReport(t *testing.T) {
	es, err := i18n.New("es")
	require.NoError(t, err)

	r := Build(input(virginia), es)
	assert.Equal(t, "es", r.Lang)
	assert.Equal(t, "Probable demencia", r.BandLabel)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, r))
	assert.Contains(t, buf.String(), "Informe de detección CogniQuest")
	assert.Contains(t, buf.String(), "Virginia (VA)")
}

func TestResponseFormatting(t *testing.T) {
	tr := i18n.Default()
	tests := []struct {
		name string
		a    exam.Answer
		want string
	}{
		{"nil", nil, "No response"},
		{"blank orientation", exam.OrientationAnswer{Text: "  "}, "No response"},
		{"animals", exam.AnimalListAnswer{Count: 1}, "Named 1 animal"},
		{"words", exam.WordRecallAnswer{Words: []string{"apple", "", " pen "}}, "apple, pen"},
		{"no words", exam.WordRecallAnswer{Words: []string{""}}, "No response"},
		{"series", exam.NumberSeriesAnswer{Series: [3]string{"78", "", "7358"}}, "87 -> 78, 648 -> NR, 8537 -> 7358"},
		{"clock", exam.ClockDrawingAnswer{HasCorrectNumbers: true}, "Numbers correct: ✓, Time correct: ✗"},
		{"shape", exam.ShapeAnswer{Tapped: "Triangle"}, "Tapped: Triangle, Largest: NR"},
		{"story", exam.StoryAnswer{Name: "Jill", Region: "IL"}, "Name: Jill, Work: NR, Returned: NR, State: IL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Response(tr, exam.Question{}, tt.a))
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "md": FormatMarkdown, "JSON": FormatJSON, "markdown": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"summary":"  Orientation went well. Please talk to a doctor.  "}`)})
	r := Build(input(nil), nil)

	got, err := Summarize(context.Background(), mock, r)
	require.NoError(t, err)
	assert.Equal(t, "Orientation went well. Please talk to a doctor.", got)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "report-summary", calls[0].Schema.Name)
	prompt := calls[0].Messages[0].Content
	assert.True(t, strings.Contains(prompt, `"unscored":true`), "prompt should flag unscored areas: %s", prompt)
	assert.NotContains(t, prompt, "Virginia", "free-text answers stay out of the prompt")
}

func TestSummarizeErrors(t *testing.T) {
	r := Build(input(virginia), nil)

	_, err := Summarize(context.Background(), llm.NewMockProvider(), r)
	var unavailable *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavailable))

	empty := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"summary":" "}`)})
	_, err = Summarize(context.Background(), empty, r)
	assert.Error(t, err)
}
