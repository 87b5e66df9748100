package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/llm"
	"github.com/kavin/cogniquest/internal/questionbank"
	"github.com/kavin/cogniquest/internal/report"
	"github.com/kavin/cogniquest/internal/store"
)

const sampleAnswers = `[
  {"questionId": 1, "type": "orientation", "text": "wednesday"},
  {"questionId": 2, "type": "orientation", "text": "24"},
  {"questionId": 3, "type": "orientation", "text": "VA"},
  {"questionId": 5, "type": "calculation", "spent": 23, "left": 77}
]`

func scoreSample(t *testing.T, answers, regionName string) (report.Report, error) {
	t.Helper()
	now, err := parseDate("2024-03-13")
	require.NoError(t, err)
	return scoreAnswers(context.Background(), scoreOptions{
		Answers:    []byte(answers),
		Loader:     questionbank.EmbeddedLoader{},
		Region:     regionName,
		HighSchool: true,
		Now:        now,
		Translator: i18n.Default(),
	})
}

func TestScoreAnswers(t *testing.T) {
	rep, err := scoreSample(t, sampleAnswers, "Virginia")
	require.NoError(t, err)

	assert.Equal(t, 6, rep.Total)
	assert.Equal(t, 30, rep.MaxTotal)
	assert.Empty(t, rep.Unscored)
}

func TestScoreAnswersWithoutRegion(t *testing.T) {
	rep, err := scoreSample(t, sampleAnswers, "")
	require.NoError(t, err)

	assert.Equal(t, 5, rep.Total)
	assert.Equal(t, []int{3}, rep.Unscored)
}

func TestScoreAnswersRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		answers string
		region  string
	}{
		{"unknown question", `[{"questionId": 99, "type": "orientation", "text": "x"}]`, ""},
		{"type mismatch", `[{"questionId": 1, "type": "calculation", "spent": 1, "left": 2}]`, ""},
		{"not json", `{`, ""},
		{"unknown region", `[]`, "Atlantis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scoreSample(t, tt.answers, tt.region)
			assert.Error(t, err)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-03-13")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.Equal(t, 12, d.Hour())

	_, err = parseDate("13/03/2024")
	assert.Error(t, err)
}

func TestParseEducation(t *testing.T) {
	for _, s := range []string{"highschool", "HS", " yes "} {
		hs, err := parseEducation(s)
		require.NoError(t, err, s)
		assert.True(t, hs, s)
	}
	hs, err := parseEducation("less")
	require.NoError(t, err)
	assert.False(t, hs)

	_, err = parseEducation("college")
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, report.FormatMarkdown, formatForPath("out/report.MD"))
	assert.Equal(t, report.FormatJSON, formatForPath("report.json"))
	assert.Equal(t, report.FormatText, formatForPath("report.txt"))
	assert.Equal(t, report.FormatText, formatForPath("report"))
}

func TestQuestionsOutput(t *testing.T) {
	bank, err := questionbank.Parse(questionbank.DefaultBank())
	require.NoError(t, err)

	var list bytes.Buffer
	printQuestions(&list, bank)
	assert.Contains(t, list.String(), "What day of the week is it?")
	assert.Contains(t, list.String(), "30 points")

	var lint bytes.Buffer
	require.NoError(t, reportLint(&lint, bank))
	assert.Contains(t, lint.String(), "ok: ")
	assert.Contains(t, lint.String(), "30 points")
}

func TestExtractRegion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, extractRegion(&buf, "we live in new york these days"))
	assert.Equal(t, "New York (NY)\n", buf.String())

	assert.Error(t, extractRegion(&buf, "somewhere else"))
}

func TestJournalOutput(t *testing.T) {
	st, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	q := st.QueryRepo()

	var empty bytes.Buffer
	require.NoError(t, listSessions(ctx, &empty, q))
	assert.Contains(t, empty.String(), "No exams journaled yet.")

	base := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	repo := st.EventRepo()
	require.NoError(t, repo.AppendSessionEvent(ctx, store.SessionEventData{SessionID: "s1", Action: store.ActionStarted, At: base}))
	require.NoError(t, repo.AppendSessionEvent(ctx, store.SessionEventData{SessionID: "s1", Action: store.ActionQuestionEntered, QuestionID: 1, At: base}))
	require.NoError(t, repo.AppendSessionEvent(ctx, store.SessionEventData{SessionID: "s1", Action: store.ActionFinished, At: base.Add(90 * time.Second)}))

	var list bytes.Buffer
	require.NoError(t, listSessions(ctx, &list, q))
	assert.Contains(t, list.String(), "s1")
	assert.Contains(t, list.String(), "finished")
	assert.Contains(t, list.String(), "1m30s")

	var show bytes.Buffer
	require.NoError(t, showTimeline(ctx, &show, q, "s1"))
	assert.Contains(t, show.String(), "question_entered")
	assert.Contains(t, show.String(), "Q1")

	assert.Error(t, showTimeline(ctx, &bytes.Buffer{}, q, "missing"))
}

func TestLLMStatus(t *testing.T) {
	for _, env := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(env, "")
	}

	var none bytes.Buffer
	require.NoError(t, printLLMStatus(&none, llm.DefaultConfig()))
	assert.Contains(t, none.String(), "No LLM provider configured.")

	cfg := llm.DefaultConfig()
	cfg.Provider = llm.ProviderOpenAI
	cfg.OpenAI.APIKey = "sk-test"
	var buf bytes.Buffer
	require.NoError(t, printLLMStatus(&buf, cfg))
	assert.Contains(t, buf.String(), "openai")
	assert.Contains(t, buf.String(), "gpt-4o-mini")

	cfg.OpenAI.APIKey = ""
	assert.Error(t, printLLMStatus(&bytes.Buffer{}, cfg))
}

func TestLLMUsage(t *testing.T) {
	st, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	var empty bytes.Buffer
	require.NoError(t, printLLMUsage(ctx, &empty, st.QueryRepo()))
	assert.Contains(t, empty.String(), "No LLM usage recorded yet.")

	repo := st.EventRepo()
	require.NoError(t, repo.AppendLLMRequest(ctx, store.LLMRequestEventData{Provider: "mock", InputTokens: 100, OutputTokens: 20, Success: true}))
	require.NoError(t, repo.AppendLLMRequest(ctx, store.LLMRequestEventData{Provider: "mock", ErrorMessage: "rate limited"}))

	var buf bytes.Buffer
	require.NoError(t, printLLMUsage(ctx, &buf, st.QueryRepo()))
	assert.Contains(t, buf.String(), "Requests:       2 (1 failed)")
	assert.Contains(t, buf.String(), "Total tokens:   120")
}
