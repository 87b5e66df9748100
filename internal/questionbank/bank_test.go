package questionbank

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavin/cogniquest/internal/exam"
)

func TestEmbeddedBank(t *testing.T) {
	questions, err := EmbeddedLoader{}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, 11)

	assert.Equal(t, 30, exam.MaxTotal(questions))
	assert.Empty(t, Lint(questions))

	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
	}

	region := questions[2]
	assert.Equal(t, exam.OrientationRule{Dynamic: exam.RuleMatchesRegion}, region.Rule)

	clock := questions[8]
	assert.Equal(t, exam.TypeClockDrawing, clock.Type)
	assert.Nil(t, clock.Rule)
	assert.Len(t, clock.RequiredComponents, 2)

	story := questions[10]
	assert.Equal(t, exam.KeywordRule{Keywords: []string{"jill", "stockbroker", "teenagers", "illinois"}}, story.Rule)
}

func TestParseRoundTrip(t *testing.T) {
	b, err := Parse(DefaultBank())
	require.NoError(t, err)

	data, err := Marshal(b.Version, b.Questions)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		invalid bool
	}{
		{
			name:    "empty list",
			input:   `{"version":"v1.0.0","questions":[]}`,
			wantErr: ErrEmptyBank,
		},
		{
			name:    "major version 2",
			input:   `{"version":"v2.0.0","questions":[{"id":1,"text":"x","type":"orientation","maxPoints":1}]}`,
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "not semver",
			input:   `{"version":"one","questions":[{"id":1,"text":"x","type":"orientation","maxPoints":1}]}`,
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "duplicate ids",
			input:   `{"version":"v1.2.0","questions":[{"id":1,"text":"a","type":"orientation","maxPoints":1},{"id":1,"text":"b","type":"orientation","maxPoints":1}]}`,
			invalid: true,
		},
		{
			name:    "unknown type",
			input:   `{"version":"v1.0.0","questions":[{"id":1,"text":"x","type":"juggling","maxPoints":1}]}`,
			invalid: true,
		},
		{
			name:    "negative points",
			input:   `{"version":"v1.0.0","questions":[{"id":1,"text":"x","type":"orientation","maxPoints":-1}]}`,
			invalid: true,
		},
		{
			name:    "missing version",
			input:   `{"questions":[{"id":1,"text":"x","type":"orientation","maxPoints":1}]}`,
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.invalid {
				var inv *ErrInvalid
				assert.True(t, errors.As(err, &inv), "got %v", err)
			}
			assert.False(t, errors.Is(err, ErrEmptyBank) && tt.wantErr != ErrEmptyBank)
		})
	}
}

func TestParseBadJSON(t *testing.T) {
	_, err := Parse([]byte(`{"version":`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyBank)
}

func TestParseSortsByID(t *testing.T) {
	b, err := Parse([]byte(`{"version":"v1.0.0","questions":[
		{"id":3,"text":"c","type":"orientation","maxPoints":1},
		{"id":1,"text":"a","type":"orientation","maxPoints":1}]}`))
	require.NoError(t, err)
	require.Len(t, b.Questions, 2)
	assert.Equal(t, 1, b.Questions[0].ID)
	assert.Equal(t, 3, b.Questions[1].ID)
}

func TestParseKeepsMalformedRules(t *testing.T) {
	b, err := Parse([]byte(`{"version":"v1.0.0","questions":[
		{"id":1,"text":"a","type":"animalList","maxPoints":3,"scoringRule":{"thresholds":[5]}},
		{"id":2,"text":"b","type":"orientation","maxPoints":1,"scoringRule":{"dynamicRule":"matchesState"}},
		{"id":3,"text":"c","type":"orientation","maxPoints":1,"scoringRule":{"dynamicRule":"phaseOfMoon"}}]}`))
	require.NoError(t, err)

	assert.Equal(t, exam.ThresholdRule{Thresholds: []int{5}}, b.Questions[0].Rule)
	assert.Equal(t, exam.OrientationRule{Dynamic: exam.RuleMatchesRegion}, b.Questions[1].Rule)

	warnings := Lint(b.Questions)
	assert.Len(t, warnings, 2)
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.json")
	require.NoError(t, os.WriteFile(path, DefaultBank(), 0o600))

	questions, err := NewLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 11)

	_, err = FileLoader{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyBank)
}

func TestLoaderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader("").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
