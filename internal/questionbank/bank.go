// Package questionbank loads and validates exam question banks.
//
// A bank is a JSON document with a semver format version and an ordered
// list of questions. Documents are checked against an embedded JSON Schema
// before decoding, and only format major version v1 is accepted.
package questionbank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/kavin/cogniquest/internal/exam"
)

// SupportedMajor is the bank format major version this build understands.
const SupportedMajor = "v1"

var (
	// ErrEmptyBank is returned for a well-formed bank with no questions.
	ErrEmptyBank = errors.New("question bank is empty")

	// ErrUnsupportedVersion is returned when the bank's format version is not
	// valid semver or has a major version other than SupportedMajor.
	ErrUnsupportedVersion = errors.New("unsupported question bank version")
)

// ErrInvalid reports a bank that failed schema or structural validation.
type ErrInvalid struct {
	Problems []string
}

func (e *ErrInvalid) Error() string {
	if len(e.Problems) == 1 {
		return "invalid question bank: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid question bank: %d problems, first: %s", len(e.Problems), e.Problems[0])
}

// Bank is a decoded question bank.
type Bank struct {
	Version   string
	Questions []exam.Question
}

type bankWire struct {
	Version   string          `json:"version"`
	Questions []exam.Question `json:"questions"`
}

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://question-bank.json"
		if err := c.AddResource(url, doc); err != nil {
			schemaErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(url)
	})
	return schemaCompiled, schemaErr
}

// Parse validates and decodes a bank document. Questions are returned in
// ascending id order.
func Parse(data []byte) (Bank, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Bank{}, fmt.Errorf("parse question bank: %w", err)
	}

	// The version gate runs first so a future format gets a clear error
	// rather than a schema complaint.
	if m, ok := doc.(map[string]any); ok {
		if v, ok := m["version"].(string); ok {
			if err := checkVersion(v); err != nil {
				return Bank{}, err
			}
		}
	}

	schema, err := compiledSchema()
	if err != nil {
		return Bank{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return Bank{}, &ErrInvalid{Problems: []string{err.Error()}}
	}

	var w bankWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Bank{}, fmt.Errorf("decode question bank: %w", err)
	}
	if len(w.Questions) == 0 {
		return Bank{}, ErrEmptyBank
	}
	if err := validateQuestions(w.Questions); err != nil {
		return Bank{}, err
	}

	sort.SliceStable(w.Questions, func(i, j int) bool { return w.Questions[i].ID < w.Questions[j].ID })
	return Bank{Version: w.Version, Questions: w.Questions}, nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("%w: %s (need %s.x.y)", ErrUnsupportedVersion, v, SupportedMajor)
	}
	return nil
}

func validateQuestions(questions []exam.Question) error {
	var problems []string
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			problems = append(problems, fmt.Sprintf("duplicate question id %d", q.ID))
		}
		seen[q.ID] = true
	}
	if len(problems) > 0 {
		return &ErrInvalid{Problems: problems}
	}
	return nil
}

// Marshal encodes questions in bank format with the given version.
func Marshal(version string, questions []exam.Question) ([]byte, error) {
	return json.MarshalIndent(bankWire{Version: version, Questions: questions}, "", "  ")
}
