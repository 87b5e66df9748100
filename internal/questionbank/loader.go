package questionbank

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/kavin/cogniquest/internal/exam"
)

// Loader supplies the ordered question list for an exam. A failure to load
// is reported as an error; a bank without questions as ErrEmptyBank.
type Loader interface {
	Load(ctx context.Context) ([]exam.Question, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) ([]exam.Question, error)

func (f LoaderFunc) Load(ctx context.Context) ([]exam.Question, error) { return f(ctx) }

//go:embed questions.json
var defaultBank []byte

// DefaultBank returns the raw embedded question bank.
func DefaultBank() []byte {
	return append([]byte(nil), defaultBank...)
}

// EmbeddedLoader loads the built-in 30-point bank.
type EmbeddedLoader struct{}

func (EmbeddedLoader) Load(ctx context.Context) ([]exam.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := Parse(defaultBank)
	if err != nil {
		return nil, fmt.Errorf("embedded bank: %w", err)
	}
	return b.Questions, nil
}

// FileLoader loads a bank from a JSON file.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(ctx context.Context) ([]exam.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	return b.Questions, nil
}

// NewLoader returns a FileLoader for path, or the EmbeddedLoader when path
// is empty.
func NewLoader(path string) Loader {
	if path == "" {
		return EmbeddedLoader{}
	}
	return FileLoader{Path: path}
}
