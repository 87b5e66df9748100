package narration

import (
	"time"

	"github.com/kavin/cogniquest/internal/exam"
)

// PostUtteranceDelay is the pause after each utterance.
const PostUtteranceDelay = time.Second

// RegistrationWords are the five objects the subject is asked to remember.
var RegistrationWords = []string{"Apple", "Pen", "Tie", "House", "Car"}

// NumberSeries are the spoken numbers for the backwards series. The first is
// practice.
var NumberSeries = []string{
	"eighty-seven",
	"six hundred forty-eight",
	"eight thousand, five hundred thirty-seven",
}

// NumberSeriesDigits are NumberSeries written as digits.
var NumberSeriesDigits = []string{"87", "648", "8537"}

// Script returns the utterances narrated for q, starting with the prompt.
// Questions that are not narrated return nil.
func Script(q exam.Question) []string {
	var tail []string
	switch q.Type {
	case exam.TypeRegistration:
		tail = RegistrationWords
	case exam.TypeNumberSeriesBackwards:
		tail = NumberSeries
	default:
		return nil
	}

	out := make([]string, 0, len(tail)+1)
	if q.Text != "" {
		out = append(out, q.Text)
	}
	return append(out, tail...)
}
