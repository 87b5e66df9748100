package questionbank

import (
	"fmt"

	"github.com/kavin/cogniquest/internal/exam"
)

// Lint reports rubric shapes that will silently score 0. These are not load
// errors: the engine tolerates them, but a bank author usually wants to know.
func Lint(questions []exam.Question) []string {
	var warnings []string
	warn := func(q exam.Question, format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf("question %d (%s): ", q.ID, q.Type)+fmt.Sprintf(format, args...))
	}

	for _, q := range questions {
		if q.Type == exam.TypeRegistration || q.Type == exam.TypeClockDrawing {
			continue
		}
		if q.Rule == nil {
			warn(q, "no scoring rule")
			continue
		}

		switch r := q.Rule.(type) {
		case exam.OrientationRule:
			if _, err := exam.ParseDynamicRule(string(r.Dynamic)); err != nil {
				warn(q, "%v", err)
			}
		case exam.ExactMatchRule:
			need := 2
			if q.Type == exam.TypeFiveWordRecall {
				need = 1
			}
			if len(r.Matches) < need {
				warn(q, "needs at least %d exact matches, has %d", need, len(r.Matches))
			}
		case exam.ThresholdRule:
			if len(r.Thresholds) < 3 {
				warn(q, "needs 3 thresholds, has %d", len(r.Thresholds))
			} else if r.Thresholds[0] > r.Thresholds[1] || r.Thresholds[1] > r.Thresholds[2] {
				warn(q, "thresholds %v are not ascending", r.Thresholds)
			}
		case exam.KeywordRule:
			if len(r.Keywords) < 4 {
				warn(q, "needs 4 keywords, has %d", len(r.Keywords))
			}
		}
	}
	return warnings
}
