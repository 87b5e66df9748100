package scoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/region"
)

// Check is one sub-check of a question's rubric.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Points int    `json:"points"`
}

func check(name string, passed bool, worth int) Check {
	c := Check{Name: name, Passed: passed}
	if passed {
		c.Points = worth
	}
	return c
}

func sumChecks(checks []Check) int {
	total := 0
	for _, c := range checks {
		total += c.Points
	}
	return total
}

// scoreOrientation returns the checks for an orientation question and
// whether it could not be evaluated.
func scoreOrientation(q exam.Question, a exam.Answer, in Input) (checks []Check, unscored bool) {
	rule, ok := q.Rule.(exam.OrientationRule)
	if !ok {
		return nil, false
	}
	ans, ok := a.(exam.OrientationAnswer)
	if !ok {
		return nil, false
	}

	switch rule.Dynamic {
	case exam.RuleCurrentDay:
		return []Check{check("weekday", matchesWeekday(ans.Text, in.Now.Weekday()), 1)}, false

	case exam.RuleCurrentYear:
		year := in.Now.Year()
		n, ok := ans.Number()
		return []Check{check("year", ok && (n == year || n == year%100), 1)}, false

	case exam.RuleNonEmpty:
		return []Check{check("answered", strings.TrimSpace(ans.Text) != "", 1)}, false

	case exam.RuleMatchesRegion:
		if in.Region == nil {
			return []Check{{Name: "region"}}, true
		}
		return []Check{check("region", matchesRegion(ans.Text, *in.Region), 1)}, false
	}
	return nil, false
}

func matchesWeekday(answer string, day time.Weekday) bool {
	a := normalize(answer)
	if a == "" {
		return false
	}
	full := normalize(day.String())
	return a == full || a == full[:3]
}

func matchesRegion(answer string, r region.Info) bool {
	a := normalize(answer)
	if a == "" {
		return false
	}
	return a == normalize(r.FullName) || a == normalize(r.Abbreviation)
}

func scoreCalculation(q exam.Question, a exam.Answer) []Check {
	rule, ok := q.Rule.(exam.ExactMatchRule)
	if !ok {
		return nil
	}
	ans, ok := a.(exam.CalculationAnswer)
	if !ok {
		return nil
	}

	spent, okSpent := rule.At(0)
	left, okLeft := rule.At(1)
	return []Check{
		check("spent", okSpent && strconv.Itoa(ans.Spent) == strings.TrimSpace(spent), 1),
		check("left", okLeft && strconv.Itoa(ans.Left) == strings.TrimSpace(left), 2),
	}
}

func scoreAnimalList(q exam.Question, a exam.Answer) []Check {
	rule, ok := q.Rule.(exam.ThresholdRule)
	if !ok || len(rule.Thresholds) < 3 {
		return nil
	}
	ans, ok := a.(exam.AnimalListAnswer)
	if !ok {
		return nil
	}

	low, mid, high := rule.Thresholds[0], rule.Thresholds[1], rule.Thresholds[2]
	switch {
	case ans.Count >= high:
		return []Check{check("animals ≥ "+strconv.Itoa(high), true, 3)}
	case ans.Count >= mid:
		return []Check{check("animals ≥ "+strconv.Itoa(mid), true, 2)}
	case ans.Count >= low:
		return []Check{check("animals ≥ "+strconv.Itoa(low), true, 1)}
	}
	return []Check{check("animals ≥ "+strconv.Itoa(low), false, 1)}
}

// scoreWordRecall counts every recalled word found in the target set. A
// correct word entered twice counts twice.
func scoreWordRecall(q exam.Question, a exam.Answer) []Check {
	rule, ok := q.Rule.(exam.ExactMatchRule)
	if !ok {
		return nil
	}
	ans, ok := a.(exam.WordRecallAnswer)
	if !ok {
		return nil
	}

	targets := make(map[string]bool, len(rule.Matches))
	for _, m := range rule.Matches {
		targets[normalize(m)] = true
	}

	checks := make([]Check, 0, len(ans.Words))
	for _, w := range ans.Words {
		n := normalize(w)
		if n == "" {
			continue
		}
		checks = append(checks, check(n, targets[n], 1))
	}
	return checks
}

func scoreNumberSeries(q exam.Question, a exam.Answer) []Check {
	rule, ok := q.Rule.(exam.ExactMatchRule)
	if !ok {
		return nil
	}
	ans, ok := a.(exam.NumberSeriesAnswer)
	if !ok {
		return nil
	}

	checks := make([]Check, 0, 2)
	for i := 0; i < 2; i++ {
		want, ok := rule.At(i)
		got := strings.TrimSpace(ans.Series[i+1])
		checks = append(checks, check("series "+strconv.Itoa(i+2), ok && got != "" && got == strings.TrimSpace(want), 1))
	}
	return checks
}

func scoreClockDrawing(a exam.Answer) []Check {
	ans, ok := a.(exam.ClockDrawingAnswer)
	if !ok {
		return nil
	}
	return []Check{
		check("hour markers", ans.HasCorrectNumbers, 2),
		check("time", ans.HasCorrectTime, 2),
	}
}

func scoreShapes(q exam.Question, a exam.Answer) []Check {
	rule, ok := q.Rule.(exam.ExactMatchRule)
	if !ok {
		return nil
	}
	ans, ok := a.(exam.ShapeAnswer)
	if !ok {
		return nil
	}

	same := func(got string, i int) bool {
		want, ok := rule.At(i)
		return ok && got != "" && normalize(got) == normalize(want)
	}
	return []Check{
		check("tapped", same(ans.Tapped, 0), 1),
		check("largest", same(ans.Largest, 1), 1),
	}
}

func scoreStory(q exam.Question, a exam.Answer) []Check {
	rule, ok := q.Rule.(exam.KeywordRule)
	if !ok || len(rule.Keywords) < 4 {
		return nil
	}
	ans, ok := a.(exam.StoryAnswer)
	if !ok {
		return nil
	}

	kw := rule.Keywords
	return []Check{
		check("name", containsKeyword(ans.Name, kw[0]), 2),
		check("profession", containsKeyword(ans.Profession, kw[1]), 2),
		check("when returned", containsKeyword(ans.WhenReturned, kw[2]) || containsKeyword(ans.WhenReturned, "teen"), 2),
		check("region", matchesRegionKeyword(ans.Region, kw[3]), 2),
	}
}
