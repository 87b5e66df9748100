package exam

import "fmt"

// ScoringRule is the rubric attached to a question. The set of variants is
// closed: OrientationRule, ExactMatchRule, ThresholdRule and KeywordRule.
type ScoringRule interface {
	isScoringRule()
}

// DynamicRule names an orientation check evaluated at scoring time.
type DynamicRule string

const (
	RuleCurrentDay    DynamicRule = "currentDay"
	RuleCurrentYear   DynamicRule = "currentYear"
	RuleNonEmpty      DynamicRule = "nonEmpty"
	RuleMatchesRegion DynamicRule = "matchesRegion"
)

// ParseDynamicRule converts a wire name into a DynamicRule. The legacy name
// "matchesState" is accepted as an alias of matchesRegion.
func ParseDynamicRule(s string) (DynamicRule, error) {
	switch DynamicRule(s) {
	case RuleCurrentDay, RuleCurrentYear, RuleNonEmpty, RuleMatchesRegion:
		return DynamicRule(s), nil
	case "matchesState":
		return RuleMatchesRegion, nil
	}
	return "", fmt.Errorf("unknown dynamic rule %q", s)
}

// OrientationRule scores an orientation answer against a value known only
// when the exam is scored (today's date, the subject's region).
type OrientationRule struct {
	Dynamic DynamicRule
}

// ExactMatchRule holds expected values. Calculation, number-series and shape
// questions read it positionally; five-word recall treats it as a set.
type ExactMatchRule struct {
	Matches []string
}

// At returns the expected value at position i, or false if the rule is
// too short.
func (r ExactMatchRule) At(i int) (string, bool) {
	if i < 0 || i >= len(r.Matches) {
		return "", false
	}
	return r.Matches[i], true
}

// ThresholdRule holds ascending cut points [low, mid, high].
type ThresholdRule struct {
	Thresholds []int
}

// KeywordRule holds story keywords: name, profession, time phrase, region.
type KeywordRule struct {
	Keywords []string
}

func (OrientationRule) isScoringRule() {}
func (ExactMatchRule) isScoringRule()  {}
func (ThresholdRule) isScoringRule()   {}
func (KeywordRule) isScoringRule()     {}
