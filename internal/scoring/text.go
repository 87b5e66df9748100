package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/kavin/cogniquest/internal/region"
)

// normalize trims and case-folds s for comparison.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// tokenize splits folded text into alphanumeric tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}
	return false
}

// containsKeyword accepts an exact match, the keyword as a whole token, or
// the keyword's letters appearing in the answer with separators removed
// ("stock broker" matches "stockbroker").
func containsKeyword(answer, keyword string) bool {
	a, k := normalize(answer), normalize(keyword)
	if a == "" || k == "" {
		return false
	}
	if a == k {
		return true
	}

	tokens := tokenize(a)
	if containsToken(tokens, k) {
		return true
	}

	condensedKeyword := strings.Join(tokenize(k), "")
	if condensedKeyword == "" {
		return false
	}
	return strings.Contains(strings.Join(tokens, ""), condensedKeyword)
}

// matchesRegionKeyword reports whether a free-text region answer names the
// same region as keyword. Either side may be a full name or abbreviation.
func matchesRegionKeyword(answer, keyword string) bool {
	a, k := normalize(answer), normalize(keyword)
	if a == "" || k == "" {
		return false
	}
	if a == k || strings.Contains(a, k) {
		return true
	}

	target, ok := region.Lookup(keyword)
	if !ok {
		got, ok := region.Extract(answer)
		if !ok {
			return false
		}
		return normalize(got.FullName) == k || normalize(got.Abbreviation) == k
	}

	// The target is known, so its abbreviation is safe to accept in any case
	// as long as it stands alone ("chicago, il").
	if containsToken(tokenize(a), normalize(target.Abbreviation)) {
		return true
	}
	got, ok := region.Extract(answer)
	return ok && got.Abbreviation == target.Abbreviation
}
