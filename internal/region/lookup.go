package region

import (
	"sort"
	"strings"
	"unicode"
)

// Info identifies one administrative region.
type Info struct {
	FullName     string `json:"fullName"`
	Abbreviation string `json:"abbreviation"`
}

func (i Info) String() string {
	return i.FullName + " (" + i.Abbreviation + ")"
}

// table holds the region list with lookup indices.
type table struct {
	regions []Info
	byAbbr  map[string]Info
	byName  map[string]Info
	// longestFirst orders regions by descending name length so that
	// "West Virginia" is tried before "Virginia".
	longestFirst []Info
}

var t = buildTable(seedRegions)

func buildTable(regions []Info) *table {
	tb := &table{
		regions: regions,
		byAbbr:  make(map[string]Info, len(regions)),
		byName:  make(map[string]Info, len(regions)),
	}
	for _, r := range regions {
		tb.byAbbr[strings.ToUpper(r.Abbreviation)] = r
		tb.byName[strings.ToLower(r.FullName)] = r
	}

	tb.longestFirst = append([]Info(nil), regions...)
	sort.SliceStable(tb.longestFirst, func(i, j int) bool {
		return len(tb.longestFirst[i].FullName) > len(tb.longestFirst[j].FullName)
	})
	return tb
}

// All returns every region ordered by abbreviation.
func All() []Info {
	out := append([]Info(nil), t.regions...)
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out
}

// Lookup resolves an exact abbreviation or full name, ignoring case and
// surrounding whitespace.
func Lookup(raw string) (Info, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Info{}, false
	}
	if r, ok := t.byAbbr[strings.ToUpper(trimmed)]; ok {
		return r, true
	}
	if r, ok := t.byName[strings.ToLower(collapseSpaces(trimmed))]; ok {
		return r, true
	}
	return Info{}, false
}

// Extract finds a region mentioned anywhere in free text.
//
// Resolution order:
//  1. exact Lookup of the whole text
//  2. the longest full name appearing as a whole-word phrase
//  3. an abbreviation written as an upper-case token ("moved to IL")
//
// Lower-case two-letter tokens are not treated as abbreviations since many
// of them are common words ("in", "or", "me").
func Extract(text string) (Info, bool) {
	if r, ok := Lookup(text); ok {
		return r, true
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Info{}, false
	}

	lowered := make([]string, len(tokens))
	for i, tok := range tokens {
		lowered[i] = strings.ToLower(tok)
	}
	phrase := " " + strings.Join(lowered, " ") + " "
	for _, r := range t.longestFirst {
		if strings.Contains(phrase, " "+strings.ToLower(r.FullName)+" ") {
			return r, true
		}
	}

	for _, tok := range tokens {
		if len(tok) != 2 || tok != strings.ToUpper(tok) {
			continue
		}
		if r, ok := t.byAbbr[tok]; ok {
			return r, true
		}
	}
	return Info{}, false
}

// Same reports whether a and b denote the same region. Either side may be
// an abbreviation, a full name, or text mentioning one.
func Same(a, b string) bool {
	ra, ok := Extract(a)
	if !ok {
		return false
	}
	rb, ok := Extract(b)
	if !ok {
		return false
	}
	return ra.Abbreviation == rb.Abbreviation
}

// tokenize splits text on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
