package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kavin/cogniquest/internal/exam"
	"github.com/kavin/cogniquest/internal/i18n"
	"github.com/kavin/cogniquest/internal/narration"
)

// Response renders the subject's answer to q as one localized line.
func Response(tr *i18n.Translator, q exam.Question, a exam.Answer) string {
	noResponse := tr.T("NoResponse")
	if a == nil {
		return noResponse
	}
	nr := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return "NR"
		}
		return s
	}

	switch v := a.(type) {
	case exam.OrientationAnswer:
		if strings.TrimSpace(v.Text) == "" {
			return noResponse
		}
		return strings.TrimSpace(v.Text)
	case exam.CalculationAnswer:
		return fmt.Sprintf("%s: $%d, %s: $%d", tr.T("Spent"), v.Spent, tr.T("Left"), v.Left)
	case exam.AnimalListAnswer:
		return tr.Tp("AnimalsNamed", v.Count)
	case exam.WordRecallAnswer:
		var words []string
		for _, w := range v.Words {
			if w = strings.TrimSpace(w); w != "" {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			return noResponse
		}
		return strings.Join(words, ", ")
	case exam.NumberSeriesAnswer:
		parts := make([]string, len(v.Series))
		for i, s := range v.Series {
			parts[i] = spokenDigits(i) + " -> " + nr(s)
		}
		return strings.Join(parts, ", ")
	case exam.ClockDrawingAnswer:
		return fmt.Sprintf("%s: %s, %s: %s", tr.T("ClockNumbers"), mark(v.HasCorrectNumbers), tr.T("ClockTime"), mark(v.HasCorrectTime))
	case exam.ShapeAnswer:
		return fmt.Sprintf("%s: %s, %s: %s", tr.T("ShapeTapped"), nr(v.Tapped), tr.T("ShapeLargest"), nr(v.Largest))
	case exam.StoryAnswer:
		return fmt.Sprintf("%s: %s, %s: %s, %s: %s, %s: %s",
			tr.T("StoryName"), nr(v.Name),
			tr.T("StoryProfession"), nr(v.Profession),
			tr.T("StoryReturned"), nr(v.WhenReturned),
			tr.T("StoryRegion"), nr(v.Region))
	}
	return noResponse
}

// spokenDigits is the digit form of the i-th narrated number series.
func spokenDigits(i int) string {
	if i < len(narration.NumberSeriesDigits) {
		return narration.NumberSeriesDigits[i]
	}
	return strconv.Itoa(i + 1)
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
