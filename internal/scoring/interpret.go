package scoring

import "fmt"

// Band is the interpretation of a total score.
type Band string

const (
	BandNormal         Band = "normal"
	BandMildImpairment Band = "mildImpairmentLikely"
	BandImpaired       Band = "likelyImpaired"
)

// Cutoffs are the lowest totals that still count as normal and as mild
// impairment. Anything below Mild is likely impaired.
type Cutoffs struct {
	Normal int `mapstructure:"normal" json:"normal"`
	Mild   int `mapstructure:"mild" json:"mild"`
}

// Bands holds one set of cutoffs per education level.
type Bands struct {
	HighSchool         Cutoffs `mapstructure:"high_school" json:"highSchool"`
	LessThanHighSchool Cutoffs `mapstructure:"less_than_high_school" json:"lessThanHighSchool"`
}

// DefaultBands returns the published SLUMS cutoffs.
func DefaultBands() Bands {
	return Bands{
		HighSchool:         Cutoffs{Normal: 27, Mild: 21},
		LessThanHighSchool: Cutoffs{Normal: 25, Mild: 20},
	}
}

// Validate checks that each level's mild cutoff does not exceed its normal
// cutoff.
func (b Bands) Validate() error {
	for name, c := range map[string]Cutoffs{
		"high_school":           b.HighSchool,
		"less_than_high_school": b.LessThanHighSchool,
	} {
		if c.Mild < 0 || c.Normal < 0 {
			return fmt.Errorf("bands.%s: cutoffs must not be negative", name)
		}
		if c.Mild > c.Normal {
			return fmt.Errorf("bands.%s: mild cutoff %d exceeds normal cutoff %d", name, c.Mild, c.Normal)
		}
	}
	return nil
}

// Interpret classifies total for the given education level.
func (b Bands) Interpret(total int, highSchool bool) Band {
	c := b.LessThanHighSchool
	if highSchool {
		c = b.HighSchool
	}
	switch {
	case total >= c.Normal:
		return BandNormal
	case total >= c.Mild:
		return BandMildImpairment
	default:
		return BandImpaired
	}
}
