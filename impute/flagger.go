package impute

import (
	"math"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
)

// FlagPrefix is prepended to a feature name to form its missing-indicator column.
const FlagPrefix = "FLAG_MISS_"

// FlagColumn returns the indicator column name for feature.
func FlagColumn(feature string) string { return FlagPrefix + feature }

// MissingRate is the missingness summary of one column.
type MissingRate struct {
	Column  string
	Missing int
	Rows    int
	Rate    float64
}

// Flagger selects high-missingness columns.
type Flagger struct {
	threshold float64
}

// NewFlagger creates a Flagger. threshold must lie in [0, 1].
func NewFlagger(threshold float64) (*Flagger, error) {
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return nil, errors.NewValidationError("missing_flag_threshold", "must be within [0, 1]", threshold)
	}
	return &Flagger{threshold: threshold}, nil
}

// Threshold returns the configured threshold.
func (f *Flagger) Threshold() float64 { return f.threshold }

// Rates returns the missing rate of every column of t in column order.
func (f *Flagger) Rates(t *table.Table) []MissingRate {
	cols := t.Columns()
	out := make([]MissingRate, len(cols))
	for i, c := range cols {
		out[i] = MissingRate{
			Column:  c.Name,
			Missing: c.NullCount(),
			Rows:    c.Len(),
			Rate:    c.MissingRate(),
		}
	}
	return out
}

// Identify returns, in column order, the columns whose missing rate is at or
// above the threshold. A table without rows yields no columns.
func (f *Flagger) Identify(t *table.Table) []string {
	if t.Rows() == 0 {
		return nil
	}
	var flagged []string
	for _, r := range f.Rates(t) {
		if r.Rate >= f.threshold {
			flagged = append(flagged, r.Column)
		}
	}
	return flagged
}

// ApplyFlags writes a FLAG_MISS_<feature> column for every flagged feature
// present in t: 1 where the value is null in t, 0 otherwise. t is modified.
func ApplyFlags(t *table.Table, flagged []string) {
	for _, feature := range flagged {
		src, ok := t.Column(feature)
		if !ok {
			continue
		}
		flag := &table.Column{Name: FlagColumn(feature), Values: make([]table.Value, src.Len())}
		for i, v := range src.Values {
			if v.IsNull() {
				flag.Values[i] = table.Int(1)
			} else {
				flag.Values[i] = table.Int(0)
			}
		}
		// lengths match by construction
		_ = t.Set(flag)
	}
}
