package impute

import (
	"sort"
	"strings"
	"time"

	"github.com/ezoic/creditprep/core/table"
)

// GroupKey is a composite key with one value per grouping column, in the
// declared grouping order.
type GroupKey []table.Value

const keySep = "\x1f"

// Hash returns a string that is equal for two keys iff Equal reports true.
func (k GroupKey) Hash() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = v.Hash()
	}
	return strings.Join(parts, keySep)
}

// Equal compares keys position by position.
func (k GroupKey) Equal(o GroupKey) bool {
	if len(k) != len(o) {
		return false
	}
	for i := range k {
		if !k[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Less orders keys lexicographically by Value.Less.
func (k GroupKey) Less(o GroupKey) bool {
	for i := 0; i < len(k) && i < len(o); i++ {
		if k[i].Less(o[i]) {
			return true
		}
		if o[i].Less(k[i]) {
			return false
		}
	}
	return len(k) < len(o)
}

func (k GroupKey) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// HasNull reports whether any component is null.
func (k GroupKey) HasNull() bool {
	for _, v := range k {
		if v.IsNull() {
			return true
		}
	}
	return false
}

// GroupEntry is one learned group median.
type GroupEntry struct {
	Key    GroupKey `json:"key"`
	Median float64  `json:"median"`
}

// GroupMedians maps group keys to medians for one feature.
type GroupMedians struct {
	groupBy []string
	entries []GroupEntry
	lookup  map[string]int
}

func newGroupMedians(groupBy []string, entries []GroupEntry) *GroupMedians {
	sorted := append([]GroupEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key.Less(sorted[j].Key) })
	g := &GroupMedians{
		groupBy: append([]string(nil), groupBy...),
		entries: sorted,
		lookup:  make(map[string]int, len(sorted)),
	}
	for i, e := range sorted {
		g.lookup[e.Key.Hash()] = i
	}
	return g
}

// GroupBy returns the grouping columns.
func (g *GroupMedians) GroupBy() []string { return append([]string(nil), g.groupBy...) }

// Len returns the number of learned groups.
func (g *GroupMedians) Len() int { return len(g.entries) }

// Lookup returns the median learned for key.
func (g *GroupMedians) Lookup(key GroupKey) (float64, bool) {
	i, ok := g.lookup[key.Hash()]
	if !ok {
		return 0, false
	}
	return g.entries[i].Median, true
}

// Entries returns a copy of the learned entries in key order.
func (g *GroupMedians) Entries() []GroupEntry {
	out := make([]GroupEntry, len(g.entries))
	for i, e := range g.entries {
		out[i] = GroupEntry{Key: append(GroupKey(nil), e.Key...), Median: e.Median}
	}
	return out
}

// Warning records a non-fatal problem found while fitting.
type Warning struct {
	Feature string `json:"feature"`
	Message string `json:"message"`
}

func (w Warning) String() string { return w.Feature + ": " + w.Message }

// FittedParameters is the immutable result of Engine.Fit. It carries
// everything Transform needs, including the registry it was fitted with.
type FittedParameters struct {
	id        string
	fittedAt  time.Time
	rows      int
	threshold float64
	registry  *Registry
	flagged   []string
	scalars   map[string]table.Value
	groups    map[string]*GroupMedians
	warnings  []Warning
}

// ID identifies the fit run.
func (p *FittedParameters) ID() string { return p.id }

// FittedAt returns when Fit completed.
func (p *FittedParameters) FittedAt() time.Time { return p.fittedAt }

// Rows returns the row count of the fit table.
func (p *FittedParameters) Rows() int { return p.rows }

// Threshold returns the missing-flag threshold used at fit time.
func (p *FittedParameters) Threshold() float64 { return p.threshold }

// Registry returns the strategy registry the parameters were fitted with.
func (p *FittedParameters) Registry() *Registry { return p.registry }

// Flagged returns the high-missingness features found at fit time.
func (p *FittedParameters) Flagged() []string { return append([]string(nil), p.flagged...) }

// Scalar returns the scalar fill value stored for feature.
func (p *FittedParameters) Scalar(feature string) (table.Value, bool) {
	v, ok := p.scalars[feature]
	return v, ok
}

// Scalars returns a copy of every stored scalar fill value.
func (p *FittedParameters) Scalars() map[string]table.Value {
	out := make(map[string]table.Value, len(p.scalars))
	for k, v := range p.scalars {
		out[k] = v
	}
	return out
}

// GroupMedians returns the group mapping stored for feature.
func (p *FittedParameters) GroupMedians(feature string) (*GroupMedians, bool) {
	g, ok := p.groups[feature]
	return g, ok
}

// GroupFeatures returns, in declared order, the features with a group mapping.
func (p *FittedParameters) GroupFeatures() []string {
	var out []string
	for _, s := range p.registry.strategies {
		if _, ok := p.groups[s.Feature]; ok {
			out = append(out, s.Feature)
		}
	}
	return out
}

// ZeroFill returns the effective zero-fill list.
func (p *FittedParameters) ZeroFill() []string { return p.registry.ZeroFill() }

// Warnings returns the warnings raised during fit.
func (p *FittedParameters) Warnings() []Warning { return append([]Warning(nil), p.warnings...) }
