package impute

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
)

// ImputedSuffix is appended to a feature name to form its imputed copy.
const ImputedSuffix = "_IMPUTED"

// ImputedColumn returns the imputed-copy column name for feature.
func ImputedColumn(feature string) string { return feature + ImputedSuffix }

// Transform applies p to t and returns a new table; t is left untouched.
// Steps run in a fixed order: missing flags, zero fill, then each strategy
// in declared order. Features missing from t are skipped silently.
func Transform(p *FittedParameters, t *table.Table) (*table.Table, error) {
	if p == nil {
		return nil, errors.NewNotFittedError("Imputer", "Transform")
	}
	if t == nil {
		return nil, errors.NewValueError("Imputer.Transform", "table must not be nil")
	}
	out := t.Clone()

	ApplyFlags(out, p.flagged)

	for _, feature := range p.registry.zeroFill {
		if col, ok := out.Column(feature); ok {
			fillNulls(col, zeroFor(col))
		}
	}

	for _, s := range p.registry.strategies {
		// the mean target is derived from its sources and need not exist yet
		if s.Kind == MeanAcrossFeatures {
			applyMeanAcrossFeatures(out, s)
			continue
		}
		col, ok := out.Column(s.Feature)
		if !ok {
			continue
		}
		switch s.Kind {
		case Median, Mode:
			if v, ok := p.scalars[s.Feature]; ok {
				fillNulls(col, v)
			}
		case Literal:
			v, ok := p.scalars[s.Feature]
			if !ok {
				v = literalValue(s.Literal, col)
			}
			fillNulls(col, v)
		case GroupMedian:
			applyGroupMedian(out, p, s)
		case Zero:
			// covered by the zero-fill pass
		}
	}
	return out, nil
}

func fillNulls(c *table.Column, v table.Value) {
	if v.IsNull() {
		return
	}
	for i := range c.Values {
		if c.Values[i].IsNull() {
			c.Values[i] = v
		}
	}
}

func zeroFor(c *table.Column) table.Value {
	if c.Kind() == table.KindString {
		return table.String("0")
	}
	return table.Number(0)
}

// applyGroupMedian writes <feature>_IMPUTED: a copy of the feature whose nulls
// take the median of the row's group, then the stored overall fallback.
// A row only matches when every grouping column equals the stored key.
func applyGroupMedian(t *table.Table, p *FittedParameters, s Strategy) {
	groups, hasGroups := p.groups[s.Feature]
	fallback, hasFallback := p.scalars[s.Feature]
	if !hasGroups && !hasFallback {
		return
	}
	src, _ := t.Column(s.Feature)
	imputed := src.Clone(ImputedColumn(s.Feature))

	if hasGroups {
		cols := make([]*table.Column, 0, len(s.GroupBy))
		for _, name := range s.GroupBy {
			if c, ok := t.Column(name); ok {
				cols = append(cols, c)
			}
		}
		if len(cols) == len(s.GroupBy) {
			for i, v := range src.Values {
				if !v.IsNull() {
					continue
				}
				key := rowKey(cols, i)
				if key.HasNull() {
					continue
				}
				if m, ok := groups.Lookup(key); ok {
					imputed.Values[i] = table.Number(m)
				}
			}
		}
	}

	if hasFallback {
		fillNulls(imputed, fallback)
	}
	_ = t.Set(imputed)
}

// applyMeanAcrossFeatures sets <feature> to the row-wise mean of the sources
// present in t, ignoring nulls, then writes <source>_IMPUTED for each source
// with its nulls replaced by that mean.
func applyMeanAcrossFeatures(t *table.Table, s Strategy) {
	var sources []string
	for _, name := range s.Sources {
		if t.Has(name) {
			sources = append(sources, name)
		}
	}
	if len(sources) == 0 {
		return
	}

	cols := make([]*table.Column, len(sources))
	for j, name := range sources {
		cols[j], _ = t.Column(name)
	}
	means := make([]table.Value, t.Rows())
	row := make([]float64, 0, len(cols))
	for i := range means {
		row = row[:0]
		for _, c := range cols {
			if f, ok := c.Values[i].Float(); ok {
				row = append(row, f)
			}
		}
		if len(row) == 0 {
			means[i] = table.Null()
			continue
		}
		means[i] = table.Number(stat.Mean(row, nil))
	}
	_ = t.Set(table.NewColumn(s.Feature, means...))

	for _, name := range sources {
		c, _ := t.Column(name)
		imputed := c.Clone(ImputedColumn(name))
		for i, v := range imputed.Values {
			if v.IsNull() {
				imputed.Values[i] = means[i]
			}
		}
		_ = t.Set(imputed)
	}
}
