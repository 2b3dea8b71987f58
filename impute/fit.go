package impute

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/pkg/log"
)

// Engine fits imputation parameters. It holds only construction-time
// configuration, so one Engine can produce any number of independent
// FittedParameters.
type Engine struct {
	registry *Registry
	flagger  *Flagger
	logger   log.Logger
}

// NewEngine validates cfg and builds an Engine. A nil logger discards output.
func NewEngine(cfg Config, logger log.Logger) (*Engine, error) {
	registry, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	flagger, err := NewFlagger(cfg.Threshold())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{registry: registry, flagger: flagger, logger: logger}, nil
}

// Registry returns the engine's strategy registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Flagger returns the engine's missingness flagger.
func (e *Engine) Flagger() *Flagger { return e.flagger }

// Fit learns fill values from t. Problems with individual features are
// logged and recorded as warnings; fitting continues with the rest.
func (e *Engine) Fit(t *table.Table) (*FittedParameters, error) {
	return e.fit(t, e.logger)
}

func (e *Engine) fit(t *table.Table, logger log.Logger) (*FittedParameters, error) {
	if t == nil {
		return nil, errors.NewValueError("Imputer.Fit", "table must not be nil")
	}
	start := time.Now()
	p := &FittedParameters{
		id:        uuid.NewString(),
		rows:      t.Rows(),
		threshold: e.flagger.Threshold(),
		registry:  e.registry,
		scalars:   make(map[string]table.Value),
		groups:    make(map[string]*GroupMedians),
	}
	logger = logger.With(log.FitIDKey, p.id)
	logger.Info("Fit started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, t.Rows(),
		log.FeaturesKey, t.Width(),
	)

	p.flagged = e.flagger.Identify(t)

	for _, s := range e.registry.strategies {
		if s.Kind == MeanAcrossFeatures {
			if missing := absentColumns(t, s.Sources); len(missing) == len(s.Sources) {
				p.warn(logger, s, "no source features found in data, skipping")
			}
			continue
		}
		col, ok := t.Column(s.Feature)
		if !ok {
			p.warn(logger, s, "feature not found in data, skipping")
			continue
		}

		switch s.Kind {
		case Zero:
			// applied at transform time only

		case Median:
			if m, ok := columnMedian(col); ok {
				p.scalars[s.Feature] = table.Number(m)
			} else {
				p.warn(logger, s, "no numeric values, median is undefined")
			}

		case Mode:
			v, ok := columnMode(col)
			if !ok {
				p.warn(logger, s, "column has no rows, mode is undefined")
				continue
			}
			if col.NullCount() == col.Len() {
				p.warn(logger, s, "no non-null values, falling back to the first value of the column")
			}
			p.scalars[s.Feature] = v

		case Literal:
			p.scalars[s.Feature] = literalValue(s.Literal, col)

		case GroupMedian:
			if missing := absentColumns(t, s.GroupBy); len(missing) > 0 {
				p.warn(logger, s, "grouping columns not found, using overall median", log.ColumnKey, missing)
				if m, ok := columnMedian(col); ok {
					p.scalars[s.Feature] = table.Number(m)
				}
				continue
			}
			p.groups[s.Feature] = groupMedians(t, col, s.GroupBy)
		}
	}

	p.fittedAt = time.Now()
	logger.Info("Fit completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.FlaggedKey, len(p.flagged),
		"scalars", len(p.scalars),
		"groups", len(p.groups),
		"warnings", len(p.warnings),
	)
	return p, nil
}

func (p *FittedParameters) warn(logger log.Logger, s Strategy, msg string, fields ...interface{}) {
	p.warnings = append(p.warnings, Warning{Feature: s.Feature, Message: msg})
	fields = append([]interface{}{log.FeatureKey, s.Feature, log.StrategyKey, s.ID()}, fields...)
	logger.Warn(msg, fields...)
}

func columnMedian(c *table.Column) (float64, bool) {
	nums := c.Numbers()
	if len(nums) == 0 {
		return 0, false
	}
	m, err := stats.Median(nums)
	if err != nil {
		return 0, false
	}
	return m, true
}

// columnMode returns the most frequent non-null value, breaking ties with the
// smallest value. Without non-null values it returns the column's first
// value, which may itself be null.
func columnMode(c *table.Column) (table.Value, bool) {
	if c.Len() == 0 {
		return table.Null(), false
	}
	counts := make(map[string]int)
	reps := make(map[string]table.Value)
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		h := v.Hash()
		counts[h]++
		if _, ok := reps[h]; !ok {
			reps[h] = v
		}
	}
	if len(counts) == 0 {
		return c.Values[0], true
	}
	var best table.Value
	bestCount := 0
	for h, n := range counts {
		v := reps[h]
		if n > bestCount || (n == bestCount && v.Less(best)) {
			best, bestCount = v, n
		}
	}
	return best, true
}

// literalValue coerces a literal to the column's type: numeric columns get a
// number when the literal parses as one, everything else keeps the text.
func literalValue(lit string, c *table.Column) table.Value {
	if c != nil && c.Kind() != table.KindString {
		if f, err := strconv.ParseFloat(lit, 64); err == nil {
			return table.Number(f)
		}
	}
	return table.String(lit)
}

func absentColumns(t *table.Table, names []string) []string {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// rowKey builds the group key of row i. cols must be aligned with the table.
func rowKey(cols []*table.Column, i int) GroupKey {
	key := make(GroupKey, len(cols))
	for j, c := range cols {
		key[j] = c.Values[i]
	}
	return key
}

func groupMedians(t *table.Table, target *table.Column, groupBy []string) *GroupMedians {
	cols := make([]*table.Column, len(groupBy))
	for j, name := range groupBy {
		cols[j], _ = t.Column(name)
	}

	type bucket struct {
		key  GroupKey
		vals []float64
	}
	buckets := make(map[string]*bucket)
	var order []string
	for i := 0; i < t.Rows(); i++ {
		key := rowKey(cols, i)
		if key.HasNull() {
			continue
		}
		h := key.Hash()
		b, ok := buckets[h]
		if !ok {
			b = &bucket{key: key}
			buckets[h] = b
			order = append(order, h)
		}
		if f, ok := target.Values[i].Float(); ok {
			b.vals = append(b.vals, f)
		}
	}

	entries := make([]GroupEntry, 0, len(order))
	for _, h := range order {
		b := buckets[h]
		if len(b.vals) == 0 {
			continue
		}
		m, err := stats.Median(b.vals)
		if err != nil {
			continue
		}
		entries = append(entries, GroupEntry{Key: b.key, Median: m})
	}
	return newGroupMedians(groupBy, entries)
}
