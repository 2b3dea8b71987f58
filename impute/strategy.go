package impute

import (
	"fmt"

	"github.com/ezoic/creditprep/pkg/errors"
)

// Reserved strategy identifiers. Any other identifier is a literal fill value.
const (
	StrategyZero               = "zero"
	StrategyMedian             = "median"
	StrategyMode               = "mode"
	StrategyGroupMedian        = "group_median"
	StrategyMeanAcrossFeatures = "mean_across_features"
)

// Kind tags a Strategy.
type Kind int

const (
	// Zero fills nulls with 0.
	Zero Kind = iota
	// Median fills nulls with the fit-time median.
	Median
	// Mode fills nulls with the fit-time most frequent value.
	Mode
	// Literal fills nulls with a configured constant.
	Literal
	// GroupMedian fills a copy of the column with per-group fit-time medians.
	GroupMedian
	// MeanAcrossFeatures derives the row-wise mean of several source features.
	MeanAcrossFeatures
)

func (k Kind) String() string {
	switch k {
	case Zero:
		return StrategyZero
	case Median:
		return StrategyMedian
	case Mode:
		return StrategyMode
	case Literal:
		return "literal"
	case GroupMedian:
		return StrategyGroupMedian
	case MeanAcrossFeatures:
		return StrategyMeanAcrossFeatures
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Strategy is the parsed fill rule for one feature. Only the payload field
// matching Kind is set.
type Strategy struct {
	Feature string
	Kind    Kind
	GroupBy []string // GroupMedian
	Sources []string // MeanAcrossFeatures
	Literal string   // Literal
}

// ID returns the configuration identifier the strategy was parsed from.
func (s Strategy) ID() string {
	if s.Kind == Literal {
		return s.Literal
	}
	return s.Kind.String()
}

// ParseStrategy turns a configuration identifier into a Strategy. columns is
// the grouping list configured for the feature: grouping keys for
// group_median, source features for mean_across_features.
func ParseStrategy(feature, id string, columns []string) (Strategy, error) {
	if feature == "" {
		return Strategy{}, errors.NewValidationError("feature", "feature name must not be empty", id)
	}
	s := Strategy{Feature: feature}
	switch id {
	case StrategyZero:
		s.Kind = Zero
	case StrategyMedian:
		s.Kind = Median
	case StrategyMode:
		s.Kind = Mode
	case StrategyGroupMedian:
		if len(columns) == 0 {
			return Strategy{}, errors.NewValidationError("grouping_columns["+feature+"]",
				"group_median requires at least one grouping column", nil)
		}
		s.Kind = GroupMedian
		s.GroupBy = append([]string(nil), columns...)
	case StrategyMeanAcrossFeatures:
		if len(columns) == 0 {
			return Strategy{}, errors.NewValidationError("grouping_columns["+feature+"]",
				"mean_across_features requires at least one source feature", nil)
		}
		s.Kind = MeanAcrossFeatures
		s.Sources = append([]string(nil), columns...)
	case "":
		return Strategy{}, errors.NewValidationError("strategy["+feature+"]", "strategy must not be empty", id)
	default:
		s.Kind = Literal
		s.Literal = id
	}
	return s, nil
}

// FeatureStrategy pairs a feature with its strategy identifier.
type FeatureStrategy struct {
	Feature  string `json:"feature" yaml:"feature"`
	Strategy string `json:"strategy" yaml:"strategy"`
}

// Config holds the construction parameters of the imputation engine.
// Strategies are applied in slice order.
type Config struct {
	ZeroFill        []string            `json:"zero_fill"`
	Strategies      []FeatureStrategy   `json:"strategies"`
	GroupingColumns map[string][]string `json:"grouping_columns"`
	// MissingFlagThreshold is the missing rate at or above which a column is
	// flagged. Nil means DefaultMissingFlagThreshold; Threshold(0) flags
	// every column.
	MissingFlagThreshold *float64 `json:"missing_flag_threshold,omitempty"`
}

// DefaultMissingFlagThreshold is the missing rate at or above which a column is flagged.
const DefaultMissingFlagThreshold = 0.3

// Threshold returns a pointer to v for Config.MissingFlagThreshold.
func Threshold(v float64) *float64 { return &v }

// DefaultConfig returns an empty configuration with the default threshold.
func DefaultConfig() Config {
	return Config{MissingFlagThreshold: Threshold(DefaultMissingFlagThreshold)}
}

// Threshold returns the effective missing-flag threshold.
func (c Config) Threshold() float64 {
	if c.MissingFlagThreshold == nil {
		return DefaultMissingFlagThreshold
	}
	return *c.MissingFlagThreshold
}

func (c Config) clone() Config {
	out := Config{
		ZeroFill:        append([]string(nil), c.ZeroFill...),
		Strategies:      append([]FeatureStrategy(nil), c.Strategies...),
		GroupingColumns: make(map[string][]string, len(c.GroupingColumns)),
	}
	if c.MissingFlagThreshold != nil {
		out.MissingFlagThreshold = Threshold(*c.MissingFlagThreshold)
	}
	for k, v := range c.GroupingColumns {
		out.GroupingColumns[k] = append([]string(nil), v...)
	}
	return out
}

// Registry maps features to parsed strategies. It is immutable once built.
type Registry struct {
	cfg        Config
	strategies []Strategy
	byFeature  map[string]int
	zeroFill   []string
}

// NewRegistry validates cfg and parses every strategy. Features declared with
// the "zero" strategy are merged into the zero-fill list.
func NewRegistry(cfg Config) (*Registry, error) {
	cfg = cfg.clone()
	r := &Registry{
		cfg:       cfg,
		byFeature: make(map[string]int, len(cfg.Strategies)),
	}
	for _, fs := range cfg.Strategies {
		if _, dup := r.byFeature[fs.Feature]; dup {
			return nil, errors.NewValidationError("strategies", "duplicate feature", fs.Feature)
		}
		s, err := ParseStrategy(fs.Feature, fs.Strategy, cfg.GroupingColumns[fs.Feature])
		if err != nil {
			return nil, err
		}
		r.byFeature[fs.Feature] = len(r.strategies)
		r.strategies = append(r.strategies, s)
	}

	seen := make(map[string]bool)
	for _, f := range cfg.ZeroFill {
		if f == "" {
			return nil, errors.NewValidationError("zero_fill", "feature name must not be empty", f)
		}
		if !seen[f] {
			seen[f] = true
			r.zeroFill = append(r.zeroFill, f)
		}
	}
	for _, s := range r.strategies {
		if s.Kind == Zero && !seen[s.Feature] {
			seen[s.Feature] = true
			r.zeroFill = append(r.zeroFill, s.Feature)
		}
	}
	return r, nil
}

// Strategies returns the strategies in declared order.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Lookup returns the strategy declared for feature.
func (r *Registry) Lookup(feature string) (Strategy, bool) {
	i, ok := r.byFeature[feature]
	if !ok {
		return Strategy{}, false
	}
	return r.strategies[i], true
}

// ZeroFill returns the effective zero-fill feature list.
func (r *Registry) ZeroFill() []string {
	return append([]string(nil), r.zeroFill...)
}

// Config returns a copy of the configuration the registry was built from.
func (r *Registry) Config() Config {
	return r.cfg.clone()
}
