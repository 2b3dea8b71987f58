// Package impute implements the missing-value imputation engine for
// credit-risk applicant tables.
//
// Each feature is declared with one strategy:
//
//   - zero: nulls become 0
//   - median / mode: nulls take the fit-time median or most frequent value
//   - group_median: <feature>_IMPUTED takes the median of the row's group,
//     where the group is the exact tuple of the configured grouping columns
//   - mean_across_features: <feature> becomes the row-wise mean of the
//     configured source features and each source gets a <source>_IMPUTED copy
//   - any other identifier: nulls take that literal value
//
// Columns whose missing rate in the fit table reaches the threshold get a
// FLAG_MISS_<feature> indicator on every transform.
//
// The engine has two layers. Engine.Fit and Transform form a functional API:
// Fit returns immutable FittedParameters and Transform is a pure function of
// those parameters and a table. Imputer wraps both behind the familiar
// Fit / Transform / FitTransform estimator interface:
//
//	imp, err := impute.NewImputer(cfg)
//	if err != nil {
//		return err
//	}
//	if err := imp.Fit(train); err != nil {
//		return err
//	}
//	cleaned, err := imp.Transform(test)
//
// Fit parameters are never recomputed by Transform, so applying a fitted
// Imputer to new data cannot leak information from that data into the fill
// values.
package impute

import (
	"sync"
	"time"

	"github.com/ezoic/creditprep/core/model"
	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/pkg/log"
)

// Imputer is the estimator form of the imputation engine. Transform may be
// called concurrently once Fit has returned.
type Imputer struct {
	model.BaseEstimator

	engine *Engine

	mu     sync.RWMutex
	params *FittedParameters
}

// NewImputer validates cfg and returns an unfitted Imputer.
func NewImputer(cfg Config) (*Imputer, error) {
	engine, err := NewEngine(cfg, nil)
	if err != nil {
		return nil, err
	}
	imp := &Imputer{engine: engine}
	imp.ModelType = "Imputer"
	imp.SetLogger(log.GetLoggerWithName("impute").With(
		log.ModelNameKey, "Imputer",
		log.ComponentKey, "impute",
	))
	imp.BaseEstimator.SetParams(map[string]interface{}{
		"zero_fill":              cfg.ZeroFill,
		"strategies":             cfg.Strategies,
		"grouping_columns":       cfg.GroupingColumns,
		"missing_flag_threshold": cfg.Threshold(),
	})
	return imp, nil
}

// Engine returns the underlying engine.
func (imp *Imputer) Engine() *Engine { return imp.engine }

// Fit learns fill values from t, replacing any previous parameters.
func (imp *Imputer) Fit(t *table.Table) (err error) {
	defer errors.Recover(&err, "Imputer.Fit")
	p, err := imp.engine.fit(t, imp.Logger())
	if err != nil {
		return err
	}
	imp.mu.Lock()
	imp.params = p
	imp.mu.Unlock()
	imp.SetFitted()
	return nil
}

// Transform applies the fitted parameters to t and returns a new table.
// It returns a NotFittedError before Fit.
func (imp *Imputer) Transform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "Imputer.Transform")
	p := imp.Params()
	if p == nil {
		return nil, errors.NewNotFittedError("Imputer", "Transform")
	}
	start := time.Now()
	out, err := Transform(p, t)
	if err != nil {
		return nil, err
	}
	imp.Logger().Debug("Transform completed",
		log.OperationKey, log.OperationTransform,
		log.PhaseKey, log.PhaseInference,
		log.FitIDKey, p.ID(),
		log.SamplesKey, out.Rows(),
		log.FeaturesKey, out.Width(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// FitTransform is Fit followed by Transform on the same table.
func (imp *Imputer) FitTransform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "Imputer.FitTransform")
	if err := imp.Fit(t); err != nil {
		return nil, err
	}
	return imp.Transform(t)
}

// Params returns the fitted parameters, or nil before Fit.
func (imp *Imputer) Params() *FittedParameters {
	imp.mu.RLock()
	defer imp.mu.RUnlock()
	return imp.params
}

// UseParams installs previously fitted parameters, e.g. loaded with
// LoadParams, and marks the Imputer fitted.
func (imp *Imputer) UseParams(p *FittedParameters) error {
	if p == nil {
		return errors.NewValueError("Imputer.UseParams", "parameters must not be nil")
	}
	imp.mu.Lock()
	imp.params = p
	imp.mu.Unlock()
	imp.SetFitted()
	return nil
}

// FeatureInfo summarizes the fitted state. Before Fit it reports
// Status "not fitted".
func (imp *Imputer) FeatureInfo() FeatureInfo {
	p := imp.Params()
	if p == nil {
		return NotFittedInfo()
	}
	return p.Info()
}

var _ model.Transformer = (*Imputer)(nil)
