// Package preprocessing provides column scalers and encoders for applicant
// tables.
//
// Every component follows the estimator pattern with Fit, Transform and
// FitTransform, and operates on a named subset of columns:
//
//   - StandardScaler: removes the mean and scales to unit variance
//   - MinMaxScaler: scales each column into a target range
//   - OneHotEncoder: expands categorical columns into 0/1 indicator columns
//
// Example usage:
//
//	scaler := preprocessing.NewStandardScaler([]string{"debt_to_income"}, true, true)
//	if err := scaler.Fit(train); err != nil {
//		log.Fatal(err)
//	}
//	scaled, err := scaler.Transform(test)
//
// Nulls pass through every transform unchanged, so scaling can run after
// imputation without re-introducing or hiding missing values.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/creditprep/core/model"
	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
)

// minScale is the smallest spread treated as non-constant.
const minScale = 1e-8

// StandardScaler standardizes the named columns to zero mean and unit variance.
type StandardScaler struct {
	model.BaseEstimator

	// Columns are the columns to scale.
	Columns []string

	// Mean holds the fitted mean of each column, aligned with Columns.
	Mean []float64

	// Scale holds the fitted population standard deviation of each column.
	Scale []float64

	// WithMean subtracts the mean (default: true).
	WithMean bool

	// WithStd divides by the standard deviation (default: true).
	WithStd bool
}

// NewStandardScaler creates a StandardScaler over columns.
//
// Example:
//
//	// z-score normalization
//	scaler := preprocessing.NewStandardScaler(cols, true, true)
//
//	// scale only, keeping the original mean
//	scaler := preprocessing.NewStandardScaler(cols, false, true)
func NewStandardScaler(columns []string, withMean, withStd bool) *StandardScaler {
	s := &StandardScaler{
		Columns:  append([]string(nil), columns...),
		WithMean: withMean,
		WithStd:  withStd,
	}
	s.ModelType = "StandardScaler"
	return s
}

// NewStandardScalerDefault creates a StandardScaler with centering and scaling enabled.
func NewStandardScalerDefault(columns []string) *StandardScaler {
	return NewStandardScaler(columns, true, true)
}

// Fit computes the mean and population standard deviation of each column,
// ignoring nulls. Columns with near-zero spread get a scale of 1.
//
// Errors:
//   - ErrEmptyData: if no columns are configured or t has no rows
//   - ErrInvalidInput: if a configured column is absent or has no numeric values
func (s *StandardScaler) Fit(t *table.Table) (err error) {
	defer errors.Recover(&err, "StandardScaler.Fit")
	nums, err := numericColumns("StandardScaler.Fit", t, s.Columns)
	if err != nil {
		return err
	}

	s.Mean = make([]float64, len(nums))
	s.Scale = make([]float64, len(nums))
	for j, x := range nums {
		mean, std := stat.PopMeanStdDev(x, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if s.WithStd && math.Abs(std) >= minScale {
			s.Scale[j] = std
		}
	}

	s.SetFitted()
	return nil
}

// Transform applies (x - mean) / scale to every numeric cell of the fitted
// columns. Columns absent from t are skipped.
func (s *StandardScaler) Transform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "StandardScaler.Transform")
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	return mapColumns(t, s.Columns, func(j int, x float64) float64 {
		return (x - s.Mean[j]) / s.Scale[j]
	})
}

// FitTransform fits the scaler and transforms the same table.
func (s *StandardScaler) FitTransform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "StandardScaler.FitTransform")
	if err := s.Fit(t); err != nil {
		return nil, err
	}
	return s.Transform(t)
}

// InverseTransform maps standardized values back to the original scale:
// x = x_scaled * scale + mean.
func (s *StandardScaler) InverseTransform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "StandardScaler.InverseTransform")
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	return mapColumns(t, s.Columns, func(j int, x float64) float64 {
		return x*s.Scale[j] + s.Mean[j]
	})
}

// GetParams returns the scaler's hyperparameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"columns":   s.Columns,
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_columns=%d)", s.WithMean, s.WithStd, len(s.Columns))
}

// MinMaxScaler scales the named columns into FeatureRange.
type MinMaxScaler struct {
	model.BaseEstimator

	// Columns are the columns to scale.
	Columns []string

	// FeatureRange is the target [min, max].
	FeatureRange [2]float64

	// DataMin and DataMax are the fitted bounds of each column.
	DataMin []float64
	DataMax []float64

	// Scale maps a unit of input onto the target range.
	Scale []float64

	// Min is the offset applied after scaling.
	Min []float64
}

// NewMinMaxScaler creates a MinMaxScaler over columns with the given target range.
// The transformation is x_scaled = x * scale + min, where
// scale = (max - min) / (data_max - data_min) and min = range_min - data_min * scale.
func NewMinMaxScaler(columns []string, featureRange [2]float64) *MinMaxScaler {
	s := &MinMaxScaler{
		Columns:      append([]string(nil), columns...),
		FeatureRange: featureRange,
	}
	s.ModelType = "MinMaxScaler"
	return s
}

// NewMinMaxScalerDefault scales into [0, 1].
func NewMinMaxScalerDefault(columns []string) *MinMaxScaler {
	return NewMinMaxScaler(columns, [2]float64{0, 1})
}

// Fit records the minimum and maximum of each column, ignoring nulls.
func (s *MinMaxScaler) Fit(t *table.Table) (err error) {
	defer errors.Recover(&err, "MinMaxScaler.Fit")
	if s.FeatureRange[0] >= s.FeatureRange[1] {
		return errors.NewValidationError("FeatureRange", "min must be less than max", s.FeatureRange)
	}
	nums, err := numericColumns("MinMaxScaler.Fit", t, s.Columns)
	if err != nil {
		return err
	}

	n := len(nums)
	s.DataMin = make([]float64, n)
	s.DataMax = make([]float64, n)
	s.Scale = make([]float64, n)
	s.Min = make([]float64, n)
	lo, hi := s.FeatureRange[0], s.FeatureRange[1]
	for j, x := range nums {
		s.DataMin[j], s.DataMax[j] = floats.Min(x), floats.Max(x)
		span := s.DataMax[j] - s.DataMin[j]
		if span < minScale {
			s.Scale[j] = 1
		} else {
			s.Scale[j] = (hi - lo) / span
		}
		s.Min[j] = lo - s.DataMin[j]*s.Scale[j]
	}

	s.SetFitted()
	return nil
}

// Transform applies x * scale + min to every numeric cell of the fitted columns.
func (s *MinMaxScaler) Transform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "MinMaxScaler.Transform")
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}
	return mapColumns(t, s.Columns, func(j int, x float64) float64 {
		return x*s.Scale[j] + s.Min[j]
	})
}

// FitTransform fits the scaler and transforms the same table.
func (s *MinMaxScaler) FitTransform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "MinMaxScaler.FitTransform")
	if err := s.Fit(t); err != nil {
		return nil, err
	}
	return s.Transform(t)
}

// InverseTransform maps scaled values back to the original range.
func (s *MinMaxScaler) InverseTransform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "MinMaxScaler.InverseTransform")
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}
	return mapColumns(t, s.Columns, func(j int, x float64) float64 {
		return (x - s.Min[j]) / s.Scale[j]
	})
}

// numericColumns collects the non-null numbers of each named column.
func numericColumns(op string, t *table.Table, names []string) ([][]float64, error) {
	if t == nil {
		return nil, errors.NewValueError(op, "table must not be nil")
	}
	if len(names) == 0 || t.Rows() == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	out := make([][]float64, len(names))
	for j, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, errors.NewValueError(op, fmt.Sprintf("column %q not found", name))
		}
		out[j] = c.Numbers()
		if len(out[j]) == 0 {
			return nil, errors.NewValueError(op, fmt.Sprintf("column %q has no numeric values", name))
		}
	}
	return out, nil
}

// mapColumns returns a copy of t with f applied to every numeric cell of
// the named columns. j is the column's position in names.
func mapColumns(t *table.Table, names []string, f func(j int, x float64) float64) (*table.Table, error) {
	if t == nil {
		return nil, errors.NewValueError("preprocessing.Transform", "table must not be nil")
	}
	out := t.Clone()
	for j, name := range names {
		c, ok := out.Column(name)
		if !ok {
			continue
		}
		for i, v := range c.Values {
			if x, ok := v.Float(); ok {
				c.Values[i] = table.Number(f(j, x))
			}
		}
	}
	return out, nil
}

var (
	_ model.Transformer = (*StandardScaler)(nil)
	_ model.Transformer = (*MinMaxScaler)(nil)
)
