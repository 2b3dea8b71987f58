package preprocessing

import (
	"fmt"
	"sort"

	"github.com/ezoic/creditprep/core/model"
	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
)

// OneHotEncoder replaces categorical columns with 0/1 indicator columns
// named <column>_<category>.
type OneHotEncoder struct {
	model.BaseEstimator

	// Columns are the categorical columns to encode.
	Columns []string

	// Categories holds the sorted categories of each column, aligned with Columns.
	Categories [][]string

	// CategoryToIdx maps each column's categories to their index.
	CategoryToIdx []map[string]int

	// NOutputs is the total number of indicator columns.
	NOutputs int
}

// NewOneHotEncoder creates an encoder over columns.
//
//	encoder := preprocessing.NewOneHotEncoder([]string{"NAME_TYPE_SUITE"})
//	encoded, err := encoder.FitTransform(train)
func NewOneHotEncoder(columns []string) *OneHotEncoder {
	e := &OneHotEncoder{Columns: append([]string(nil), columns...)}
	e.ModelType = "OneHotEncoder"
	return e
}

// Fit learns the sorted set of non-null categories of each column.
func (e *OneHotEncoder) Fit(t *table.Table) (err error) {
	defer errors.Recover(&err, "OneHotEncoder.Fit")
	if t == nil {
		return errors.NewValueError("OneHotEncoder.Fit", "table must not be nil")
	}
	if len(e.Columns) == 0 || t.Rows() == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	e.Categories = make([][]string, len(e.Columns))
	e.CategoryToIdx = make([]map[string]int, len(e.Columns))
	e.NOutputs = 0
	for j, name := range e.Columns {
		c, ok := t.Column(name)
		if !ok {
			return errors.NewValueError("OneHotEncoder.Fit", fmt.Sprintf("column %q not found", name))
		}
		set := make(map[string]bool)
		for _, v := range c.Values {
			if !v.IsNull() {
				set[v.String()] = true
			}
		}
		categories := make([]string, 0, len(set))
		for category := range set {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		e.Categories[j] = categories
		e.CategoryToIdx[j] = make(map[string]int, len(categories))
		for idx, category := range categories {
			e.CategoryToIdx[j][category] = idx
		}
		e.NOutputs += len(categories)
	}

	e.SetFitted()
	return nil
}

// Transform drops each encoded column and appends its indicator columns.
// Nulls and categories unseen at fit time encode as all zeros. Columns
// absent from t are skipped.
func (e *OneHotEncoder) Transform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "OneHotEncoder.Transform")
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if t == nil {
		return nil, errors.NewValueError("OneHotEncoder.Transform", "table must not be nil")
	}

	out := t.Clone()
	for j, name := range e.Columns {
		c, ok := out.Column(name)
		if !ok {
			continue
		}
		indicators := make([]*table.Column, len(e.Categories[j]))
		for k, category := range e.Categories[j] {
			vals := make([]table.Value, out.Rows())
			for i := range vals {
				vals[i] = table.Int(0)
			}
			indicators[k] = table.NewColumn(OutputName(name, category), vals...)
		}
		for i, v := range c.Values {
			if v.IsNull() {
				continue
			}
			if idx, exists := e.CategoryToIdx[j][v.String()]; exists {
				indicators[idx].Values[i] = table.Int(1)
			}
		}
		out.Drop(name)
		for _, ind := range indicators {
			if err := out.Set(ind); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// FitTransform fits the encoder and transforms the same table.
func (e *OneHotEncoder) FitTransform(t *table.Table) (_ *table.Table, err error) {
	defer errors.Recover(&err, "OneHotEncoder.FitTransform")
	if err := e.Fit(t); err != nil {
		return nil, err
	}
	return e.Transform(t)
}

// GetFeatureNamesOut returns the indicator column names in output order,
// e.g. ["suite_Family", "suite_Spouse", "gender_F", "gender_M"].
func (e *OneHotEncoder) GetFeatureNamesOut() []string {
	if !e.IsFitted() {
		return nil
	}
	out := make([]string, 0, e.NOutputs)
	for j, categories := range e.Categories {
		for _, category := range categories {
			out = append(out, OutputName(e.Columns[j], category))
		}
	}
	return out
}

// OutputName is the indicator column name for a column's category.
func OutputName(column, category string) string {
	return column + "_" + category
}

var _ model.Transformer = (*OneHotEncoder)(nil)
