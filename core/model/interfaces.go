package model

import "github.com/ezoic/creditprep/core/table"

// Fitter learns parameters from a table.
type Fitter interface {
	Fit(t *table.Table) error
}

// Transformer is a fit/transform component over tables. Transform must not
// mutate its argument.
type Transformer interface {
	Fitter
	Transform(t *table.Table) (*table.Table, error)
	FitTransform(t *table.Table) (*table.Table, error)
}

// StateReporter is implemented by estimators that track fitted state.
type StateReporter interface {
	IsFitted() bool
}
