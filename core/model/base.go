// Package model provides the estimator building blocks shared by creditprep
// transformers.
//
// BaseEstimator tracks whether an estimator has been fitted, carries its
// logger and a snapshot of its construction parameters. Estimators embed it:
//
//	type Imputer struct {
//		model.BaseEstimator
//		// estimator-specific fields
//	}
//
//	func (imp *Imputer) Fit(t *table.Table) error {
//		// learn parameters
//		imp.SetFitted()
//		return nil
//	}
//
// Fitted-only methods check IsFitted and return errors.NewNotFittedError
// otherwise, so a transformer can never run with half-learned state.
package model

import (
	"sync"

	"github.com/ezoic/creditprep/pkg/log"
)

// EstimatorState represents the learning state of an estimator.
type EstimatorState int

const (
	// NotFitted indicates the estimator has not learned any parameters.
	NotFitted EstimatorState = iota
	// Fitted indicates Fit completed.
	Fitted
)

func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not fitted"
}

// BaseEstimator is embedded by every estimator.
type BaseEstimator struct {
	mu    sync.RWMutex
	state EstimatorState

	logger log.Logger

	hyperparameters map[string]interface{}

	// ModelType identifies the estimator, e.g. "Imputer".
	ModelType string
}

// IsFitted reports whether Fit has completed.
func (e *BaseEstimator) IsFitted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == Fitted
}

// State returns the current learning state.
func (e *BaseEstimator) State() EstimatorState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetFitted marks the estimator as fitted. Called by Fit implementations.
func (e *BaseEstimator) SetFitted() {
	e.mu.Lock()
	e.state = Fitted
	e.mu.Unlock()
}

// Reset returns the estimator to the not-fitted state.
func (e *BaseEstimator) Reset() {
	e.mu.Lock()
	e.state = NotFitted
	e.mu.Unlock()
}

// SetLogger sets the logger used by the estimator.
func (e *BaseEstimator) SetLogger(logger log.Logger) {
	e.mu.Lock()
	e.logger = logger
	e.mu.Unlock()
}

// Logger returns the configured logger, or a no-op logger when none is set.
func (e *BaseEstimator) Logger() log.Logger {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.logger == nil {
		return log.Nop()
	}
	return e.logger
}

// GetParams returns a copy of the construction parameters.
func (e *BaseEstimator) GetParams() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	params := make(map[string]interface{}, len(e.hyperparameters))
	for k, v := range e.hyperparameters {
		params[k] = v
	}
	return params
}

// SetParams records construction parameters for introspection.
func (e *BaseEstimator) SetParams(params map[string]interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hyperparameters == nil {
		e.hyperparameters = make(map[string]interface{}, len(params))
	}
	for k, v := range params {
		e.hyperparameters[k] = v
	}
}
