// Package pipeline chains table transformers: each step is fitted on the
// output of the previous one, and Transform replays the fitted steps in order.
//
//	p := pipeline.New(
//		pipeline.Step{Name: "impute", Transformer: imp},
//		pipeline.Step{Name: "features", Transformer: features.NewBuilder("CODE_GENDER")},
//	)
//	train, err := p.FitTransform(raw)
package pipeline

import (
	"fmt"
	"time"

	"github.com/ezoic/creditprep/core/model"
	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/pkg/log"
)

// Step is a named pipeline stage.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline runs its steps in declaration order.
type Pipeline struct {
	model.BaseEstimator

	steps      []Step
	namedSteps map[string]model.Transformer

	// Verbose logs each step's timing at info level instead of debug.
	Verbose bool
}

// New creates a Pipeline. Step names must be unique and non-empty; use
// Validate to check before fitting.
func New(steps ...Step) *Pipeline {
	p := &Pipeline{
		steps:      append([]Step(nil), steps...),
		namedSteps: make(map[string]model.Transformer, len(steps)),
	}
	for _, s := range steps {
		p.namedSteps[s.Name] = s.Transformer
	}
	p.ModelType = "Pipeline"
	p.SetLogger(log.GetLoggerWithName("pipeline").With(log.ModelNameKey, "Pipeline"))
	return p
}

// Make builds a Pipeline with generated names step1, step2, ...
func Make(transformers ...model.Transformer) *Pipeline {
	steps := make([]Step, len(transformers))
	for i, t := range transformers {
		steps[i] = Step{Name: fmt.Sprintf("step%d", i+1), Transformer: t}
	}
	return New(steps...)
}

// Validate checks that the pipeline has steps with unique names and
// non-nil transformers.
func (p *Pipeline) Validate() error {
	if len(p.steps) == 0 {
		return errors.NewValidationError("steps", "pipeline has no steps", 0)
	}
	seen := make(map[string]bool, len(p.steps))
	for _, s := range p.steps {
		switch {
		case s.Name == "":
			return errors.NewValidationError("pipeline step", "name must not be empty", s.Name)
		case seen[s.Name]:
			return errors.NewValidationError("pipeline step", "duplicate step name", s.Name)
		case s.Transformer == nil:
			return errors.NewValidationError("pipeline step", "transformer must not be nil", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Fit fits every step, feeding each the previous step's output.
func (p *Pipeline) Fit(t *table.Table) error {
	_, err := p.fit(t, false)
	return err
}

// FitTransform fits every step and returns the final output.
func (p *Pipeline) FitTransform(t *table.Table) (*table.Table, error) {
	return p.fit(t, true)
}

func (p *Pipeline) fit(t *table.Table, transformLast bool) (*table.Table, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Reset()
	out := t
	for i, s := range p.steps {
		start := time.Now()
		if err := s.Transformer.Fit(out); err != nil {
			return nil, errors.Wrapf(err, "failed to fit step '%s'", s.Name)
		}
		if i < len(p.steps)-1 || transformLast {
			next, err := s.Transformer.Transform(out)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to transform at step '%s'", s.Name)
			}
			out = next
		}
		p.logStep(s.Name, log.OperationFit, out, start)
	}
	p.SetFitted()
	return out, nil
}

// Transform applies every fitted step in order.
func (p *Pipeline) Transform(t *table.Table) (*table.Table, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}
	out := t
	for _, s := range p.steps {
		start := time.Now()
		next, err := s.Transformer.Transform(out)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to transform at step '%s'", s.Name)
		}
		out = next
		p.logStep(s.Name, log.OperationTransform, out, start)
	}
	return out, nil
}

// InverseTransform applies inverse transforms in reverse order. Every step
// must provide InverseTransform.
func (p *Pipeline) InverseTransform(t *table.Table) (*table.Table, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "InverseTransform")
	}
	out := t
	for i := len(p.steps) - 1; i >= 0; i-- {
		s := p.steps[i]
		inv, ok := s.Transformer.(interface {
			InverseTransform(*table.Table) (*table.Table, error)
		})
		if !ok {
			return nil, errors.NewValidationError("pipeline step", "all steps must have InverseTransform method", s.Name)
		}
		next, err := inv.InverseTransform(out)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to inverse transform at step '%s'", s.Name)
		}
		out = next
	}
	return out, nil
}

func (p *Pipeline) logStep(name, op string, out *table.Table, start time.Time) {
	logf := p.Logger().Debug
	if p.Verbose {
		logf = p.Logger().Info
	}
	fields := []interface{}{
		log.StepKey, name,
		log.OperationKey, op,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if out != nil {
		fields = append(fields, log.SamplesKey, out.Rows(), log.FeaturesKey, out.Width())
	}
	logf("Pipeline step completed", fields...)
}

// GetParams returns the pipeline's parameters together with each step's,
// prefixed "<step>__".
func (p *Pipeline) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"steps":   p.Steps(),
		"verbose": p.Verbose,
	}
	for _, s := range p.steps {
		if g, ok := s.Transformer.(interface {
			GetParams() map[string]interface{}
		}); ok {
			for k, v := range g.GetParams() {
				params[s.Name+"__"+k] = v
			}
		}
	}
	return params
}

// NamedStep returns the transformer registered under name.
func (p *Pipeline) NamedStep(name string) (model.Transformer, bool) {
	t, ok := p.namedSteps[name]
	return t, ok
}

// Steps returns a copy of the steps.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

var _ model.Transformer = (*Pipeline)(nil)
