package impute

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
)

const paramsFormatVersion = 1

type groupFile struct {
	GroupBy []string     `json:"group_by"`
	Entries []GroupEntry `json:"entries"`
}

type paramsFile struct {
	Version   int                    `json:"version"`
	ID        string                 `json:"id"`
	FittedAt  time.Time              `json:"fitted_at"`
	Rows      int                    `json:"rows"`
	Threshold float64                `json:"threshold"`
	Config    Config                 `json:"config"`
	Flagged   []string               `json:"flagged"`
	Scalars   map[string]table.Value `json:"scalars"`
	Groups    map[string]groupFile   `json:"groups"`
	Warnings  []Warning              `json:"warnings,omitempty"`
}

// SaveParams writes p as JSON so it can be reloaded for inference without
// refitting.
func SaveParams(w io.Writer, p *FittedParameters) error {
	if p == nil {
		return errors.NewNotFittedError("Imputer", "SaveParams")
	}
	f := paramsFile{
		Version:   paramsFormatVersion,
		ID:        p.id,
		FittedAt:  p.fittedAt,
		Rows:      p.rows,
		Threshold: p.threshold,
		Config:    p.registry.Config(),
		Flagged:   p.Flagged(),
		Scalars:   p.Scalars(),
		Groups:    make(map[string]groupFile, len(p.groups)),
		Warnings:  p.Warnings(),
	}
	for feature, g := range p.groups {
		f.Groups[feature] = groupFile{GroupBy: g.GroupBy(), Entries: g.Entries()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(err, "failed to encode imputation parameters")
	}
	return nil
}

// LoadParams reads parameters written by SaveParams.
func LoadParams(r io.Reader) (*FittedParameters, error) {
	var f paramsFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "failed to decode imputation parameters")
	}
	if f.Version != paramsFormatVersion {
		return nil, errors.NewValidationError("version", "unsupported parameter format", f.Version)
	}
	registry, err := NewRegistry(f.Config)
	if err != nil {
		return nil, errors.Wrap(err, "invalid stored configuration")
	}
	if _, err := NewFlagger(f.Threshold); err != nil {
		return nil, err
	}
	p := &FittedParameters{
		id:        f.ID,
		fittedAt:  f.FittedAt,
		rows:      f.Rows,
		threshold: f.Threshold,
		registry:  registry,
		flagged:   f.Flagged,
		scalars:   f.Scalars,
		groups:    make(map[string]*GroupMedians, len(f.Groups)),
		warnings:  f.Warnings,
	}
	if p.scalars == nil {
		p.scalars = make(map[string]table.Value)
	}
	for feature, g := range f.Groups {
		p.groups[feature] = newGroupMedians(g.GroupBy, g.Entries)
	}
	return p, nil
}
