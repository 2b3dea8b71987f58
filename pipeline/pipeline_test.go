package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/features"
	"github.com/ezoic/creditprep/impute"
	"github.com/ezoic/creditprep/pipeline"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/preprocessing"
)

func applicants() *table.Table {
	return table.MustNew(
		table.NewColumn("AMT_INCOME_TOTAL", table.Number(100000), table.Number(50000), table.Number(80000)),
		table.NewColumn("AMT_CREDIT", table.Number(200000), table.Number(150000), table.Number(400000)),
		table.NewColumn("CNT_FAM_MEMBERS", table.Number(2), table.Null(), table.Number(2)),
		table.NewColumn("CODE_GENDER", table.String("F"), table.String("M"), table.String("F")),
	)
}

func newImputer(t *testing.T) *impute.Imputer {
	t.Helper()
	imp, err := impute.NewImputer(impute.Config{
		Strategies:           []impute.FeatureStrategy{{Feature: "CNT_FAM_MEMBERS", Strategy: impute.StrategyMode}},
		MissingFlagThreshold: impute.Threshold(0.3),
	})
	require.NoError(t, err)
	return imp
}

func TestPipelineFitTransform(t *testing.T) {
	p := pipeline.New(
		pipeline.Step{Name: "impute", Transformer: newImputer(t)},
		pipeline.Step{Name: "features", Transformer: features.NewBuilder("CODE_GENDER")},
		pipeline.Step{Name: "scale", Transformer: preprocessing.NewStandardScalerDefault([]string{"debt_to_income"})},
	)

	out, err := p.FitTransform(applicants())
	require.NoError(t, err)
	assert.True(t, p.IsFitted())

	assert.Equal(t, table.Number(2), out.At("CNT_FAM_MEMBERS", 1))
	assert.Equal(t, table.Int(1), out.At("FLAG_MISS_CNT_FAM_MEMBERS", 1))
	assert.False(t, out.Has("CODE_GENDER"))

	// debt_to_income = [2, 3, 5], mean 10/3
	dti, ok := out.Column("debt_to_income")
	require.True(t, ok)
	assert.Less(t, dti.Values[0].Num, 0.0)
	assert.Greater(t, dti.Values[2].Num, 0.0)

	again, err := p.Transform(applicants())
	require.NoError(t, err)
	assert.Equal(t, out.Records(), again.Records())
}

func TestPipelineFitThenTransform(t *testing.T) {
	p := pipeline.Make(newImputer(t), features.NewBuilder())
	require.NoError(t, p.Fit(applicants()))

	test := table.MustNew(
		table.NewColumn("AMT_INCOME_TOTAL", table.Number(10000)),
		table.NewColumn("AMT_CREDIT", table.Number(100000)),
		table.NewColumn("CNT_FAM_MEMBERS", table.Null()),
	)
	out, err := p.Transform(test)
	require.NoError(t, err)
	assert.Equal(t, table.Number(2), out.At("CNT_FAM_MEMBERS", 0), "fill value comes from the fit table")
	assert.Equal(t, table.Number(5000), out.At("income_per_family_member", 0))

	_, ok := p.NamedStep("step2")
	assert.True(t, ok)
	_, ok = p.NamedStep("missing")
	assert.False(t, ok)
}

func TestPipelineNotFitted(t *testing.T) {
	p := pipeline.Make(newImputer(t))
	_, err := p.Transform(applicants())
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	_, err = p.InverseTransform(applicants())
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}

func TestPipelineStepErrorNamesStep(t *testing.T) {
	p := pipeline.New(
		pipeline.Step{Name: "impute", Transformer: newImputer(t)},
		pipeline.Step{Name: "scale", Transformer: preprocessing.NewStandardScalerDefault([]string{"absent"})},
	)
	_, err := p.FitTransform(applicants())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fit step 'scale'")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.False(t, p.IsFitted())
}

func TestPipelineValidate(t *testing.T) {
	assert.Error(t, pipeline.New().Validate())

	dup := pipeline.New(
		pipeline.Step{Name: "a", Transformer: newImputer(t)},
		pipeline.Step{Name: "a", Transformer: newImputer(t)},
	)
	assert.Error(t, dup.Validate())

	assert.Error(t, pipeline.New(pipeline.Step{Name: "nil"}).Validate())
	assert.Error(t, pipeline.New(pipeline.Step{Transformer: newImputer(t)}).Validate())
}

func TestPipelineInverseTransform(t *testing.T) {
	p := pipeline.Make(
		preprocessing.NewStandardScalerDefault([]string{"AMT_CREDIT"}),
		preprocessing.NewMinMaxScalerDefault([]string{"AMT_INCOME_TOTAL"}),
	)
	scaled, err := p.FitTransform(applicants())
	require.NoError(t, err)

	back, err := p.InverseTransform(scaled)
	require.NoError(t, err)
	c, _ := back.Column("AMT_CREDIT")
	assert.InDeltaSlice(t, []float64{200000, 150000, 400000}, c.Numbers(), 1e-6)

	withImputer := pipeline.Make(newImputer(t))
	require.NoError(t, withImputer.Fit(applicants()))
	_, err = withImputer.InverseTransform(applicants())
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestPipelineGetParams(t *testing.T) {
	p := pipeline.New(pipeline.Step{Name: "scale", Transformer: preprocessing.NewStandardScaler([]string{"x"}, true, false)})
	params := p.GetParams()
	assert.Equal(t, false, params["verbose"])
	assert.Equal(t, false, params["scale__with_std"])
}
