package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
)

func num(vals ...interface{}) []table.Value {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			out[i] = table.Null()
		case int:
			out[i] = table.Int(x)
		case float64:
			out[i] = table.Number(x)
		case string:
			out[i] = table.String(x)
		}
	}
	return out
}

func applicants() *table.Table {
	return table.MustNew(
		table.NewColumn(ColIncome, num(100000.0, 50000.0, 200000.0, 30000.0)...),
		table.NewColumn(ColCredit, num(600000.0, 100000.0, nil, 60000.0)...),
		table.NewColumn(ColAnnuity, num(2000.0, 1000.0, 5000.0, nil)...),
		table.NewColumn(ColChildren, num(2, 0, 1, 3)...),
		table.NewColumn(ColFamMembers, num(3, 2, 0, 5)...),
		table.NewColumn(ColFamilyStatus, num("Single / not married", "Married", "Single / not married", "Married")...),
		table.NewColumn(ColDaysBirth, num(-9125, -14600, -21900, nil)...),
		table.NewColumn(ColDaysEmployed, num(-730, -3650, nil, -365)...),
		table.NewColumn("CODE_GENDER", num("F", "M", "F", "M")...),
	)
}

func at(t *testing.T, tbl *table.Table, name string, i int) table.Value {
	t.Helper()
	require.True(t, tbl.Has(name), "missing column %s", name)
	return tbl.At(name, i)
}

func TestBuilderRatios(t *testing.T) {
	b := NewBuilder("CODE_GENDER")
	out, err := b.FitTransform(applicants())
	require.NoError(t, err)

	assert.Equal(t, table.Number(6), at(t, out, "debt_to_income", 0))
	assert.True(t, at(t, out, "debt_to_income", 2).IsNull())
	assert.Equal(t, table.Number(0.24), at(t, out, "payment_to_income_ratio", 0))
	assert.Equal(t, table.Number(76000), at(t, out, "residual_income", 0))
	assert.True(t, at(t, out, "residual_income", 3).IsNull())

	assert.InDelta(t, 2.0/3.0, at(t, out, "children_ratio", 0).Num, 1e-12)
	assert.True(t, at(t, out, "children_ratio", 2).IsNull(), "zero denominator yields null")
	assert.True(t, at(t, out, "income_per_family_member", 2).IsNull())
	assert.Equal(t, table.Number(12000), at(t, out, "credit_per_family_member", 3))

	assert.False(t, out.Has("CODE_GENDER"))
}

func TestBuilderAgeFeatures(t *testing.T) {
	out, err := NewBuilder().FitTransform(applicants())
	require.NoError(t, err)

	assert.Equal(t, table.Number(25), at(t, out, ColAgeYears, 0))
	assert.Equal(t, table.Number(2), at(t, out, ColEmployYears, 0))
	assert.Equal(t, table.String("Early"), at(t, out, "career_stage", 0), "25 falls in the first bin")
	assert.Equal(t, table.String("Peak"), at(t, out, "career_stage", 1))
	assert.Equal(t, table.String("Senior"), at(t, out, "career_stage", 2))
	assert.True(t, at(t, out, "career_stage", 3).IsNull())

	assert.Equal(t, table.Number(0.08), at(t, out, "employment_stability", 0))
	assert.Equal(t, table.Number(40), at(t, out, "years_to_retirement", 0))
	assert.Equal(t, table.Int(1), at(t, out, "young_high_credit", 0))
	assert.Equal(t, table.Int(0), at(t, out, "young_high_credit", 1))
	assert.Equal(t, table.Int(0), at(t, out, "young_high_credit", 3), "null age is not young")
}

func TestBuilderKeepsExistingAge(t *testing.T) {
	in := applicants()
	require.NoError(t, in.Set(table.NewColumn(ColAgeYears, num(40.0, 40.0, 40.0, 40.0)...)))

	out, err := NewBuilder().FitTransform(in)
	require.NoError(t, err)
	assert.Equal(t, table.Number(40), at(t, out, ColAgeYears, 0))
	assert.Equal(t, table.String("Peak"), at(t, out, "career_stage", 3))
}

func TestBuilderHouseholdIndicators(t *testing.T) {
	b := NewBuilder()
	out, err := b.FitTransform(applicants())
	require.NoError(t, err)

	cut, ok := b.IncomeCut()
	require.True(t, ok)
	assert.InDelta(t, 45000.0, cut, 1e-9)

	assert.Equal(t, num(0, 0, 0, 1), column(t, out, "large_family"))
	assert.Equal(t, num(1, 0, 1, 0), column(t, out, "single_parent"))
	assert.Equal(t, num(0, 0, 0, 1), column(t, out, "low_income_large_family"))
}

func TestBuilderUsesFitCut(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Fit(applicants()))

	rich := table.MustNew(
		table.NewColumn(ColIncome, num(35000.0, 45000.0)...),
		table.NewColumn(ColFamMembers, num(4, 4)...),
	)
	out, err := b.Transform(rich)
	require.NoError(t, err)
	assert.Equal(t, num(1, 0), column(t, out, "low_income_large_family"))
}

func TestBuilderSkipsMissingInputs(t *testing.T) {
	in := table.MustNew(table.NewColumn(ColFamMembers, num(5, 1)...))
	b := NewBuilder("CODE_GENDER")
	out, err := b.FitTransform(in)
	require.NoError(t, err)

	_, ok := b.IncomeCut()
	assert.False(t, ok)
	assert.True(t, out.Has("large_family"))
	assert.False(t, out.Has("debt_to_income"))
	assert.False(t, out.Has("low_income_large_family"))
	assert.False(t, out.Has(ColAgeYears))
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder()
	_, err := b.Transform(applicants())
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	assert.Error(t, b.Fit(nil))
}

func TestBuilderDoesNotMutateInput(t *testing.T) {
	in := applicants()
	before := in.Records()
	_, err := NewBuilder("CODE_GENDER").FitTransform(in)
	require.NoError(t, err)
	assert.Equal(t, before, in.Records())
}

func column(t *testing.T, tbl *table.Table, name string) []table.Value {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "missing column %s", name)
	return c.Values
}

func TestFirstQuartileInterpolates(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
		ok   bool
	}{
		{"between ranks", []float64{8, 1, 7, 2, 6, 3, 5, 4}, 2.75, true},
		{"exact rank", []float64{10, 20, 30, 40, 50}, 20, true},
		{"single value", []float64{42}, 42, true},
		{"empty", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstQuartile(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	in := []float64{3, 1, 2}
	firstQuartile(in)
	assert.Equal(t, []float64{3, 1, 2}, in, "input order is preserved")
}
