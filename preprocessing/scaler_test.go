package preprocessing_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/preprocessing"
)

const epsilon = 1e-10 // Tolerance for floating-point comparisons

func numbers(name string, vals ...interface{}) *table.Column {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			out[i] = table.Null()
		case float64:
			out[i] = table.Number(x)
		case int:
			out[i] = table.Int(x)
		case string:
			out[i] = table.String(x)
		}
	}
	return table.NewColumn(name, out...)
}

func floatsOf(t *testing.T, tbl *table.Table, name string) []float64 {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "missing column %s", name)
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		if f, ok := v.Float(); ok {
			out[i] = f
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func TestStandardScaler_BasicFunctionality(t *testing.T) {
	// a: [1, 2, 3] -> mean=2, std=0.816
	// b: [4, 5, 6] -> mean=5, std=0.816
	X := table.MustNew(
		numbers("a", 1.0, 2.0, 3.0),
		numbers("b", 4.0, 5.0, 6.0),
		numbers("untouched", 10.0, 20.0, 30.0),
	)

	scaler := preprocessing.NewStandardScalerDefault([]string{"a", "b"})
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	expectedMean := []float64{2.0, 5.0}
	expectedStd := []float64{0.816496580927726, 0.816496580927726}
	for i, expected := range expectedMean {
		if math.Abs(scaler.Mean[i]-expected) > epsilon {
			t.Errorf("Mean[%d]: expected %f, got %f", i, expected, scaler.Mean[i])
		}
	}
	for i, expected := range expectedStd {
		if math.Abs(scaler.Scale[i]-expected) > epsilon {
			t.Errorf("Scale[%d]: expected %f, got %f", i, expected, scaler.Scale[i])
		}
	}

	scaled, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// [(1-2)/0.816, (2-2)/0.816, (3-2)/0.816] = [-1.225, 0, 1.225]
	want := []float64{-1.2247448713915890, 0, 1.2247448713915890}
	for _, name := range []string{"a", "b"} {
		assert.InDeltaSlice(t, want, floatsOf(t, scaled, name), 1e-9)
	}
	assert.Equal(t, []float64{10, 20, 30}, floatsOf(t, scaled, "untouched"))
	assert.Equal(t, 1.0, X.At("a", 0).Num, "input must not change")
}

func TestStandardScaler_NullsPreserved(t *testing.T) {
	X := table.MustNew(numbers("a", 1.0, nil, 3.0))

	scaler := preprocessing.NewStandardScalerDefault([]string{"a"})
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, 2.0, scaler.Mean[0])
	assert.Equal(t, 1.0, scaler.Scale[0])
	assert.Equal(t, table.Number(-1), scaled.At("a", 0))
	assert.True(t, scaled.At("a", 1).IsNull())
	assert.Equal(t, table.Number(1), scaled.At("a", 2))
}

func TestStandardScaler_InverseTransform(t *testing.T) {
	X := table.MustNew(numbers("a", 1.0, 5.0, 9.0), numbers("b", -3.0, 0.5, 2.0))

	scaler := preprocessing.NewStandardScalerDefault([]string{"a", "b"})
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	back, err := scaler.InverseTransform(scaled)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 5, 9}, floatsOf(t, back, "a"), 1e-9)
	assert.InDeltaSlice(t, []float64{-3, 0.5, 2}, floatsOf(t, back, "b"), 1e-9)
}

func TestStandardScaler_WithMeanFalse(t *testing.T) {
	X := table.MustNew(numbers("a", 1.0, 2.0, 3.0))
	scaler := preprocessing.NewStandardScaler([]string{"a"}, false, true)
	require.NoError(t, scaler.Fit(X))

	if scaler.Mean[0] != 0 {
		t.Errorf("Mean should be 0 when WithMean=false, got %f", scaler.Mean[0])
	}
	scaled, err := scaler.Transform(X)
	require.NoError(t, err)
	assert.InDelta(t, 1/0.816496580927726, scaled.At("a", 0).Num, 1e-9)
}

func TestStandardScaler_WithStdFalse(t *testing.T) {
	X := table.MustNew(numbers("a", 1.0, 2.0, 3.0))
	scaler := preprocessing.NewStandardScaler([]string{"a"}, true, false)
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, 1.0, scaler.Scale[0])
	assert.Equal(t, []float64{-1, 0, 1}, floatsOf(t, scaled, "a"))
}

func TestStandardScaler_ConstantFeature(t *testing.T) {
	X := table.MustNew(numbers("a", 5.0, 5.0, 5.0))
	scaler := preprocessing.NewStandardScalerDefault([]string{"a"})
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, 1.0, scaler.Scale[0], "constant columns keep a unit scale")
	assert.Equal(t, []float64{0, 0, 0}, floatsOf(t, scaled, "a"))
}

func TestStandardScaler_ErrorCases(t *testing.T) {
	X := table.MustNew(numbers("a", 1.0, 2.0), numbers("s", "x", "y"))

	tests := []struct {
		name    string
		columns []string
		input   *table.Table
		target  error
	}{
		{"no columns", nil, X, errors.ErrEmptyData},
		{"no rows", []string{"a"}, table.MustNew(numbers("a")), errors.ErrEmptyData},
		{"absent column", []string{"missing"}, X, errors.ErrInvalidInput},
		{"non-numeric column", []string{"s"}, X, errors.ErrInvalidInput},
		{"nil table", []string{"a"}, nil, errors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := preprocessing.NewStandardScalerDefault(tt.columns).Fit(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	_, err := preprocessing.NewStandardScalerDefault([]string{"a"}).Transform(X)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}

func TestStandardScaler_SkipsAbsentColumnsOnTransform(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault([]string{"a", "b"})
	require.NoError(t, scaler.Fit(table.MustNew(numbers("a", 1.0, 3.0), numbers("b", 0.0, 4.0))))

	out, err := scaler.Transform(table.MustNew(numbers("b", 2.0)))
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, floatsOf(t, out, "b"))
}

func TestStandardScaler_GetParamsAndString(t *testing.T) {
	scaler := preprocessing.NewStandardScaler([]string{"a"}, true, false)
	params := scaler.GetParams()
	assert.Equal(t, true, params["with_mean"])
	assert.Equal(t, false, params["with_std"])
	assert.Equal(t, "StandardScaler(with_mean=true, with_std=false)", scaler.String())

	require.NoError(t, scaler.Fit(table.MustNew(numbers("a", 1.0, 2.0))))
	assert.Equal(t, "StandardScaler(with_mean=true, with_std=false, n_columns=1)", scaler.String())
}

func TestMinMaxScaler_BasicFunctionality(t *testing.T) {
	X := table.MustNew(numbers("a", 1.0, 3.0, 5.0), numbers("b", 10.0, nil, 20.0))

	scaler := preprocessing.NewMinMaxScalerDefault([]string{"a", "b"})
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 10}, scaler.DataMin)
	assert.Equal(t, []float64{5, 20}, scaler.DataMax)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, floatsOf(t, scaled, "a"), epsilon)
	assert.InDelta(t, 1.0, scaled.At("b", 2).Num, epsilon)
	assert.True(t, scaled.At("b", 1).IsNull())
}

func TestMinMaxScaler_CustomRange(t *testing.T) {
	X := table.MustNew(numbers("a", 0.0, 5.0, 10.0))
	scaler := preprocessing.NewMinMaxScaler([]string{"a"}, [2]float64{-1, 1})
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, floatsOf(t, scaled, "a"), epsilon)

	back, err := scaler.InverseTransform(scaled)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 5, 10}, floatsOf(t, back, "a"), epsilon)
}

func TestMinMaxScaler_ConstantFeature(t *testing.T) {
	X := table.MustNew(numbers("a", 7.0, 7.0))
	scaler := preprocessing.NewMinMaxScalerDefault([]string{"a"})
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, floatsOf(t, scaled, "a"))
}

func TestMinMaxScaler_ErrorCases(t *testing.T) {
	X := table.MustNew(numbers("a", 1.0, 2.0))

	bad := preprocessing.NewMinMaxScaler([]string{"a"}, [2]float64{1, 1})
	assert.True(t, errors.Is(bad.Fit(X), errors.ErrInvalidInput))

	_, err := preprocessing.NewMinMaxScalerDefault([]string{"a"}).Transform(X)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	_, err = preprocessing.NewMinMaxScalerDefault([]string{"a"}).InverseTransform(X)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}
