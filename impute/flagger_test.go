package impute_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/impute"
)

func TestFlagger_Identify(t *testing.T) {
	tbl := table.MustNew(
		col("none", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
		col("below", nil, nil, 3, 4, 5, 6, 7, 8, 9, 10),
		col("exact", nil, nil, nil, 4, 5, 6, 7, 8, 9, 10),
		col("above", nil, nil, nil, nil, nil, nil, nil, nil, 9, 10),
	)

	f, err := impute.NewFlagger(impute.DefaultMissingFlagThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"exact", "above"}, f.Identify(tbl))

	rates := f.Rates(tbl)
	require.Len(t, rates, 4)
	assert.Equal(t, "above", rates[3].Column)
	assert.Equal(t, 8, rates[3].Missing)
	assert.InDelta(t, 0.8, rates[3].Rate, 1e-12)
}

func TestFlagger_EmptyTable(t *testing.T) {
	f, err := impute.NewFlagger(0)
	require.NoError(t, err)
	assert.Empty(t, f.Identify(table.MustNew(col("A"))))
}

func TestNewFlagger_RejectsOutOfRange(t *testing.T) {
	for _, th := range []float64{-0.1, 1.5} {
		_, err := impute.NewFlagger(th)
		assert.Error(t, err, "threshold %v", th)
	}
}

func TestApplyFlags(t *testing.T) {
	tbl := table.MustNew(
		col("A", nil, 1, nil),
		col("B", 1, 2, 3),
	)
	impute.ApplyFlags(tbl, []string{"A", "absent"})

	assert.Equal(t, values(1, 0, 1), column(tbl, "FLAG_MISS_A"))
	assert.False(t, tbl.Has("FLAG_MISS_absent"))
	assert.Equal(t, []string{"A", "B", "FLAG_MISS_A"}, tbl.Names())
}
