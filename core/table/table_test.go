package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/creditprep/pkg/errors"
)

func sample() *Table {
	return MustNew(
		NewColumn("income", Number(100), Null(), Number(300)),
		NewColumn("suite", String("Family"), String("Spouse"), Null()),
	)
}

func TestNew(t *testing.T) {
	tbl := sample()
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, 2, tbl.Width())
	assert.Equal(t, []string{"income", "suite"}, tbl.Names())
	assert.True(t, tbl.Has("suite"))
	assert.False(t, tbl.Has("missing"))

	_, err := New(NewColumn("a", Int(1)), NewColumn("a", Int(2)))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = New(NewColumn("a", Int(1)), NewColumn("b", Int(1), Int(2)))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))

	_, err = New(nil)
	assert.Error(t, err)
}

func TestColumnStats(t *testing.T) {
	tbl := sample()
	income, ok := tbl.Column("income")
	require.True(t, ok)
	assert.Equal(t, 1, income.NullCount())
	assert.InDelta(t, 1.0/3.0, income.MissingRate(), 1e-12)
	assert.Equal(t, KindNumber, income.Kind())
	assert.Equal(t, []float64{100, 300}, income.Numbers())

	suite, _ := tbl.Column("suite")
	assert.Equal(t, KindString, suite.Kind())

	empty := NewColumn("e")
	assert.Equal(t, 0.0, empty.MissingRate())
	assert.Equal(t, KindNull, NewColumn("n", Null(), Null()).Kind())
}

func TestFloatsAndStrings(t *testing.T) {
	c := Strings("s", []string{"a", "", "b"})
	assert.True(t, c.Values[1].IsNull())

	f := Floats("f", []float64{1, 2})
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "f", f.Name)
}

func TestAt(t *testing.T) {
	tbl := sample()
	assert.True(t, tbl.At("income", 0).Equal(Number(100)))
	assert.True(t, tbl.At("income", 1).IsNull())
	assert.True(t, tbl.At("absent", 0).IsNull())
	assert.True(t, tbl.At("income", 9).IsNull())
}

func TestSetReplacesInPlace(t *testing.T) {
	tbl := sample()
	require.NoError(t, tbl.Set(NewColumn("income", Int(1), Int(2), Int(3))))
	assert.Equal(t, []string{"income", "suite"}, tbl.Names())
	assert.True(t, tbl.At("income", 2).Equal(Int(3)))

	require.NoError(t, tbl.Set(NewColumn("flag", Int(0), Int(1), Int(0))))
	assert.Equal(t, []string{"income", "suite", "flag"}, tbl.Names())

	err := tbl.Set(NewColumn("short", Int(0)))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestDrop(t *testing.T) {
	tbl := sample()
	tbl.Drop("suite", "unknown")
	assert.Equal(t, []string{"income"}, tbl.Names())
	assert.Equal(t, 3, tbl.Rows())
	assert.False(t, tbl.Has("suite"))

	tbl.Drop("income")
	assert.Equal(t, 0, tbl.Width())
	assert.Equal(t, 0, tbl.Rows())
}

func TestCloneIsDeep(t *testing.T) {
	tbl := sample()
	cp := tbl.Clone()
	c, _ := cp.Column("income")
	c.Values[1] = Number(7)
	cp.Drop("suite")

	assert.True(t, tbl.At("income", 1).IsNull())
	assert.True(t, tbl.Has("suite"))

	renamed := c.Clone("income_copy")
	assert.Equal(t, "income_copy", renamed.Name)
	assert.Equal(t, "income", c.Name)
}

func TestRecords(t *testing.T) {
	records := [][]string{
		{"income", "suite"},
		{"100", "Family"},
		{"", "Spouse"},
		{"300"},
	}
	tbl, err := FromRecords(records)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Rows())
	assert.True(t, tbl.At("suite", 2).IsNull())

	assert.Equal(t, [][]string{
		{"income", "suite"},
		{"100", "Family"},
		{"", "Spouse"},
		{"300", ""},
	}, tbl.Records())

	_, err = FromRecords(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = FromRecords([][]string{{"a"}, {"1", "2"}})
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}
