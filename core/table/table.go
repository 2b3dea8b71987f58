// Package table provides the in-memory tabular data model used by creditprep.
//
// A Table is an ordered collection of named columns aligned by row index.
// Every cell is a Value: a tagged variant over null, number, string and bool,
// where null is a distinguished missing marker distinct from any valid value.
//
// Tables are plain values with no hidden sharing: Clone returns a deep copy,
// and transformers in this module clone their input before writing so callers
// never observe in-place mutation.
package table

import (
	"math"

	"github.com/ezoic/creditprep/pkg/errors"
)

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// NewColumn creates a column from values.
func NewColumn(name string, values ...Value) *Column {
	return &Column{Name: name, Values: values}
}

// Floats creates a numeric column. NaN entries become null.
func Floats(name string, values []float64) *Column {
	c := &Column{Name: name, Values: make([]Value, len(values))}
	for i, f := range values {
		c.Values[i] = Number(f)
	}
	return c
}

// Strings creates a categorical column. Empty strings become null.
func Strings(name string, values []string) *Column {
	c := &Column{Name: name, Values: make([]Value, len(values))}
	for i, s := range values {
		if s == "" {
			c.Values[i] = Null()
			continue
		}
		c.Values[i] = String(s)
	}
	return c
}

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.Values) }

// NullCount returns the number of null entries.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// MissingRate returns NullCount/Len, or 0 for an empty column.
func (c *Column) MissingRate() float64 {
	if len(c.Values) == 0 {
		return 0
	}
	return float64(c.NullCount()) / float64(len(c.Values))
}

// Kind returns the most common non-null kind, or KindNull if every value is null.
func (c *Column) Kind() Kind {
	var counts [4]int
	for _, v := range c.Values {
		if v.Kind >= 0 && int(v.Kind) < len(counts) {
			counts[v.Kind]++
		}
	}
	best := KindNull
	for k := KindNumber; k <= KindBool; k++ {
		if counts[k] > counts[best] || (best == KindNull && counts[k] > 0) {
			best = k
		}
	}
	return best
}

// Numbers returns the non-null numeric payloads in row order.
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok && !math.IsNaN(f) {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a deep copy of c, optionally renamed.
func (c *Column) Clone(name ...string) *Column {
	out := &Column{Name: c.Name, Values: make([]Value, len(c.Values))}
	copy(out.Values, c.Values)
	if len(name) > 0 {
		out.Name = name[0]
	}
	return out
}

// Table is an ordered set of equally long named columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table. Column names must be unique and lengths equal.
func New(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if c == nil {
			return nil, errors.NewValueError("table.New", "nil column")
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.NewValueError("table.New", "duplicate column "+c.Name)
		}
		if err := t.Set(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns ...*Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column named name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column. The returned column is shared with t.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Columns returns the columns in order. The slice is a copy; columns are shared.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// At returns the value at row i of the named column, or null if the column is absent.
func (t *Table) At(name string, i int) Value {
	c, ok := t.Column(name)
	if !ok || i < 0 || i >= len(c.Values) {
		return Null()
	}
	return c.Values[i]
}

// Set replaces the column with the same name in place, or appends c.
func (t *Table) Set(c *Column) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if len(t.columns) > 0 && c.Len() != t.rows {
		return errors.NewDimensionError("Table.Set", t.rows, c.Len(), 0)
	}
	if i, ok := t.index[c.Name]; ok {
		t.columns[i] = c
		return nil
	}
	if len(t.columns) == 0 {
		t.rows = c.Len()
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// Drop removes the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := t.columns[:0]
	for _, c := range t.columns {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	t.columns = kept
	t.index = make(map[string]int, len(kept))
	for i, c := range kept {
		t.index[c.Name] = i
	}
	if len(kept) == 0 {
		t.rows = 0
	}
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{
		columns: make([]*Column, len(t.columns)),
		index:   make(map[string]int, len(t.columns)),
		rows:    t.rows,
	}
	for i, c := range t.columns {
		out.columns[i] = c.Clone()
		out.index[c.Name] = i
	}
	return out
}

// Records renders the table as a header row followed by one string row per record.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, t.rows+1)
	out = append(out, t.Names())
	for i := 0; i < t.rows; i++ {
		row := make([]string, len(t.columns))
		for j, c := range t.columns {
			row[j] = c.Values[i].String()
		}
		out = append(out, row)
	}
	return out
}

// FromRecords builds a table from a header row and string rows, inferring
// each cell with Parse. Short rows are padded with null.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.NewModelError("table.FromRecords", "missing header", errors.ErrEmptyData)
	}
	header := records[0]
	body := records[1:]
	cols := make([]*Column, len(header))
	for j, name := range header {
		cols[j] = &Column{Name: name, Values: make([]Value, len(body))}
	}
	for i, row := range body {
		if len(row) > len(header) {
			return nil, errors.NewDimensionError("table.FromRecords", len(header), len(row), 1)
		}
		for j := range header {
			if j < len(row) {
				cols[j].Values[i] = Parse(row[j])
			}
		}
	}
	return New(cols...)
}
