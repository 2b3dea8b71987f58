// Package report summarizes missingness in applicant tables, as text and as
// a bar chart.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/impute"
	"github.com/ezoic/creditprep/pkg/errors"
)

// ColumnMissingness describes the nulls of one column.
type ColumnMissingness struct {
	Column  string  `json:"column"`
	Missing int     `json:"missing"`
	Rate    float64 `json:"rate"`
	Flagged bool    `json:"flagged"`
}

// Report is a missingness summary of a table.
type Report struct {
	Rows      int                 `json:"rows"`
	Threshold float64             `json:"threshold"`
	Columns   []ColumnMissingness `json:"columns"`
}

// Missingness computes per-column missing counts and rates, sorted by rate
// descending and then by name. Flagged marks the columns an Imputer with
// the same threshold would flag.
func Missingness(t *table.Table, threshold float64) (*Report, error) {
	if t == nil {
		return nil, errors.NewValueError("report.Missingness", "table must not be nil")
	}
	flagger, err := impute.NewFlagger(threshold)
	if err != nil {
		return nil, err
	}
	flagged := make(map[string]bool)
	for _, name := range flagger.Identify(t) {
		flagged[name] = true
	}

	rates := flagger.Rates(t)
	r := &Report{
		Rows:      t.Rows(),
		Threshold: threshold,
		Columns:   make([]ColumnMissingness, len(rates)),
	}
	for i, mr := range rates {
		r.Columns[i] = ColumnMissingness{
			Column:  mr.Column,
			Missing: mr.Missing,
			Rate:    mr.Rate,
			Flagged: flagged[mr.Column],
		}
	}
	sort.SliceStable(r.Columns, func(i, j int) bool {
		a, b := r.Columns[i], r.Columns[j]
		if a.Rate != b.Rate {
			return a.Rate > b.Rate
		}
		return a.Column < b.Column
	})
	return r, nil
}

// Flagged returns the names of flagged columns in report order.
func (r *Report) Flagged() []string {
	var out []string
	for _, c := range r.Columns {
		if c.Flagged {
			out = append(out, c.Column)
		}
	}
	return out
}

// Incomplete returns the columns with at least one null.
func (r *Report) Incomplete() []ColumnMissingness {
	var out []ColumnMissingness
	for _, c := range r.Columns {
		if c.Missing > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Render writes the report as an aligned text table. Complete columns are
// omitted unless all is set.
func (r *Report) Render(w io.Writer, all bool) error {
	if _, err := fmt.Fprintf(w, "rows: %d  threshold: %.2f\n", r.Rows, r.Threshold); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tMISSING\tRATE\tFLAGGED")
	for _, c := range r.Columns {
		if !all && c.Missing == 0 {
			continue
		}
		mark := ""
		if c.Flagged {
			mark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t%s\n", c.Column, c.Missing, c.Rate*100, mark)
	}
	return tw.Flush()
}

// SavePlot writes a bar chart of the missing rates of incomplete columns to
// path. The image format follows the extension (.png, .svg, .pdf). A
// horizontal line marks the threshold.
func (r *Report) SavePlot(path string) error {
	cols := r.Incomplete()
	if len(cols) == 0 {
		return errors.NewModelError("report.SavePlot", "no missing values to plot", errors.ErrEmptyData)
	}

	values := make(plotter.Values, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		values[i] = c.Rate * 100
		names[i] = c.Column
	}

	p := plot.New()
	p.Title.Text = "Missing values by column"
	p.Y.Label.Text = "missing (%)"
	p.Y.Min = 0
	p.Y.Max = 100

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return errors.Wrap(err, "failed to build bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -1

	line, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: r.Threshold * 100},
		{X: float64(len(cols)) - 0.5, Y: r.Threshold * 100},
	})
	if err != nil {
		return errors.Wrap(err, "failed to build threshold line")
	}
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("threshold %.0f%%", r.Threshold*100), line)

	width := vg.Length(len(cols))*vg.Points(24) + 2*vg.Inch
	if width < 6*vg.Inch {
		width = 6 * vg.Inch
	}
	if err := p.Save(width, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", path)
	}
	return nil
}
