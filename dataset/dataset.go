// Package dataset reads and writes applicant tables as CSV or XLSX files.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/pkg/log"
)

// Supported file formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat is returned for file extensions other than .csv and .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
}

// Load reads the file at path, choosing the reader from its extension.
func Load(path string) (*table.Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	var t *table.Table
	switch format {
	case FormatCSV:
		t, err = LoadCSV(path)
	case FormatXLSX:
		t, err = LoadXLSX(path)
	}
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("dataset").Info("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.SamplesKey, t.Rows(),
		log.FeaturesKey, t.Width(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return t, nil
}

// LoadCSV reads a CSV file whose first row is the header.
func LoadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads CSV records from r. Cells are typed with table.Parse, so
// empty cells and NA markers become null.
func ReadCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV")
	}
	return fromRows(records)
}

// LoadXLSX reads the first sheet of an Excel workbook.
func LoadXLSX(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewModelError("dataset.LoadXLSX", "workbook has no sheets", errors.ErrEmptyData)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, errors.NewModelError("dataset.Load", "file has no header row", errors.ErrEmptyData)
	}
	for i, h := range rows[0] {
		rows[0][i] = strings.TrimSpace(h)
	}
	return table.FromRecords(rows)
}

// Write stores t at path in the format implied by its extension.
func Write(path string, t *table.Table) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		err = WriteXLSX(path, t)
	default:
		err = WriteCSV(path, t)
	}
	if err != nil {
		return err
	}
	log.GetLoggerWithName("dataset").Info("Dataset written",
		log.OperationKey, log.OperationWrite,
		log.PathKey, path,
		log.SamplesKey, t.Rows(),
		log.FeaturesKey, t.Width(),
	)
	return nil
}

// WriteCSV stores t as a CSV file. Nulls are written as empty cells.
func WriteCSV(path string, t *table.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create CSV file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close CSV file")
		}
	}()
	return EncodeCSV(f, t)
}

// EncodeCSV writes t to w as CSV.
func EncodeCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return errors.Wrap(err, "failed to write CSV")
	}
	return nil
}

// WriteXLSX stores t in the first sheet of a new workbook. Numbers are
// written as numeric cells and nulls are left blank.
func WriteXLSX(path string, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, t.Width())
	for j, name := range t.Names() {
		header[j] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	cols := t.Columns()
	for i := 0; i < t.Rows(); i++ {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			v := c.Values[i]
			switch v.Kind {
			case table.KindNull:
				row[j] = nil
			case table.KindNumber:
				row[j] = v.Num
			default:
				row[j] = v.String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "failed to address row")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+1)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "failed to save Excel file")
	}
	return nil
}
