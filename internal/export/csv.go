package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"docextract/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// fieldColumns defines the header row shared by the CSV and XLSX field tables.
var fieldColumns = []string{
	"Document",
	"Doc Type",
	"Field",
	"Value",
	"Confidence",
	"Page",
	"BBox X0",
	"BBox Y0",
	"BBox X1",
	"BBox Y1",
}

// CSVWriter wraps csv.Writer for exporting confidence reports as CSV, one
// row per scored field.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(fieldColumns)
}

// WriteReport writes one row per field of the report. Reports with no
// fields still get a single row so the document shows up in the export.
func (w *CSVWriter) WriteReport(name string, report *domain.DocumentConfidenceReport) error {
	for _, row := range fieldRows(name, report) {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func fieldRows(name string, report *domain.DocumentConfidenceReport) [][]string {
	if len(report.Fields) == 0 {
		row := make([]string, len(fieldColumns))
		row[0] = name
		row[1] = report.DocType
		return [][]string{row}
	}

	rows := make([][]string, 0, len(report.Fields))
	for _, f := range report.Fields {
		row := make([]string, len(fieldColumns))
		row[0] = name
		row[1] = report.DocType
		row[2] = f.Name
		row[3] = f.Value
		row[4] = formatFloat(f.Confidence)
		if f.Source != nil {
			row[5] = strconv.Itoa(f.Source.Page)
			for i, v := range f.Source.BBox {
				row[6+i] = formatFloat(v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
