package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the report header row.
var columns = []string{
	"FileName",
	"DocumentType",
	"TotalFields",
	"MissingFields",
	"FallbackUsed",
	"CompletionRate",
}

// CSVWriter wraps csv.Writer for exporting file reports as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteReports converts the file reports to CSV rows and writes them.
func (w *CSVWriter) WriteReports(reports []FileReport) error {
	for i := range reports {
		if err := w.csv.Write(reportToRow(&reports[i])); err != nil {
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

func reportToRow(r *FileReport) []string {
	return []string{
		r.FileName,
		r.DocumentType,
		strconv.Itoa(r.TotalFields),
		strconv.Itoa(r.MissingFields),
		yesNo(r.FallbackUsed),
		fmt.Sprintf("%.2f%%", r.CompletionRate),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
