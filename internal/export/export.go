// Package export serializes abstract export tables to downloadable
// document formats. The table structure and styling hints come from the
// timesheet package; this package only turns them into bytes.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/worklog-hq/worklog/internal/timesheet"
)

// Format defines the output format for exports.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat parses a string to Format. An empty string maps to the
// default xlsx format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "", "xlsx":
		return FormatXLSX, true
	case "csv":
		return FormatCSV, true
	default:
		return "", false
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Writer serializes export tables in the configured format.
type Writer struct {
	format Format
	writer io.Writer
}

// NewWriter creates a writer for the given format.
func NewWriter(format Format, w io.Writer) *Writer {
	return &Writer{
		format: format,
		writer: w,
	}
}

// WriteTable serializes the table in the configured format.
func (w *Writer) WriteTable(table *timesheet.Table) error {
	switch w.format {
	case FormatCSV:
		return writeCSV(w.writer, table)
	default:
		return writeXLSX(w.writer, table)
	}
}

// Filename builds the download filename for an export produced now,
// e.g. "workbook-reports-2024-01-02.xlsx".
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("workbook-reports-%s.%s", now.Format("2006-01-02"), format)
}
