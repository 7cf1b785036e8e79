package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/worklog-hq/worklog/internal/timesheet"
)

func sampleTable() *timesheet.Table {
	return &timesheet.Table{
		Headers:      []string{"Date", "Project", "Task Description", "Hours", "Notes"},
		ColumnWidths: []float64{12, 25, 60, 12, 40},
		Rows: []timesheet.Row{
			{Cells: []string{"10-01-2024", "Alpha", "build", "2.50", ""}, Style: timesheet.StyleData},
			{Cells: []string{"", "", "Total Hours", "2.50", ""}, Style: timesheet.StyleTotal},
			{Cells: []string{"", "", "", "", ""}, Style: timesheet.StyleBlank},
			{Cells: []string{"", "", "Grand Total Hours", "2.50", ""}, Style: timesheet.StyleGrandTotal},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
		ok    bool
	}{
		{"", FormatXLSX, true},
		{"xlsx", FormatXLSX, true},
		{"csv", FormatCSV, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	if got := Filename(FormatXLSX, now); got != "workbook-reports-2024-03-07.xlsx" {
		t.Errorf("filename = %q", got)
	}
	if got := Filename(FormatCSV, now); got != "workbook-reports-2024-03-07.csv" {
		t.Errorf("filename = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatCSV, &buf)
	if err := w.WriteTable(sampleTable()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	// Header + 4 rows
	if len(records) != 5 {
		t.Fatalf("records = %d, want 5", len(records))
	}
	if records[0][0] != "Date" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][3] != "2.50" {
		t.Errorf("data row = %v", records[1])
	}
	if records[4][2] != "Grand Total Hours" {
		t.Errorf("grand total row = %v", records[4])
	}
}

// brokenWriter fails every write, like a full disk or a dropped
// connection.
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteCSV_SurfacesWriteFailure(t *testing.T) {
	w := NewWriter(FormatCSV, brokenWriter{})
	err := w.WriteTable(sampleTable())
	if err == nil {
		t.Fatal("expected error when the underlying writer fails")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want underlying write failure", err)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatXLSX, &buf)
	if err := w.WriteTable(sampleTable()); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}

	if len(rows) < 5 {
		t.Fatalf("rows = %d, want at least 5", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][3] != "Hours" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Alpha" {
		t.Errorf("data row = %v", rows[1])
	}
	if rows[2][2] != "Total Hours" {
		t.Errorf("total row = %v", rows[2])
	}

	got, err := f.GetCellValue(sheetName, "D5")
	if err != nil {
		t.Fatalf("get grand total cell: %v", err)
	}
	if got != "2.50" {
		t.Errorf("grand total = %q, want 2.50", got)
	}
}
