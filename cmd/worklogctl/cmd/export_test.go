package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/worklog-hq/worklog/internal/export"
	"github.com/worklog-hq/worklog/internal/timesheet"
)

func exportTestTable() *timesheet.Table {
	return &timesheet.Table{
		Headers:      []string{"Date", "Project", "Task Description", "Hours", "Notes"},
		ColumnWidths: []float64{12, 25, 60, 12, 40},
		Rows: []timesheet.Row{
			{Cells: []string{"04-03-2024", "Website", "frontend", "3.00", ""}, Style: timesheet.StyleData},
		},
	}
}

func TestWriteExportFile_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "reports.csv")

	if err := writeExportFile(path, export.FormatCSV, exportTestTable()); err != nil {
		t.Fatalf("write export file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestWriteExportFile_CreateFailure(t *testing.T) {
	// The target path is an existing directory, so os.Create must fail
	dir := t.TempDir()

	err := writeExportFile(dir, export.FormatCSV, exportTestTable())
	if err == nil {
		t.Fatal("expected error when output path is a directory")
	}
}
