package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/worklog-hq/worklog/internal/timesheet"
)

const sheetName = "Reports"

// Fill colors matching the reference workbook: light green header,
// light grey subtotals, light yellow grand total.
const (
	headerFill     = "C6EFCE"
	totalFill      = "F0F0F0"
	grandTotalFill = "FFF2CC"
)

func boldFilledStyle(f *excelize.File, fill string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Vertical: "center",
		},
	})
}

// writeXLSX serializes the table as a styled spreadsheet.
func writeXLSX(w io.Writer, table *timesheet.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, width := range table.ColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	headerStyle, err := boldFilledStyle(f, headerFill)
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	totalStyle, err := boldFilledStyle(f, totalFill)
	if err != nil {
		return fmt.Errorf("total style: %w", err)
	}
	grandTotalStyle, err := boldFilledStyle(f, grandTotalFill)
	if err != nil {
		return fmt.Errorf("grand total style: %w", err)
	}

	if err := setRow(f, 1, table.Headers); err != nil {
		return err
	}
	if err := styleRow(f, 1, len(table.Headers), headerStyle); err != nil {
		return err
	}

	for i, row := range table.Rows {
		rowNum := i + 2 // 1-indexed, header is row 1
		if err := setRow(f, rowNum, row.Cells); err != nil {
			return err
		}

		switch row.Style {
		case timesheet.StyleTotal:
			if err := styleRow(f, rowNum, len(row.Cells), totalStyle); err != nil {
				return err
			}
		case timesheet.StyleGrandTotal:
			if err := styleRow(f, rowNum, len(row.Cells), grandTotalStyle); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, cells []string) error {
	for i, value := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, rowNum, width int, style int) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(width, rowNum)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStyle(sheetName, start, end, style); err != nil {
		return fmt.Errorf("style row %d: %w", rowNum, err)
	}
	return nil
}
