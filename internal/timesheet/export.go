package timesheet

import (
	"math"
	"sort"
	"strconv"
)

// ExportMode selects the shape of the export document.
type ExportMode string

const (
	// ModeGrouped is the default export: rows grouped by project with
	// per-project subtotals and a grand total.
	ModeGrouped ExportMode = "grouped"
	// ModeFlat is the legacy export: one row per report including
	// employee and client columns, with a single trailing total.
	ModeFlat ExportMode = "flat"
)

// ParseExportMode parses a string to ExportMode. An empty string maps
// to the default grouped mode.
func ParseExportMode(s string) (ExportMode, bool) {
	switch s {
	case "", "grouped":
		return ModeGrouped, true
	case "flat":
		return ModeFlat, true
	default:
		return "", false
	}
}

// RowStyle is a styling hint for document writers. The core describes
// the table abstractly; turning hints into cell formatting is the
// writer's job.
type RowStyle int

const (
	StyleData RowStyle = iota
	StyleBlank
	StyleTotal
	StyleGrandTotal
)

// Row is one row of an export document.
type Row struct {
	Cells []string
	Style RowStyle
}

// Table is the abstract tabular document produced by the export
// aggregator. The header row carries its own styling hint implicitly.
type Table struct {
	Headers      []string
	ColumnWidths []float64
	Rows         []Row
}

// TotalLabel and GrandTotalLabel are the fixed labels on subtotal rows.
const (
	TotalLabel      = "Total Hours"
	GrandTotalLabel = "Grand Total Hours"
)

// displayDayFormat is the human date form used in exports: day-month-year.
const displayDayFormat = "02-01-2006"

func formatDisplayDay(date string) string {
	day, ok := ParseDay(date)
	if !ok {
		return date
	}
	return day.Format(displayDayFormat)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatHours(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', 2, 64)
}

// sortForExport orders reports by project name ascending, then date
// ascending, the canonical grouping order.
func sortForExport(reports []*AnnotatedReport) []*AnnotatedReport {
	sorted := make([]*AnnotatedReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ProjectName != sorted[j].ProjectName {
			return sorted[i].ProjectName < sorted[j].ProjectName
		}
		return sorted[i].Day().Before(sorted[j].Day())
	})
	return sorted
}

// BuildGrouped builds the grouped export document: reports sorted by
// (project, date), a Total Hours row plus a blank separator after each
// project group, and a final Grand Total Hours row.
//
// Rounding policy: each subtotal is rounded to 2 decimals and the grand
// total is the sum of the rounded subtotals, so the invariant
// sum(subtotals) == grand total holds exactly. The grand total may
// therefore differ from the sum of raw hours by at most a cent per
// group.
func BuildGrouped(reports []*AnnotatedReport) *Table {
	table := &Table{
		Headers:      []string{"Date", "Project", "Task Description", "Hours", "Notes"},
		ColumnWidths: []float64{12, 25, 60, 12, 40},
	}

	sorted := sortForExport(reports)

	currentProject := ""
	inGroup := false
	projectTotal := 0.0
	grandTotal := 0.0

	flushGroup := func() {
		subtotal := round2(projectTotal)
		grandTotal += subtotal
		table.Rows = append(table.Rows,
			Row{Cells: []string{"", "", TotalLabel, formatHours(subtotal), ""}, Style: StyleTotal},
			Row{Cells: []string{"", "", "", "", ""}, Style: StyleBlank},
		)
	}

	for _, r := range sorted {
		if !inGroup || r.ProjectName != currentProject {
			if inGroup {
				flushGroup()
			}
			currentProject = r.ProjectName
			projectTotal = 0
			inGroup = true
		}
		projectTotal += r.Hours
		table.Rows = append(table.Rows, Row{
			Cells: []string{
				formatDisplayDay(r.Date),
				r.ProjectName,
				r.TaskDescription,
				formatHours(r.Hours),
				r.Notes,
			},
			Style: StyleData,
		})
	}
	if inGroup {
		flushGroup()
	}

	table.Rows = append(table.Rows, Row{
		Cells: []string{"", "", GrandTotalLabel, formatHours(grandTotal), ""},
		Style: StyleGrandTotal,
	})

	return table
}

// BuildFlat builds the legacy flat export: every report as one row with
// employee and client columns, store order preserved, one trailing
// total row and no per-project grouping.
func BuildFlat(reports []*AnnotatedReport) *Table {
	table := &Table{
		Headers:      []string{"Date", "Employee", "Client", "Project", "Task Description", "Hours", "Notes"},
		ColumnWidths: []float64{12, 20, 20, 25, 60, 12, 40},
	}

	total := 0.0
	for _, r := range reports {
		total += r.Hours
		table.Rows = append(table.Rows, Row{
			Cells: []string{
				formatDisplayDay(r.Date),
				r.EmployeeDisplayName,
				r.DisplayClientName,
				r.ProjectName,
				r.TaskDescription,
				formatHours(r.Hours),
				r.Notes,
			},
			Style: StyleData,
		})
	}

	table.Rows = append(table.Rows, Row{
		Cells: []string{"", "", "", "", TotalLabel, formatHours(total), ""},
		Style: StyleGrandTotal,
	})

	return table
}
