package timesheet

import (
	"strconv"
	"testing"

	"github.com/worklog-hq/worklog/internal/models"
)

func annotated(reports ...*models.Report) []*AnnotatedReport {
	clients := []*models.Client{
		{ID: "c1", Name: "Acme Corp", Slug: "acme"},
		{ID: "c2", Name: "Globex", Slug: "globex"},
	}
	return Annotate(reports, clients)
}

func TestParseExportMode(t *testing.T) {
	tests := []struct {
		input string
		want  ExportMode
		ok    bool
	}{
		{"", ModeGrouped, true},
		{"grouped", ModeGrouped, true},
		{"flat", ModeFlat, true},
		{"csv", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseExportMode(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseExportMode(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

// Mirrors the reference grouping scenario: Alpha(2.5 + 1.5) then
// Beta(3), grand total 7.00.
func TestBuildGrouped_GroupsAndTotals(t *testing.T) {
	reports := annotated(
		report("bob", "Bob Smith", "acme", "Beta", "2024-01-05", 3),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-12", 1.5),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 2.5),
	)

	table := BuildGrouped(reports)

	wantHeaders := []string{"Date", "Project", "Task Description", "Hours", "Notes"}
	if len(table.Headers) != 5 {
		t.Fatalf("headers = %d, want 5", len(table.Headers))
	}
	for i, h := range wantHeaders {
		if table.Headers[i] != h {
			t.Errorf("header[%d] = %q, want %q", i, table.Headers[i], h)
		}
	}

	// 3 data rows + 2 group totals + 2 blanks + grand total
	if len(table.Rows) != 8 {
		t.Fatalf("rows = %d, want 8", len(table.Rows))
	}

	// Alpha group first, sorted by date ascending within the group
	if table.Rows[0].Cells[1] != "Alpha" || table.Rows[0].Cells[0] != "10-01-2024" {
		t.Errorf("row 0 = %v", table.Rows[0].Cells)
	}
	if table.Rows[1].Cells[1] != "Alpha" || table.Rows[1].Cells[0] != "12-01-2024" {
		t.Errorf("row 1 = %v", table.Rows[1].Cells)
	}

	// Alpha subtotal
	if table.Rows[2].Style != StyleTotal || table.Rows[2].Cells[2] != TotalLabel || table.Rows[2].Cells[3] != "4.00" {
		t.Errorf("alpha total row = %v (style %d)", table.Rows[2].Cells, table.Rows[2].Style)
	}
	if table.Rows[3].Style != StyleBlank {
		t.Errorf("row 3 should be blank separator")
	}

	// Beta group
	if table.Rows[4].Cells[1] != "Beta" {
		t.Errorf("row 4 = %v", table.Rows[4].Cells)
	}
	if table.Rows[5].Cells[3] != "3.00" || table.Rows[5].Style != StyleTotal {
		t.Errorf("beta total row = %v", table.Rows[5].Cells)
	}

	// Grand total
	last := table.Rows[len(table.Rows)-1]
	if last.Style != StyleGrandTotal || last.Cells[2] != GrandTotalLabel || last.Cells[3] != "7.00" {
		t.Errorf("grand total row = %v (style %d)", last.Cells, last.Style)
	}
}

func TestBuildGrouped_SubtotalsSumToGrandTotal(t *testing.T) {
	reports := annotated(
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 1.333),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-11", 2.333),
		report("bob", "Bob Smith", "acme", "Beta", "2024-01-12", 0.125),
		report("bob", "Bob Smith", "acme", "Gamma", "2024-01-13", 4.005),
	)

	table := BuildGrouped(reports)

	var subtotalSum float64
	var grandTotal float64
	for _, row := range table.Rows {
		switch row.Style {
		case StyleTotal:
			v, err := strconv.ParseFloat(row.Cells[3], 64)
			if err != nil {
				t.Fatalf("parse subtotal %q: %v", row.Cells[3], err)
			}
			subtotalSum += v
		case StyleGrandTotal:
			v, err := strconv.ParseFloat(row.Cells[3], 64)
			if err != nil {
				t.Fatalf("parse grand total %q: %v", row.Cells[3], err)
			}
			grandTotal = v
		}
	}

	// Grand total is the sum of rounded subtotals, exactly.
	if round2(subtotalSum) != grandTotal {
		t.Errorf("sum(subtotals) = %v, grand total = %v", subtotalSum, grandTotal)
	}
}

func TestBuildGrouped_EmptyInput(t *testing.T) {
	table := BuildGrouped(nil)
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want just the grand total", len(table.Rows))
	}
	if table.Rows[0].Cells[3] != "0.00" {
		t.Errorf("grand total = %q, want 0.00", table.Rows[0].Cells[3])
	}
}

func TestBuildGrouped_SingleProjectTrailingTotal(t *testing.T) {
	reports := annotated(
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 2),
	)

	table := BuildGrouped(reports)
	// data + total + blank + grand total
	if len(table.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(table.Rows))
	}
	if table.Rows[1].Cells[3] != "2.00" || table.Rows[1].Style != StyleTotal {
		t.Errorf("trailing group total missing: %v", table.Rows[1].Cells)
	}
}

func TestBuildFlat_IncludesEmployeeAndClient(t *testing.T) {
	reports := annotated(
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 2.5),
		report("alice", "Alice Jones", "globex", "Beta", "2024-01-05", 3),
	)

	table := BuildFlat(reports)

	if len(table.Headers) != 7 {
		t.Fatalf("headers = %d, want 7", len(table.Headers))
	}
	if table.Headers[1] != "Employee" || table.Headers[2] != "Client" {
		t.Errorf("headers = %v", table.Headers)
	}

	// Store order preserved, no grouping
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}
	if table.Rows[0].Cells[1] != "Bob Smith" || table.Rows[0].Cells[2] != "Acme Corp" {
		t.Errorf("row 0 = %v", table.Rows[0].Cells)
	}
	if table.Rows[1].Cells[2] != "Globex" {
		t.Errorf("row 1 = %v", table.Rows[1].Cells)
	}

	last := table.Rows[2]
	if last.Style != StyleGrandTotal || last.Cells[5] != "5.50" {
		t.Errorf("total row = %v", last.Cells)
	}
}

func TestFormatDisplayDay(t *testing.T) {
	if got := formatDisplayDay("2024-01-05"); got != "05-01-2024" {
		t.Errorf("formatDisplayDay = %q, want 05-01-2024", got)
	}
	// Unparseable dates pass through untouched
	if got := formatDisplayDay("garbage"); got != "garbage" {
		t.Errorf("formatDisplayDay = %q, want garbage", got)
	}
}
