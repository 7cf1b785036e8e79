package timesheet

import (
	"reflect"
	"testing"

	"github.com/worklog-hq/worklog/internal/models"
)

func TestAnnotate_ResolvesAndFallsBack(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 1),
		report("bob", "Bob Smith", "gone-client", "Beta", "2024-01-11", 1),
	}
	clients := []*models.Client{
		{ID: "c1", Name: "Acme Corp", Slug: "acme"},
	}

	annotated := Annotate(reports, clients)
	if annotated[0].DisplayClientName != "Acme Corp" {
		t.Errorf("display = %q, want Acme Corp", annotated[0].DisplayClientName)
	}
	// Dangling reference falls back to the raw slug
	if annotated[1].DisplayClientName != "gone-client" {
		t.Errorf("display = %q, want gone-client", annotated[1].DisplayClientName)
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2024-02-15", "2024-02-15", true},
		{"02/15/2024", "2024-02-15", true},
		{"", "", false},
		{"not-a-date", "", false},
		{"15-02-2024", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDay(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDay(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got.Format(models.DayFormat) != tt.want {
			t.Errorf("ParseDay(%q) = %s, want %s", tt.input, got.Format(models.DayFormat), tt.want)
		}
	}
}

func TestFilterApply_EmptyFilterIsIdentity(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 1),
		report("alice", "Alice Jones", "globex", "Beta", "2024-01-11", 1),
	}

	got := Filter{}.Apply(admin(), reports)
	if !reflect.DeepEqual(got, reports) {
		t.Errorf("empty filter should return all reports in store order")
	}
}

func TestFilterApply_ClientAndProjectExactMatch(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 1),
		report("bob", "Bob Smith", "acme", "Alphabet", "2024-01-11", 1),
		report("bob", "Bob Smith", "globex", "Alpha", "2024-01-12", 1),
	}

	got := Filter{ClientSlug: "acme", ProjectName: "Alpha"}.Apply(admin(), reports)
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1", len(got))
	}
	if got[0].Date != "2024-01-10" {
		t.Errorf("matched %s", got[0].Date)
	}
}

func TestFilterApply_EmployeeFilterAdminOnly(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 1),
		report("alice", "Alice Jones", "acme", "Alpha", "2024-01-11", 1),
	}

	got := Filter{EmployeeUsername: "alice"}.Apply(admin(), reports)
	if len(got) != 1 || got[0].EmployeeUsername != "alice" {
		t.Errorf("admin employee filter should select alice, got %d", len(got))
	}

	// Employee callers have the employee predicate force-disabled; they
	// are already scoped to their own reports upstream.
	bob := employee("bob", "Bob Smith")
	got = Filter{EmployeeUsername: "alice"}.Apply(bob, reports)
	if len(got) != 2 {
		t.Errorf("employee filter should be ignored for employee callers, got %d", len(got))
	}
}

func TestFilterApply_DateRangeInclusive(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-31", 1),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-02-15", 1),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-03-01", 1),
	}

	got := Filter{StartDate: "2024-02-01", EndDate: "2024-02-29"}.Apply(admin(), reports)
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1", len(got))
	}
	if got[0].Date != "2024-02-15" {
		t.Errorf("matched %s, want 2024-02-15", got[0].Date)
	}
}

func TestFilterApply_BoundsAreInclusive(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-02-01", 1),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-02-29", 1),
	}

	got := Filter{StartDate: "2024-02-01", EndDate: "2024-02-29"}.Apply(admin(), reports)
	if len(got) != 2 {
		t.Errorf("boundary dates should pass, got %d", len(got))
	}
}

func TestFilterApply_MalformedDateTreatedAsAbsent(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-31", 1),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-02-15", 1),
	}

	got := Filter{StartDate: "not-a-date"}.Apply(admin(), reports)
	if len(got) != 2 {
		t.Errorf("malformed start date should exclude nothing, got %d", len(got))
	}

	got = Filter{StartDate: "not-a-date", EndDate: "2024-02-01"}.Apply(admin(), reports)
	if len(got) != 1 {
		t.Errorf("valid end bound should still apply, got %d", len(got))
	}
}

func TestFilterApply_USDateFormatAccepted(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-02-15", 1),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-03-15", 1),
	}

	got := Filter{StartDate: "03/01/2024"}.Apply(admin(), reports)
	if len(got) != 1 || got[0].Date != "2024-03-15" {
		t.Errorf("US format start bound should apply, got %d", len(got))
	}
}

func TestFilterApply_PreservesStoreOrder(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Zulu", "2024-01-12", 1),
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 1),
		report("bob", "Bob Smith", "acme", "Mike", "2024-01-11", 1),
	}

	got := Filter{ClientSlug: "acme"}.Apply(admin(), reports)
	if len(got) != 3 {
		t.Fatalf("matches = %d, want 3", len(got))
	}
	for i, r := range got {
		if r != reports[i] {
			t.Errorf("row %d out of store order", i)
		}
	}
}
