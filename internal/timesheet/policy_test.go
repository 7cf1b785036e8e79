package timesheet

import (
	"testing"

	"github.com/worklog-hq/worklog/internal/models"
)

func employee(username, displayName string) *models.User {
	return &models.User{ID: "id-" + username, Username: username, DisplayName: displayName, Role: models.RoleEmployee}
}

func admin() *models.User {
	return &models.User{ID: "id-admin", Username: "admin", DisplayName: "Administrator", Role: models.RoleAdmin}
}

func report(username, displayName, slug, project, date string, hours float64) *models.Report {
	return &models.Report{
		ID:                  username + "-" + project + "-" + date,
		Date:                date,
		EmployeeUsername:    username,
		EmployeeDisplayName: displayName,
		ClientSlug:          slug,
		ProjectName:         project,
		TaskDescription:     "work on " + project,
		Hours:               hours,
	}
}

func TestCanView_EmployeeOwnershipOnly(t *testing.T) {
	bob := employee("bob", "Bob Smith")
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 2),
		report("alice", "Alice Jones", "acme", "Alpha", "2024-01-10", 3),
	}

	for _, r := range reports {
		want := r.EmployeeUsername == bob.Username
		if got := CanView(bob, r); got != want {
			t.Errorf("CanView(bob, %s) = %v, want %v", r.ID, got, want)
		}
		if got := CanMutate(bob, r); got != want {
			t.Errorf("CanMutate(bob, %s) = %v, want %v", r.ID, got, want)
		}
	}
}

func TestCanView_AdminSeesEverything(t *testing.T) {
	a := admin()
	r := report("alice", "Alice Jones", "acme", "Alpha", "2024-01-10", 3)
	if !CanView(a, r) {
		t.Error("admin should view any report")
	}
	if !CanMutate(a, r) {
		t.Error("admin should mutate any report")
	}
}

func TestApplyAttribution_EmployeeForged(t *testing.T) {
	bob := employee("bob", "Bob Smith")
	r := report("alice", "Alice Jones", "acme", "Alpha", "2024-01-10", 2)

	ApplyAttribution(bob, r)

	if r.EmployeeUsername != "bob" {
		t.Errorf("username = %q, want bob", r.EmployeeUsername)
	}
	if r.EmployeeDisplayName != "Bob Smith" {
		t.Errorf("display name = %q, want Bob Smith", r.EmployeeDisplayName)
	}
}

func TestApplyAttribution_AdminKeepsRequested(t *testing.T) {
	a := admin()
	r := report("alice", "Alice Jones", "acme", "Alpha", "2024-01-10", 2)

	ApplyAttribution(a, r)

	if r.EmployeeUsername != "alice" {
		t.Errorf("username = %q, want alice", r.EmployeeUsername)
	}
}

func TestVisible_EmployeeSubset(t *testing.T) {
	bob := employee("bob", "Bob Smith")
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 1),
		report("alice", "Alice Jones", "acme", "Alpha", "2024-01-10", 1),
		report("bob", "Bob Smith", "acme", "Beta", "2024-01-11", 1),
		report("alice", "Alice Jones", "acme", "Beta", "2024-01-11", 1),
		report("bob", "Bob Smith", "globex", "Gamma", "2024-01-12", 1),
	}

	visible := Visible(bob, reports)
	if len(visible) != 3 {
		t.Fatalf("visible = %d, want 3", len(visible))
	}
	for _, r := range visible {
		if r.EmployeeUsername != "bob" {
			t.Errorf("visible report %s attributed to %s", r.ID, r.EmployeeUsername)
		}
	}
}

func TestVisible_AdminGetsAll(t *testing.T) {
	reports := []*models.Report{
		report("bob", "Bob Smith", "acme", "Alpha", "2024-01-10", 1),
		report("alice", "Alice Jones", "acme", "Alpha", "2024-01-10", 1),
	}
	if got := Visible(admin(), reports); len(got) != 2 {
		t.Errorf("visible = %d, want 2", len(got))
	}
}
