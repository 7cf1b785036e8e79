package models

import (
	"time"
)

// DayFormat is the canonical storage format for report dates. Reports
// carry calendar dates only, never times, to keep date comparisons free
// of timezone skew.
const DayFormat = "2006-01-02"

// Report represents a single timesheet entry. Employee and client are
// referenced by stable keys (username, slug); display labels are
// resolved at read time.
type Report struct {
	ID                  string    `json:"id"`
	Date                string    `json:"date"` // YYYY-MM-DD
	EmployeeDisplayName string    `json:"employee_display_name"`
	EmployeeUsername    string    `json:"employee_username"`
	ClientSlug          string    `json:"client_slug"`
	ProjectName         string    `json:"project_name"`
	TaskDescription     string    `json:"task_description"`
	Hours               float64   `json:"hours"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Day returns the report date as a time.Time at midnight UTC.
// A zero time is returned for unparseable dates.
func (r *Report) Day() time.Time {
	t, err := time.Parse(DayFormat, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// OwnedBy returns true if the report is attributed to the given username.
func (r *Report) OwnedBy(username string) bool {
	return r.EmployeeUsername == username
}
