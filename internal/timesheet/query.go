package timesheet

import (
	"time"

	"github.com/worklog-hq/worklog/internal/models"
)

// AnnotatedReport is a report joined with its client's display name at
// read time. A dangling client reference falls back to the raw slug.
type AnnotatedReport struct {
	models.Report
	DisplayClientName string `json:"display_client_name"`
}

// Annotate resolves the client display label for each report.
func Annotate(reports []*models.Report, clients []*models.Client) []*AnnotatedReport {
	bySlug := make(map[string]string, len(clients))
	for _, c := range clients {
		bySlug[c.Slug] = c.Name
	}

	annotated := make([]*AnnotatedReport, len(reports))
	for i, r := range reports {
		label, ok := bySlug[r.ClientSlug]
		if !ok {
			label = r.ClientSlug
		}
		annotated[i] = &AnnotatedReport{Report: *r, DisplayClientName: label}
	}
	return annotated
}

// dayFormats are the accepted input formats for filter dates, tried in
// order: ISO, then US.
var dayFormats = []string{"2006-01-02", "01/02/2006"}

// ParseDay parses a calendar date permissively. The second return value
// is false for empty or malformed input; callers treat that as "no
// bound" rather than an error.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Filter holds the caller-selected filter values. Every field is
// optional; an empty value means the predicate always passes.
type Filter struct {
	ClientSlug       string
	ProjectName      string
	EmployeeUsername string
	StartDate        string
	EndDate          string
}

// Apply filters the reports with a conjunction of the set predicates.
// The employee predicate is force-disabled for employee callers, who
// already see only their own reports. Dates are compared as calendar
// dates, bounds inclusive; malformed date strings act as absent bounds.
func (f Filter) Apply(user *models.User, reports []*models.Report) []*models.Report {
	start, hasStart := ParseDay(f.StartDate)
	end, hasEnd := ParseDay(f.EndDate)

	filterEmployee := f.EmployeeUsername != "" && user.IsAdmin()

	out := make([]*models.Report, 0, len(reports))
	for _, r := range reports {
		if f.ClientSlug != "" && r.ClientSlug != f.ClientSlug {
			continue
		}
		if f.ProjectName != "" && r.ProjectName != f.ProjectName {
			continue
		}
		if filterEmployee && r.EmployeeUsername != f.EmployeeUsername {
			continue
		}
		if hasStart || hasEnd {
			day := r.Day()
			if day.IsZero() {
				continue
			}
			if hasStart && day.Before(start) {
				continue
			}
			if hasEnd && day.After(end) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// IsZero reports whether no filter value is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}
