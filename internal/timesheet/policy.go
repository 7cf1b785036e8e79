// Package timesheet implements the report visibility, filtering, and
// export pipeline. All functions are pure computations over an
// in-memory snapshot; fetching and persisting reports is the storage
// layer's job.
package timesheet

import (
	"github.com/worklog-hq/worklog/internal/models"
)

// CanView reports whether the user may read the given report. Admins
// see everything; employees see only reports attributed to them.
func CanView(user *models.User, report *models.Report) bool {
	if user.IsAdmin() {
		return true
	}
	return report.OwnedBy(user.Username)
}

// CanMutate reports whether the user may modify or delete the given
// report. The ownership rule is identical to CanView.
func CanMutate(user *models.User, report *models.Report) bool {
	return CanView(user, report)
}

// ApplyAttribution enforces report attribution on create and update.
// Employee callers always have the attribution overwritten with their
// own identity, regardless of what the request carried; only admins may
// attribute a report to someone else.
func ApplyAttribution(user *models.User, report *models.Report) {
	if user.IsAdmin() {
		return
	}
	report.EmployeeUsername = user.Username
	report.EmployeeDisplayName = user.DisplayName
}

// Visible returns the subset of reports the user may read, preserving
// store order.
func Visible(user *models.User, reports []*models.Report) []*models.Report {
	if user.IsAdmin() {
		return reports
	}
	visible := make([]*models.Report, 0, len(reports))
	for _, r := range reports {
		if CanView(user, r) {
			visible = append(visible, r)
		}
	}
	return visible
}
