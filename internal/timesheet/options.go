package timesheet

import (
	"sort"

	"github.com/worklog-hq/worklog/internal/models"
)

// EmployeeOption is one entry for a cascading employee filter dropdown.
type EmployeeOption struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// ProjectsForClient returns the distinct project names among the
// caller's visible reports for the given client. An empty slug means no
// client constraint. The result is sorted and never nil; calling twice
// against the same snapshot yields the same set.
func ProjectsForClient(user *models.User, reports []*models.Report, clientSlug string) []string {
	seen := make(map[string]struct{})
	for _, r := range Visible(user, reports) {
		if clientSlug != "" && r.ClientSlug != clientSlug {
			continue
		}
		seen[r.ProjectName] = struct{}{}
	}

	projects := make([]string, 0, len(seen))
	for name := range seen {
		projects = append(projects, name)
	}
	sort.Strings(projects)
	return projects
}

// EmployeesForProject returns the distinct employees among the caller's
// visible reports matching the project (and client, if given), resolved
// to display identities. No matches yields an empty slice, not an error.
func EmployeesForProject(user *models.User, reports []*models.Report, clientSlug, projectName string) []EmployeeOption {
	seen := make(map[string]string)
	for _, r := range Visible(user, reports) {
		if clientSlug != "" && r.ClientSlug != clientSlug {
			continue
		}
		if projectName != "" && r.ProjectName != projectName {
			continue
		}
		seen[r.EmployeeUsername] = r.EmployeeDisplayName
	}

	options := make([]EmployeeOption, 0, len(seen))
	for username, displayName := range seen {
		options = append(options, EmployeeOption{Username: username, DisplayName: displayName})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].DisplayName != options[j].DisplayName {
			return options[i].DisplayName < options[j].DisplayName
		}
		return options[i].Username < options[j].Username
	})
	return options
}
