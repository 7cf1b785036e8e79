package reports

import (
	"errors"
	"fmt"
	"strings"

	"github.com/worklog-hq/worklog/internal/models"
	"github.com/worklog-hq/worklog/internal/timesheet"
)

const (
	maxProjectNameLength     = 200
	maxTaskDescriptionLength = 2000
	maxNotesLength           = 2000
)

// NormalizeDate validates a report date and returns it in canonical
// storage form. Both ISO and US input forms are accepted.
func NormalizeDate(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", errors.New("date is required")
	}
	day, ok := timesheet.ParseDay(strings.TrimSpace(s))
	if !ok {
		return "", errors.New("date must be YYYY-MM-DD or MM/DD/YYYY")
	}
	return day.Format(models.DayFormat), nil
}

// ValidateProjectName validates the project name field.
func ValidateProjectName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("project name is required")
	}
	if len(name) > maxProjectNameLength {
		return fmt.Errorf("project name must be at most %d characters", maxProjectNameLength)
	}
	return nil
}

// ValidateTaskDescription validates the task description field.
func ValidateTaskDescription(desc string) error {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return errors.New("task description is required")
	}
	if len(desc) > maxTaskDescriptionLength {
		return fmt.Errorf("task description must be at most %d characters", maxTaskDescriptionLength)
	}
	return nil
}

// ValidateHours validates the hours field.
func ValidateHours(hours float64) error {
	if !(hours > 0) {
		return errors.New("hours must be greater than zero")
	}
	return nil
}

// ValidateNotes validates the optional notes field.
func ValidateNotes(notes string) error {
	if len(notes) > maxNotesLength {
		return fmt.Errorf("notes must be at most %d characters", maxNotesLength)
	}
	return nil
}
