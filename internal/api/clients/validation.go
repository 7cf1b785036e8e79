// Package clients provides client registry API endpoints.
package clients

import (
	"strings"

	"github.com/worklog-hq/worklog/internal/models"
)

// ValidationError contains validation error details.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateName validates a client display name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "client name is required"}
	}
	if len(name) > 200 {
		return &ValidationError{Field: "name", Message: "client name must be at most 200 characters"}
	}
	// The slug is what reports reference, so the name must contain at
	// least one sluggable character.
	if models.Slugify(name) == "" {
		return &ValidationError{Field: "name", Message: "client name must contain at least one letter or digit"}
	}
	return nil
}
