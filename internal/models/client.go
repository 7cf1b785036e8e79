package models

import (
	"regexp"
	"strings"
	"time"
)

// Client represents a billable client. The Name is the human display
// label; the Slug is the stable identifier reports reference, so a
// client can be renamed without rewriting report history.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClient creates a new Client with initialized timestamps.
// An empty slug is derived from the name.
func NewClient(name, slug string) *Client {
	if slug == "" {
		slug = Slugify(name)
	}
	now := time.Now()
	return &Client{
		Name:      strings.TrimSpace(name),
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

var slugRunRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable slug from a display name: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, leading and
// trailing hyphens trimmed.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
