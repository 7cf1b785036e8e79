// Package storage provides database storage interfaces and implementations.
package storage

import (
	"context"

	"github.com/worklog-hq/worklog/internal/models"
)

// Storage is the main interface for database operations.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error
	// EnsureAdminUser creates default admin if no users exist.
	EnsureAdminUser() error

	// Repository accessors
	Users() UserRepository
	Clients() ClientRepository
	Reports() ReportRepository
	Tokens() TokenRepository
}

// UserRepository defines operations for login account management.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.User, error)
	ListEmployees(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// ClientRepository defines operations on the client registry.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetBySlug(ctx context.Context, slug string) (*models.Client, error)
	GetByName(ctx context.Context, name string) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Client, error)
}

// ReportRepository defines operations on the report store.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	List(ctx context.Context) ([]*models.Report, error)
	// ListByEmployee returns only reports attributed to the given
	// username. Visibility scoping for employee callers is pushed down
	// here so it holds even if a handler is bypassed.
	ListByEmployee(ctx context.Context, username string) ([]*models.Report, error)
	CountByClientSlug(ctx context.Context, slug string) (int64, error)
}

// TokenRepository defines operations for refresh token management.
type TokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
