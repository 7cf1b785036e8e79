package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/worklog-hq/worklog/internal/models"
)

type sqliteClientRepo struct {
	db *sql.DB
}

const clientColumns = "id, name, slug, created_at, updated_at"

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	client := &models.Client{}
	err := row.Scan(
		&client.ID, &client.Name, &client.Slug,
		&client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *sqliteClientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		client.ID, client.Name, client.Slug, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *sqliteClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = ?", id)
	client, err := scanClient(row)
	if err == sql.ErrNoRows {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client by id: %w", err)
	}
	return client, nil
}

func (r *sqliteClientRepo) GetBySlug(ctx context.Context, slug string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE slug = ?", slug)
	client, err := scanClient(row)
	if err == sql.ErrNoRows {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client by slug: %w", err)
	}
	return client, nil
}

func (r *sqliteClientRepo) GetByName(ctx context.Context, name string) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE name = ?", name)
	client, err := scanClient(row)
	if err == sql.ErrNoRows {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client by name: %w", err)
	}
	return client, nil
}

func (r *sqliteClientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients SET name = ?, slug = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		client.Name, client.Slug, client.UpdatedAt, client.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("client not found: %s", client.ID)
	}
	return nil
}

func (r *sqliteClientRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("client not found: %s", id)
	}
	return nil
}

func (r *sqliteClientRepo) List(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
