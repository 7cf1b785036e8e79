package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/worklog-hq/worklog/internal/models"
)

type sqliteReportRepo struct {
	db *sql.DB
}

const reportColumns = "id, date, employee_display_name, employee_username, client_slug, " +
	"project_name, task_description, hours, notes, created_at, updated_at"

func scanReport(row interface{ Scan(...any) error }) (*models.Report, error) {
	report := &models.Report{}
	var notes sql.NullString
	err := row.Scan(
		&report.ID, &report.Date, &report.EmployeeDisplayName, &report.EmployeeUsername,
		&report.ClientSlug, &report.ProjectName, &report.TaskDescription, &report.Hours,
		&notes, &report.CreatedAt, &report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	report.Notes = notes.String
	return report, nil
}

func (r *sqliteReportRepo) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, date, employee_display_name, employee_username, client_slug,
			project_name, task_description, hours, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.Date, report.EmployeeDisplayName, report.EmployeeUsername,
		report.ClientSlug, report.ProjectName, report.TaskDescription, report.Hours,
		report.Notes, report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *sqliteReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+reportColumns+" FROM reports WHERE id = ?", id)
	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report by id: %w", err)
	}
	return report, nil
}

func (r *sqliteReportRepo) Update(ctx context.Context, report *models.Report) error {
	query := `
		UPDATE reports SET date = ?, employee_display_name = ?, employee_username = ?,
			client_slug = ?, project_name = ?, task_description = ?, hours = ?, notes = ?,
			updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		report.Date, report.EmployeeDisplayName, report.EmployeeUsername,
		report.ClientSlug, report.ProjectName, report.TaskDescription, report.Hours,
		report.Notes, report.UpdatedAt, report.ID,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("report not found: %s", report.ID)
	}
	return nil
}

func (r *sqliteReportRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("report not found: %s", id)
	}
	return nil
}

func (r *sqliteReportRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM reports WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("delete reports: %w", err)
	}
	return result.RowsAffected()
}

func (r *sqliteReportRepo) List(ctx context.Context) ([]*models.Report, error) {
	return r.list(ctx, "SELECT "+reportColumns+" FROM reports ORDER BY created_at, id")
}

func (r *sqliteReportRepo) ListByEmployee(ctx context.Context, username string) ([]*models.Report, error) {
	return r.list(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE employee_username = ? ORDER BY created_at, id",
		username)
}

func (r *sqliteReportRepo) list(ctx context.Context, query string, args ...any) ([]*models.Report, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (r *sqliteReportRepo) CountByClientSlug(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE client_slug = ?", slug).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reports by client: %w", err)
	}
	return count, nil
}
