package postgres

import (
	"context"
	"fmt"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/database"
)

type applicationRepo struct {
	db database.DB
}

func NewApplicationRepository(db database.DB) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO job_applications (user_id, job_id, status)
              VALUES ($1, $2, $3)
              RETURNING id, user_id, job_id, status, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, app.UserID, app.JobID, app.Status).Scan(
		&app.ID, &app.UserID, &app.JobID, &app.Status, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return apperror.NotFound("Job not found")
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *applicationRepo) GetByUserID(ctx context.Context, userID int64) ([]domain.Application, error) {
	query := `
		SELECT ja.id, ja.user_id, ja.job_id, ja.status, ja.created_at, ja.updated_at,
		       j.title, j.company, j.description
		FROM job_applications ja
		JOIN jobs j ON ja.job_id = j.id
		WHERE ja.user_id = $1
		ORDER BY ja.created_at DESC, ja.id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user applications: %w", err)
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.JobID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.Title, &a.Company, &a.Description,
		); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) FetchAll(ctx context.Context) ([]domain.Application, error) {
	query := `
		SELECT ja.id, ja.user_id, ja.job_id, ja.status, ja.created_at, ja.updated_at,
		       u.email, pi.full_name, j.title, j.company
		FROM job_applications ja
		JOIN users u ON ja.user_id = u.id
		JOIN jobs j ON ja.job_id = j.id
		LEFT JOIN personal_info pi ON pi.user_id = u.id
		ORDER BY ja.created_at DESC, ja.id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.JobID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.UserEmail, &a.FullName, &a.JobTitle, &a.Company,
		); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Application, error) {
	query := `UPDATE job_applications SET status = $1, updated_at = CURRENT_TIMESTAMP
              WHERE id = $2
              RETURNING id, user_id, job_id, status, created_at, updated_at`
	var a domain.Application
	err := r.db.QueryRow(ctx, query, status, id).Scan(
		&a.ID, &a.UserID, &a.JobID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if isNoRows(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return &a, nil
}
