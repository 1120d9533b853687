package postgres

import (
	"context"
	"fmt"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/database"
)

const jobColumns = `id, title, company, description, location, salary_min, salary_max, salary_currency,
	job_type, experience_level, requirements, benefits, user_id, created_at, updated_at`

type jobRepo struct {
	db database.Pool
}

func NewJobRepository(db database.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row interface{ Scan(dest ...any) error }, job *domain.Job) error {
	return row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Description, &job.Location,
		&job.SalaryMin, &job.SalaryMax, &job.SalaryCurrency,
		&job.JobType, &job.ExperienceLevel, &job.Requirements, &job.Benefits,
		&job.UserID, &job.CreatedAt, &job.UpdatedAt,
	)
}

func (r *jobRepo) Fetch(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		var job domain.Job
		if err := scanJob(rows, &job); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (title, company, description, location, salary_min, salary_max, salary_currency,
                  job_type, experience_level, requirements, benefits, user_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
              RETURNING ` + jobColumns
	row := r.db.QueryRow(ctx, query,
		job.Title, job.Company, job.Description, job.Location, job.SalaryMin, job.SalaryMax, job.SalaryCurrency,
		job.JobType, job.ExperienceLevel, job.Requirements, job.Benefits, job.UserID,
	)
	if err := scanJob(row, job); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET title = $1, company = $2, description = $3, location = $4,
                  salary_min = $5, salary_max = $6, salary_currency = $7, job_type = $8,
                  experience_level = $9, requirements = $10, benefits = $11, updated_at = CURRENT_TIMESTAMP
              WHERE id = $12 AND user_id = $13
              RETURNING ` + jobColumns
	row := r.db.QueryRow(ctx, query,
		job.Title, job.Company, job.Description, job.Location, job.SalaryMin, job.SalaryMax, job.SalaryCurrency,
		job.JobType, job.ExperienceLevel, job.Requirements, job.Benefits, job.ID, job.UserID,
	)
	err := scanJob(row, job)
	if isNoRows(err) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id, ownerID int64) error {
	return database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DB) error {
		// Only the owner may clear the applications, so gate on ownership first.
		if _, err := tx.Exec(ctx,
			`DELETE FROM job_applications WHERE job_id = (SELECT id FROM jobs WHERE id = $1 AND user_id = $2)`,
			id, ownerID,
		); err != nil {
			return fmt.Errorf("delete job applications: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, ownerID)
		if err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
