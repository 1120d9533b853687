package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

const DefaultSalaryCurrency = "MYR"

type Job struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Description     string    `json:"description"`
	Location        *string   `json:"location"`
	SalaryMin       *float64  `json:"salary_min"`
	SalaryMax       *float64  `json:"salary_max"`
	SalaryCurrency  string    `json:"salary_currency"`
	JobType         *string   `json:"job_type"`
	ExperienceLevel *string   `json:"experience_level"`
	Requirements    *string   `json:"requirements"`
	Benefits        *string   `json:"benefits"`
	UserID          int64     `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type JobRepository interface {
	// Fetch returns every job, newest first.
	Fetch(ctx context.Context) ([]Job, error)
	Create(ctx context.Context, job *Job) error
	// Update matches on both job.ID and job.UserID and returns ErrNotFound
	// when no such row exists.
	Update(ctx context.Context, job *Job) error
	// Delete removes the job's applications and then the job itself, scoped
	// to the owner, in one transaction. ErrNotFound leaves everything intact.
	Delete(ctx context.Context, id, ownerID int64) error
}

type JobUsecase interface {
	ListJobs(ctx context.Context) ([]Job, error)
	CreateJob(ctx context.Context, ownerID int64, job *Job) error
	UpdateJob(ctx context.Context, ownerID int64, job *Job) error
	DeleteJob(ctx context.Context, id, ownerID int64) error
}
