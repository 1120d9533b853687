package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

func IsValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application links a user to a job.
type Application struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	JobID     int64     `json:"job_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data for list responses
	Title       *string `json:"title,omitempty"`
	Company     *string `json:"company,omitempty"`
	Description *string `json:"description,omitempty"`
	UserEmail   *string `json:"user_email,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	JobTitle    *string `json:"job_title,omitempty"`
}

// AdminApplication is the admin list row. Unlike Application it always
// carries the joined keys, null when the applicant has no personal info.
type AdminApplication struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	JobID     int64     `json:"job_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserEmail *string   `json:"user_email"`
	FullName  *string   `json:"full_name"`
	JobTitle  *string   `json:"job_title"`
	Company   *string   `json:"company"`
}

func (a Application) AdminView() AdminApplication {
	return AdminApplication{
		ID:        a.ID,
		UserID:    a.UserID,
		JobID:     a.JobID,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		UserEmail: a.UserEmail,
		FullName:  a.FullName,
		JobTitle:  a.JobTitle,
		Company:   a.Company,
	}
}

type ApplicationRepository interface {
	// Create returns NotFound when the job does not exist.
	Create(ctx context.Context, app *Application) error
	// GetByUserID joins job title, company and description, newest first.
	GetByUserID(ctx context.Context, userID int64) ([]Application, error)
	// FetchAll joins user email, applicant full name, job title and company.
	FetchAll(ctx context.Context) ([]Application, error)
	// UpdateStatus returns ErrNotFound for an unknown id.
	UpdateStatus(ctx context.Context, id int64, status string) (*Application, error)
}

type ApplicationUsecase interface {
	// Applicant operations
	ApplyToJob(ctx context.Context, userID, jobID int64) (*Application, error)
	GetMyApplications(ctx context.Context, userID int64) ([]Application, error)

	// Admin operations
	ListAllApplications(ctx context.Context) ([]Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status string) (*Application, error)
}
