package usecase

import (
	"context"
	"errors"
	"strings"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/logger"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

func (u *jobUsecase) ListJobs(ctx context.Context) ([]domain.Job, error) {
	return u.jobRepo.Fetch(ctx)
}

func validateJob(job *domain.Job) error {
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	if job.Title == "" || job.Company == "" {
		return apperror.BadRequest("Title and company are required")
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return apperror.BadRequest("salary_min cannot be greater than salary_max")
	}
	if job.SalaryCurrency == "" {
		job.SalaryCurrency = domain.DefaultSalaryCurrency
	}
	return nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, ownerID int64, job *domain.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	job.UserID = ownerID

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return err
	}
	logger.Log.Info("Job created", "job_id", job.ID, "owner_id", ownerID)
	return nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, ownerID int64, job *domain.Job) error {
	if err := validateJob(job); err != nil {
		return err
	}
	job.UserID = ownerID

	err := u.jobRepo.Update(ctx, job)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("Job not found or unauthorized")
	}
	return err
}

func (u *jobUsecase) DeleteJob(ctx context.Context, id, ownerID int64) error {
	err := u.jobRepo.Delete(ctx, id, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("Job not found or unauthorized")
	}
	if err != nil {
		return err
	}
	logger.Log.Info("Job deleted", "job_id", id, "owner_id", ownerID)
	return nil
}
