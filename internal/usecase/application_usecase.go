package usecase

import (
	"context"
	"errors"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/logger"
)

type applicationUsecase struct {
	appRepo domain.ApplicationRepository
}

func NewApplicationUsecase(appRepo domain.ApplicationRepository) domain.ApplicationUsecase {
	return &applicationUsecase{appRepo: appRepo}
}

func (u *applicationUsecase) ApplyToJob(ctx context.Context, userID, jobID int64) (*domain.Application, error) {
	if jobID <= 0 {
		return nil, apperror.BadRequest("job_id is required")
	}

	app := &domain.Application{
		UserID: userID,
		JobID:  jobID,
		Status: domain.ApplicationStatusPending,
	}
	if err := u.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	logger.Log.Info("Application submitted", "application_id", app.ID, "job_id", jobID, "user_id", userID)
	return app, nil
}

func (u *applicationUsecase) GetMyApplications(ctx context.Context, userID int64) ([]domain.Application, error) {
	return u.appRepo.GetByUserID(ctx, userID)
}

func (u *applicationUsecase) ListAllApplications(ctx context.Context) ([]domain.Application, error) {
	return u.appRepo.FetchAll(ctx)
}

// UpdateApplicationStatus allows any transition between the known statuses.
func (u *applicationUsecase) UpdateApplicationStatus(ctx context.Context, id int64, status string) (*domain.Application, error) {
	if !domain.IsValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid status. Must be one of: pending, accepted, rejected")
	}

	app, err := u.appRepo.UpdateStatus(ctx, id, status)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Application not found")
	}
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Application status changed", "application_id", id, "status", status)
	return app, nil
}
