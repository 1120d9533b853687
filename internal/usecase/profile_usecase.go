package usecase

import (
	"context"
	"errors"
	"fmt"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Upper bound on replace-all collections per request
const maxCollectionItems = 50

type profileUsecase struct {
	profileRepo  domain.ProfileRepository
	documentRepo domain.DocumentRepository
	userRepo     domain.UserRepository
	validate     *validator.Validate
}

func NewProfileUsecase(
	profileRepo domain.ProfileRepository,
	documentRepo domain.DocumentRepository,
	userRepo domain.UserRepository,
	validate *validator.Validate,
) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo:  profileRepo,
		documentRepo: documentRepo,
		userRepo:     userRepo,
		validate:     validate,
	}
}

func (u *profileUsecase) check(v any) error {
	if err := u.validate.Struct(v); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	return nil
}

func checkItems[T any](u *profileUsecase, label string, items []T) error {
	if len(items) > maxCollectionItems {
		return apperror.BadRequest(fmt.Sprintf("%s: at most %d entries allowed", label, maxCollectionItems))
	}
	for i := range items {
		if err := u.validate.Struct(items[i]); err != nil {
			return apperror.BadRequest(fmt.Sprintf("%s[%d]: %s", label, i, validation.Message(err)))
		}
	}
	return nil
}

func (u *profileUsecase) GetPersonalInfo(ctx context.Context, userID int64) (*domain.PersonalInfo, error) {
	return u.profileRepo.GetPersonalInfo(ctx, userID)
}

func (u *profileUsecase) SavePersonalInfo(ctx context.Context, userID int64, info *domain.PersonalInfo) (*domain.PersonalInfo, error) {
	if err := u.check(info); err != nil {
		return nil, err
	}
	info.UserID = userID
	if err := u.profileRepo.UpsertPersonalInfo(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (u *profileUsecase) GetEducation(ctx context.Context, userID int64) (*domain.Education, error) {
	return u.profileRepo.GetEducation(ctx, userID)
}

func (u *profileUsecase) SaveEducation(ctx context.Context, userID int64, edu *domain.Education) (*domain.Education, error) {
	if err := u.check(edu); err != nil {
		return nil, err
	}
	edu.UserID = userID
	if err := u.profileRepo.UpsertEducation(ctx, edu); err != nil {
		return nil, err
	}
	return edu, nil
}

func (u *profileUsecase) GetDeclaration(ctx context.Context, userID int64) (*domain.Declaration, error) {
	return u.profileRepo.GetDeclaration(ctx, userID)
}

func (u *profileUsecase) SaveDeclaration(ctx context.Context, userID int64, decl *domain.Declaration) (*domain.Declaration, error) {
	if err := u.check(decl); err != nil {
		return nil, err
	}
	decl.UserID = userID
	if err := u.profileRepo.UpsertDeclaration(ctx, decl); err != nil {
		return nil, err
	}
	return decl, nil
}

func (u *profileUsecase) GetEmploymentHistory(ctx context.Context, userID int64) ([]domain.EmploymentHistory, error) {
	return u.profileRepo.GetEmploymentHistory(ctx, userID)
}

func (u *profileUsecase) ReplaceEmploymentHistory(ctx context.Context, userID int64, items []domain.EmploymentHistory) ([]domain.EmploymentHistory, error) {
	if err := checkItems(u, "employmentHistory", items); err != nil {
		return nil, err
	}
	for i, item := range items {
		// Both are YYYY-MM-DD, so string order is date order
		if item.StartDate != nil && item.EndDate != nil && *item.EndDate < *item.StartDate {
			return nil, apperror.BadRequest(fmt.Sprintf("employmentHistory[%d]: end_date must not be before start_date", i))
		}
	}
	return u.profileRepo.ReplaceEmploymentHistory(ctx, userID, items)
}

func (u *profileUsecase) GetReferences(ctx context.Context, userID int64) ([]domain.Reference, error) {
	return u.profileRepo.GetReferences(ctx, userID)
}

func (u *profileUsecase) ReplaceReferences(ctx context.Context, userID int64, items []domain.Reference) ([]domain.Reference, error) {
	if err := checkItems(u, "references", items); err != nil {
		return nil, err
	}
	return u.profileRepo.ReplaceReferences(ctx, userID, items)
}

func (u *profileUsecase) GetSkills(ctx context.Context, userID int64) (*domain.SkillSet, error) {
	return u.profileRepo.GetSkills(ctx, userID)
}

func (u *profileUsecase) SaveSkills(ctx context.Context, userID int64, skills *domain.Skills, languages []domain.Language) (*domain.SkillSet, error) {
	if skills == nil {
		skills = &domain.Skills{}
	}
	if err := u.check(skills); err != nil {
		return nil, err
	}
	if err := checkItems(u, "languages", languages); err != nil {
		return nil, err
	}
	return u.profileRepo.SaveSkills(ctx, userID, skills, languages)
}

func (u *profileUsecase) GetCompleteProfile(ctx context.Context, userID int64) (*domain.CompleteProfile, error) {
	return u.profileRepo.GetCompleteProfile(ctx, userID)
}

func (u *profileUsecase) GetUserProfile(ctx context.Context, userID int64) (*domain.CompleteProfile, error) {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}

	profile, err := u.profileRepo.GetCompleteProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	docs, err := u.documentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.IncludeDocuments = true
	profile.Documents = docs
	return profile, nil
}
