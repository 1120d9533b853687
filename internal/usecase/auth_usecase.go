package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/auth"
	"job-portal-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	userRepo   domain.UserRepository
	tokens     *auth.Manager
	adminEmail string
	bcryptCost int
	// compared against when the email is unknown so both failures cost the same
	dummyHash []byte
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *auth.Manager, adminEmail string, bcryptCost int) domain.AuthUsecase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)

	return &authUsecase{
		userRepo:   userRepo,
		tokens:     tokens,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.BadRequest("Email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.BadRequest("Password must be at most 72 bytes")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Role is fixed at creation time.
	role := domain.RoleUser
	if u.adminEmail != "" && email == u.adminEmail {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(u.dummyHash, []byte(password))
		logger.Log.Info("Login failed", "reason", "unknown_email")
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Info("Login failed", "reason", "password_mismatch", "user_id", user.ID)
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := u.tokens.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &domain.LoginResult{Token: token, User: user}, nil
}
