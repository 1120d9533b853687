package domain

import (
	"context"
	"time"
)

// UserSummary is one row of the admin user roster.
type UserSummary struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	Role              string     `json:"role"`
	CreatedAt         time.Time  `json:"created_at"`
	FullName          *string    `json:"full_name"`
	ContactNumber     *string    `json:"contact_number"`
	PreferredPosition *string    `json:"preferred_position"`
	ApplicationsCount int64      `json:"applications_count"`
	LastApplication   *time.Time `json:"last_application"`
}

type AdminRepository interface {
	// ListUsersWithStats returns every non-admin user, newest first.
	ListUsersWithStats(ctx context.Context) ([]UserSummary, error)
}

type AdminUsecase interface {
	ListUsers(ctx context.Context) ([]UserSummary, error)
	// ExportUsers renders the roster as an XLSX workbook.
	ExportUsers(ctx context.Context) ([]byte, error)
}
