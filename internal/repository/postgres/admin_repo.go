package postgres

import (
	"context"
	"fmt"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/database"
)

type adminRepo struct {
	db database.DB
}

func NewAdminRepository(db database.DB) domain.AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) ListUsersWithStats(ctx context.Context) ([]domain.UserSummary, error) {
	query := `
		SELECT u.id, u.email, u.role, u.created_at,
		       pi.full_name, pi.contact_number, pi.preferred_position,
		       COUNT(ja.id) AS applications_count,
		       MAX(ja.created_at) AS last_application
		FROM users u
		LEFT JOIN personal_info pi ON pi.user_id = u.id
		LEFT JOIN job_applications ja ON ja.user_id = u.id
		WHERE u.role <> 'admin'
		GROUP BY u.id, pi.full_name, pi.contact_number, pi.preferred_position
		ORDER BY u.created_at DESC, u.id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users with stats: %w", err)
	}
	defer rows.Close()

	users := []domain.UserSummary{}
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Role, &u.CreatedAt,
			&u.FullName, &u.ContactNumber, &u.PreferredPosition,
			&u.ApplicationsCount, &u.LastApplication,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
