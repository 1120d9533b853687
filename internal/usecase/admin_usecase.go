package usecase

import (
	"bytes"
	"context"
	"fmt"

	"job-portal-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

type adminUsecase struct {
	adminRepo domain.AdminRepository
}

func NewAdminUsecase(adminRepo domain.AdminRepository) domain.AdminUsecase {
	return &adminUsecase{adminRepo: adminRepo}
}

func (u *adminUsecase) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	return u.adminRepo.ListUsersWithStats(ctx)
}

var exportHeaders = []string{
	"ID", "Email", "Full Name", "Contact Number", "Preferred Position",
	"Applications", "Last Application", "Registered",
}

const exportSheet = "Users"

func (u *adminUsecase) ExportUsers(ctx context.Context) ([]byte, error) {
	users, err := u.adminRepo.ListUsersWithStats(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, user := range users {
		lastApplication := ""
		if user.LastApplication != nil {
			lastApplication = user.LastApplication.Format("2006-01-02 15:04")
		}
		row := []any{
			user.ID,
			user.Email,
			deref(user.FullName),
			deref(user.ContactNumber),
			deref(user.PreferredPosition),
			user.ApplicationsCount,
			lastApplication,
			user.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
