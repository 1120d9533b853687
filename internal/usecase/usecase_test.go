package usecase_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"job-portal-backend/internal/domain"
	"job-portal-backend/internal/usecase"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/auth"
	"job-portal-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

var ctx = context.Background()

func strPtr(s string) *string { return &s }

func TestAuthRegister(t *testing.T) {
	tokens := auth.NewManager("secret", time.Hour)

	t.Run("Configured admin email gets admin role", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo, tokens, "admin@jobportal.com", bcrypt.MinCost)
		repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.RoleAdmin && u.Email == "admin@jobportal.com"
		})).Return(nil).Once()

		user, err := uc.Register(ctx, " Admin@JobPortal.com ", "pw", "Admin")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		repo.AssertExpectations(t)
	})

	t.Run("Everyone else is a user and the password is hashed", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo, tokens, "admin@jobportal.com", bcrypt.MinCost)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

		user, err := uc.Register(ctx, "a@x.com", "pw", "")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.NotEqual(t, "pw", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw")))
	})

	t.Run("Duplicate email surfaces Conflict", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo, tokens, "admin@jobportal.com", bcrypt.MinCost)
		repo.On("Create", ctx, mock.Anything).Return(apperror.Conflict("User already exists")).Once()

		_, err := uc.Register(ctx, "a@x.com", "pw", "A")

		assert.Equal(t, http.StatusConflict, apperror.CodeOf(err))
	})

	t.Run("Missing password", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo, tokens, "", bcrypt.MinCost)

		_, err := uc.Register(ctx, "a@x.com", "", "A")

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthLogin(t *testing.T) {
	tokens := auth.NewManager("secret", time.Hour)
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	stored := &domain.User{ID: 7, Email: "a@x.com", Name: "A", Role: domain.RoleUser, PasswordHash: string(hash)}

	t.Run("Correct credentials issue a token with the user's claims", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo, tokens, "", bcrypt.MinCost)
		repo.On("GetByEmail", ctx, "a@x.com").Return(stored, nil)

		res, err := uc.Login(ctx, "A@x.com", "pw")
		require.NoError(t, err)

		claims, err := tokens.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.ID)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, domain.RoleUser, claims.Role)
		assert.Equal(t, stored, res.User)
	})

	t.Run("Wrong password", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo, tokens, "", bcrypt.MinCost)
		repo.On("GetByEmail", ctx, "a@x.com").Return(stored, nil)

		_, err := uc.Login(ctx, "a@x.com", "nope")

		assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("Unknown email looks the same", func(t *testing.T) {
		repo := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(repo, tokens, "", bcrypt.MinCost)
		repo.On("GetByEmail", ctx, "ghost@x.com").Return(nil, nil)

		_, err := uc.Login(ctx, "ghost@x.com", "pw")

		assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))
		assert.Equal(t, "Invalid credentials", err.Error())
	})
}

func TestJobUsecase(t *testing.T) {
	t.Run("Create defaults currency and stamps owner", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(j *domain.Job) bool {
			return j.SalaryCurrency == "MYR" && j.UserID == 3
		})).Return(nil).Once()

		err := uc.CreateJob(ctx, 3, &domain.Job{Title: "Engineer", Company: "Acme"})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Create requires title and company", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo)

		err := uc.CreateJob(ctx, 3, &domain.Job{Title: "  ", Company: "Acme"})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Salary range must be ordered", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo)
		lo, hi := 5000.0, 3000.0

		err := uc.CreateJob(ctx, 3, &domain.Job{Title: "Engineer", Company: "Acme", SalaryMin: &lo, SalaryMax: &hi})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
	})

	t.Run("Update by non-owner is NotFound", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo)
		repo.On("Update", ctx, mock.Anything).Return(domain.ErrNotFound)

		err := uc.UpdateJob(ctx, 99, &domain.Job{ID: 1, Title: "Engineer", Company: "Acme"})

		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
	})

	t.Run("Delete by non-owner is NotFound", func(t *testing.T) {
		repo := new(MockJobRepo)
		uc := usecase.NewJobUsecase(repo)
		repo.On("Delete", ctx, int64(1), int64(99)).Return(domain.ErrNotFound)

		err := uc.DeleteJob(ctx, 1, 99)

		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
		assert.Equal(t, "Job not found or unauthorized", err.Error())
	})
}

func TestApplicationUsecase(t *testing.T) {
	t.Run("Apply starts pending", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Application) bool {
			return a.Status == domain.ApplicationStatusPending && a.UserID == 4 && a.JobID == 10
		})).Return(nil)

		app, err := uc.ApplyToJob(ctx, 4, 10)

		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	})

	t.Run("Unknown status rejected before touching the store", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)

		_, err := uc.UpdateApplicationStatus(ctx, 1, "hired")

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Any known status may follow any other", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)
		repo.On("UpdateStatus", ctx, int64(1), "pending").
			Return(&domain.Application{ID: 1, Status: "pending"}, nil)

		app, err := uc.UpdateApplicationStatus(ctx, 1, "pending")

		require.NoError(t, err)
		assert.Equal(t, "pending", app.Status)
	})

	t.Run("Unknown application", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)
		repo.On("UpdateStatus", ctx, int64(5), "accepted").Return(nil, domain.ErrNotFound)

		_, err := uc.UpdateApplicationStatus(ctx, 5, "accepted")

		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
	})
}

func newProfileUsecase() (domain.ProfileUsecase, *MockProfileRepo, *MockDocumentRepo, *MockUserRepo) {
	profiles := new(MockProfileRepo)
	docs := new(MockDocumentRepo)
	users := new(MockUserRepo)
	return usecase.NewProfileUsecase(profiles, docs, users, validation.New()), profiles, docs, users
}

func TestProfileUsecase(t *testing.T) {
	t.Run("Absent section is nil without error", func(t *testing.T) {
		uc, profiles, _, _ := newProfileUsecase()
		profiles.On("GetEducation", ctx, int64(1)).Return(nil, nil)

		edu, err := uc.GetEducation(ctx, 1)

		assert.NoError(t, err)
		assert.Nil(t, edu)
	})

	t.Run("Invalid phone is a validation error", func(t *testing.T) {
		uc, profiles, _, _ := newProfileUsecase()

		_, err := uc.SavePersonalInfo(ctx, 1, &domain.PersonalInfo{ContactNumber: strPtr("call me")})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		assert.Contains(t, err.Error(), "contact_number")
		profiles.AssertNotCalled(t, "UpsertPersonalInfo", mock.Anything, mock.Anything)
	})

	t.Run("Save stamps the caller's id", func(t *testing.T) {
		uc, profiles, _, _ := newProfileUsecase()
		profiles.On("UpsertPersonalInfo", ctx, mock.MatchedBy(func(p *domain.PersonalInfo) bool {
			return p.UserID == 9
		})).Return(nil)

		info, err := uc.SavePersonalInfo(ctx, 9, &domain.PersonalInfo{UserID: 1, FullName: strPtr("Aisyah Rahman")})

		require.NoError(t, err)
		assert.Equal(t, int64(9), info.UserID)
	})

	t.Run("Empty employment list is passed through", func(t *testing.T) {
		uc, profiles, _, _ := newProfileUsecase()
		profiles.On("ReplaceEmploymentHistory", ctx, int64(1), []domain.EmploymentHistory{}).
			Return([]domain.EmploymentHistory{}, nil)

		out, err := uc.ReplaceEmploymentHistory(ctx, 1, []domain.EmploymentHistory{})

		assert.NoError(t, err)
		assert.Empty(t, out)
		profiles.AssertExpectations(t)
	})

	t.Run("End date before start date", func(t *testing.T) {
		uc, _, _, _ := newProfileUsecase()

		_, err := uc.ReplaceEmploymentHistory(ctx, 1, []domain.EmploymentHistory{
			{StartDate: strPtr("2020-05-01"), EndDate: strPtr("2019-01-01")},
		})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		assert.Contains(t, err.Error(), "employmentHistory[0]")
	})

	t.Run("Reference email is checked", func(t *testing.T) {
		uc, _, _, _ := newProfileUsecase()

		_, err := uc.ReplaceReferences(ctx, 1, []domain.Reference{{Name: strPtr("Ali")}, {Email: strPtr("nope")}})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		assert.Contains(t, err.Error(), "references[1]")
	})

	t.Run("Languages need a name", func(t *testing.T) {
		uc, _, _, _ := newProfileUsecase()

		_, err := uc.SaveSkills(ctx, 1, nil, []domain.Language{{Proficiency: strPtr("Fluent")}})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
	})

	t.Run("Admin view adds documents", func(t *testing.T) {
		uc, profiles, docs, users := newProfileUsecase()
		users.On("GetByID", ctx, int64(2)).Return(&domain.User{ID: 2}, nil)
		profiles.On("GetCompleteProfile", ctx, int64(2)).Return(&domain.CompleteProfile{}, nil)
		docs.On("ListByUser", ctx, int64(2)).Return([]domain.Document{{ID: 1, DocumentType: "resume"}}, nil)

		profile, err := uc.GetUserProfile(ctx, 2)

		require.NoError(t, err)
		assert.True(t, profile.IncludeDocuments)
		assert.Len(t, profile.Documents, 1)
	})

	t.Run("Admin view of unknown user", func(t *testing.T) {
		uc, _, _, users := newProfileUsecase()
		users.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrNotFound)

		_, err := uc.GetUserProfile(ctx, 404)

		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
	})
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func bigPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// pngClaiming returns a 1x1 PNG whose IHDR chunk claims w x h pixels.
func pngClaiming(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func newDocumentUsecase() (domain.DocumentUsecase, *MockDocumentRepo, *memStore) {
	repo := new(MockDocumentRepo)
	store := newMemStore()
	uc := usecase.NewDocumentUsecase(repo, store, usecase.DocumentConfig{MaxFileSize: 10 << 20, ImageMaxDimension: 100})
	return uc, repo, store
}

func TestDocumentUpload(t *testing.T) {
	t.Run("Disallowed extension writes nothing", func(t *testing.T) {
		uc, repo, store := newDocumentUsecase()

		_, err := uc.UploadBatch(ctx, 1, []domain.UploadFile{
			uploadOf("resume", "cv.pdf", "application/pdf", pdfBytes),
			uploadOf("portfolio", "site.exe", "application/octet-stream", []byte("MZ\x90\x00\x03")),
		})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		assert.Contains(t, err.Error(), "Invalid file type")
		assert.Empty(t, store.names())
		repo.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Field limits", func(t *testing.T) {
		uc, _, _ := newDocumentUsecase()

		_, err := uc.UploadBatch(ctx, 1, []domain.UploadFile{
			uploadOf("resume", "a.pdf", "application/pdf", pdfBytes),
			uploadOf("resume", "b.pdf", "application/pdf", pdfBytes),
		})
		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))

		_, err = uc.UploadBatch(ctx, 1, []domain.UploadFile{uploadOf("avatar", "a.png", "image/png", bigPNG(t, 2, 2))})
		assert.Contains(t, err.Error(), "Unexpected field")
	})

	t.Run("Oversized file", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		uc := usecase.NewDocumentUsecase(repo, newMemStore(), usecase.DocumentConfig{MaxFileSize: 16})

		_, err := uc.UploadBatch(ctx, 1, []domain.UploadFile{uploadOf("resume", "cv.pdf", "application/pdf", pdfBytes)})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
	})

	t.Run("Empty batch", func(t *testing.T) {
		uc, _, _ := newDocumentUsecase()

		_, err := uc.UploadBatch(ctx, 1, nil)

		assert.Equal(t, "No files uploaded", err.Error())
	})

	t.Run("Replaces the previous set and removes old files", func(t *testing.T) {
		uc, repo, store := newDocumentUsecase()
		require.NoError(t, store.Save(ctx, "resume-old.pdf", bytes.NewReader(pdfBytes), "application/pdf"))

		repo.On("ReplaceAll", ctx, int64(1), mock.MatchedBy(func(docs []domain.Document) bool {
			return len(docs) == 2 && docs[0].DocumentType == "resume" && docs[0].FileName == "cv.pdf" &&
				strings.HasPrefix(docs[0].FilePath, "/uploads/resume-") && strings.HasSuffix(docs[0].FilePath, ".pdf")
		})).Return([]domain.Document{{FilePath: "/uploads/resume-old.pdf"}}, nil)

		docs, err := uc.UploadBatch(ctx, 1, []domain.UploadFile{
			uploadOf("resume", "cv.pdf", "application/pdf", pdfBytes),
			uploadOf("idCopy", "ic.png", "image/png", bigPNG(t, 400, 200)),
		})

		require.NoError(t, err)
		assert.Len(t, docs, 2)
		names := store.names()
		assert.Len(t, names, 2)
		assert.NotContains(t, names, "resume-old.pdf")

		// The id copy was downscaled before storage
		stored := store.files[strings.TrimPrefix(docs[1].FilePath, "/uploads/")]
		cfg, err := png.DecodeConfig(bytes.NewReader(stored))
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Width)
	})

	t.Run("Malware scan rejects the batch", func(t *testing.T) {
		repo := new(MockDocumentRepo)
		store := newMemStore()
		uc := usecase.NewDocumentUsecase(repo, store, usecase.DocumentConfig{
			MaxFileSize: 10 << 20,
			Scanner:     fakeScanner{signature: "EICAR"},
		})

		_, err := uc.UploadBatch(ctx, 1, []domain.UploadFile{
			uploadOf("resume", "cv.pdf", "application/pdf", pdfBytes),
			uploadOf("coverLetter", "letter.txt", "text/plain", []byte("hello EICAR")),
		})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		assert.Contains(t, err.Error(), "malware scan")
		assert.Empty(t, store.names())
		repo.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Scanner failure is not a rejection", func(t *testing.T) {
		uc := usecase.NewDocumentUsecase(new(MockDocumentRepo), newMemStore(), usecase.DocumentConfig{
			MaxFileSize: 10 << 20,
			Scanner:     fakeScanner{err: errors.New("clamd down")},
		})

		_, err := uc.UploadBatch(ctx, 1, []domain.UploadFile{uploadOf("resume", "cv.pdf", "application/pdf", pdfBytes)})

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, apperror.CodeOf(err))
	})

	t.Run("Image with too many pixels is rejected", func(t *testing.T) {
		uc, repo, store := newDocumentUsecase()

		_, err := uc.UploadBatch(ctx, 1, []domain.UploadFile{
			uploadOf("idCopy", "ic.png", "image/png", pngClaiming(t, 20000, 20000)),
		})

		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		assert.Contains(t, err.Error(), "too many pixels")
		assert.Empty(t, store.names())
		repo.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Database failure removes the new files", func(t *testing.T) {
		uc, repo, store := newDocumentUsecase()
		repo.On("ReplaceAll", ctx, int64(1), mock.Anything).Return(nil, errors.New("db down"))

		_, err := uc.UploadBatch(ctx, 1, []domain.UploadFile{uploadOf("resume", "cv.pdf", "application/pdf", pdfBytes)})

		assert.Error(t, err)
		assert.Empty(t, store.names())
	})
}

func TestAdminExportUsers(t *testing.T) {
	repo := new(MockAdminRepo)
	uc := usecase.NewAdminUsecase(repo)
	last := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	repo.On("ListUsersWithStats", ctx).Return([]domain.UserSummary{
		{ID: 2, Email: "b@x.com", FullName: strPtr("Bee"), ApplicationsCount: 3, LastApplication: &last, CreatedAt: last},
		{ID: 1, Email: "a@x.com", CreatedAt: last},
	}, nil)

	data, err := uc.ExportUsers(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Email", rows[0][1])
	assert.Equal(t, []string{"2", "b@x.com", "Bee", "", "", "3", "2024-03-01 09:30", "2024-03-01 09:30"}, rows[1])
	assert.Equal(t, "a@x.com", rows[2][1])
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	up := usecase.NewHealthUsecase(fakePinger{}, nil).Check(ctx)
	assert.Equal(t, domain.HealthStatus{Status: "ok", Message: "Backend server is running", Database: "up"}, up)

	down := usecase.NewHealthUsecase(fakePinger{err: errors.New("refused")}, nil).Check(ctx)
	assert.Equal(t, "ok", down.Status)
	assert.Equal(t, "down", down.Database)

	t.Run("Redis reported when configured", func(t *testing.T) {
		status := usecase.NewHealthUsecase(fakePinger{}, usecase.PingerFunc(func(context.Context) error {
			return errors.New("redis: client not initialized")
		})).Check(ctx)
		assert.Equal(t, "up", status.Database)
		assert.Equal(t, "down", status.Cache)

		status = usecase.NewHealthUsecase(fakePinger{}, fakePinger{}).Check(ctx)
		assert.Equal(t, "up", status.Cache)
	})
}
