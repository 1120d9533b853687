package usecase_test

import (
	"bytes"
	"context"
	"io"
	"sync"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/security/antivirus"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Fetch(ctx context.Context) ([]domain.Job, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Delete(ctx context.Context, id, ownerID int64) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByUserID(ctx context.Context, userID int64) ([]domain.Application, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) FetchAll(ctx context.Context) ([]domain.Application, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Application, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetPersonalInfo(ctx context.Context, userID int64) (*domain.PersonalInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PersonalInfo), args.Error(1)
}
func (m *MockProfileRepo) UpsertPersonalInfo(ctx context.Context, info *domain.PersonalInfo) error {
	return m.Called(ctx, info).Error(0)
}
func (m *MockProfileRepo) GetEducation(ctx context.Context, userID int64) (*domain.Education, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Education), args.Error(1)
}
func (m *MockProfileRepo) UpsertEducation(ctx context.Context, edu *domain.Education) error {
	return m.Called(ctx, edu).Error(0)
}
func (m *MockProfileRepo) GetDeclaration(ctx context.Context, userID int64) (*domain.Declaration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}
func (m *MockProfileRepo) UpsertDeclaration(ctx context.Context, decl *domain.Declaration) error {
	return m.Called(ctx, decl).Error(0)
}
func (m *MockProfileRepo) GetEmploymentHistory(ctx context.Context, userID int64) ([]domain.EmploymentHistory, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.EmploymentHistory), args.Error(1)
}
func (m *MockProfileRepo) ReplaceEmploymentHistory(ctx context.Context, userID int64, items []domain.EmploymentHistory) ([]domain.EmploymentHistory, error) {
	args := m.Called(ctx, userID, items)
	return args.Get(0).([]domain.EmploymentHistory), args.Error(1)
}
func (m *MockProfileRepo) GetReferences(ctx context.Context, userID int64) ([]domain.Reference, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Reference), args.Error(1)
}
func (m *MockProfileRepo) ReplaceReferences(ctx context.Context, userID int64, items []domain.Reference) ([]domain.Reference, error) {
	args := m.Called(ctx, userID, items)
	return args.Get(0).([]domain.Reference), args.Error(1)
}
func (m *MockProfileRepo) GetSkills(ctx context.Context, userID int64) (*domain.SkillSet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillSet), args.Error(1)
}
func (m *MockProfileRepo) SaveSkills(ctx context.Context, userID int64, skills *domain.Skills, languages []domain.Language) (*domain.SkillSet, error) {
	args := m.Called(ctx, userID, skills, languages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkillSet), args.Error(1)
}
func (m *MockProfileRepo) GetCompleteProfile(ctx context.Context, userID int64) (*domain.CompleteProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompleteProfile), args.Error(1)
}

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Document, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Document), args.Error(1)
}
func (m *MockDocumentRepo) ReplaceAll(ctx context.Context, userID int64, docs []domain.Document) ([]domain.Document, error) {
	args := m.Called(ctx, userID, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) ListUsersWithStats(ctx context.Context) ([]domain.UserSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

// memStore is an in-memory FileStore.
type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (s *memStore) Save(_ context.Context, name string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return nil
}

func (s *memStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	return nil
}

func (s *memStore) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for name := range s.files {
		out = append(out, name)
	}
	return out
}

func uploadOf(field, name, contentType string, data []byte) domain.UploadFile {
	return domain.UploadFile{
		Field:       field,
		FileName:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// fakeScanner flags any content containing signature.
type fakeScanner struct {
	signature string
	err       error
}

func (s fakeScanner) Scan(_ context.Context, r io.Reader) (antivirus.Verdict, error) {
	if s.err != nil {
		return antivirus.Verdict{}, s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return antivirus.Verdict{}, err
	}
	if s.signature != "" && bytes.Contains(data, []byte(s.signature)) {
		return antivirus.Verdict{Infected: true, Threat: "Test.Signature"}, nil
	}
	return antivirus.Verdict{}, nil
}
