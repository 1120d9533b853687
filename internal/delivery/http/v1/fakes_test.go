package v1

import (
	"context"
	"sort"
	"sync"
	"time"

	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
)

// memDB is a tiny in-memory stand-in for the users, jobs, applications and
// documents tables.
type memDB struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*domain.User
	jobs   map[int64]*domain.Job
	apps   map[int64]*domain.Application
	docs   map[int64][]domain.Document
}

func newMemDB() *memDB {
	return &memDB{
		users: map[string]*domain.User{},
		jobs:  map[int64]*domain.Job{},
		apps:  map[int64]*domain.Application{},
		docs:  map[int64][]domain.Document{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type memUserRepo struct{ db *memDB }

func (r memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[user.Email]; ok {
		return apperror.Conflict("User already exists")
	}
	user.ID = r.db.id()
	user.CreatedAt = time.Now()
	u := *user
	r.db.users[user.Email] = &u
	return nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[email]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memJobRepo struct{ db *memDB }

func (r memJobRepo) Fetch(_ context.Context) ([]domain.Job, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	jobs := make([]domain.Job, 0, len(r.db.jobs))
	for _, j := range r.db.jobs {
		jobs = append(jobs, *j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ID > jobs[k].ID })
	return jobs, nil
}

func (r memJobRepo) Create(_ context.Context, job *domain.Job) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	job.ID = r.db.id()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	j := *job
	r.db.jobs[job.ID] = &j
	return nil
}

func (r memJobRepo) Update(_ context.Context, job *domain.Job) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.jobs[job.ID]
	if !ok || cur.UserID != job.UserID {
		return domain.ErrNotFound
	}
	job.CreatedAt = cur.CreatedAt
	job.UpdatedAt = time.Now()
	j := *job
	r.db.jobs[job.ID] = &j
	return nil
}

func (r memJobRepo) Delete(_ context.Context, id, ownerID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.jobs[id]
	if !ok || cur.UserID != ownerID {
		return domain.ErrNotFound
	}
	for appID, a := range r.db.apps {
		if a.JobID == id {
			delete(r.db.apps, appID)
		}
	}
	delete(r.db.jobs, id)
	return nil
}

type memApplicationRepo struct{ db *memDB }

func (r memApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.jobs[app.JobID]; !ok {
		return apperror.NotFound("Job not found")
	}
	app.ID = r.db.id()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	a := *app
	r.db.apps[app.ID] = &a
	return nil
}

func (r memApplicationRepo) GetByUserID(_ context.Context, userID int64) ([]domain.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Application
	for _, a := range r.db.apps {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r memApplicationRepo) FetchAll(_ context.Context) ([]domain.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.Application
	for _, a := range r.db.apps {
		row := *a
		for _, u := range r.db.users {
			if u.ID == a.UserID {
				row.UserEmail = &u.Email
			}
		}
		if j, ok := r.db.jobs[a.JobID]; ok {
			row.JobTitle, row.Company = &j.Title, &j.Company
		}
		out = append(out, row)
	}
	return out, nil
}

func (r memApplicationRepo) UpdateStatus(_ context.Context, id int64, status string) (*domain.Application, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	out := *a
	return &out, nil
}

type memDocumentRepo struct{ db *memDB }

func (r memDocumentRepo) ListByUser(_ context.Context, userID int64) ([]domain.Document, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]domain.Document(nil), r.db.docs[userID]...), nil
}

func (r memDocumentRepo) ReplaceAll(_ context.Context, userID int64, docs []domain.Document) ([]domain.Document, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	prior := r.db.docs[userID]
	for i := range docs {
		docs[i].ID = r.db.id()
		docs[i].UploadedAt = time.Now()
	}
	r.db.docs[userID] = append([]domain.Document(nil), docs...)
	return prior, nil
}

type memAdminRepo struct{ db *memDB }

func (r memAdminRepo) ListUsersWithStats(_ context.Context) ([]domain.UserSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.UserSummary
	for _, u := range r.db.users {
		if u.Role == domain.RoleAdmin {
			continue
		}
		s := domain.UserSummary{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
		for _, a := range r.db.apps {
			if a.UserID == u.ID {
				s.ApplicationsCount++
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// emptyProfileUC answers every read as "nothing saved yet". Unused methods
// fall through to the nil embedded interface.
type emptyProfileUC struct {
	domain.ProfileUsecase
}

func (emptyProfileUC) GetPersonalInfo(context.Context, int64) (*domain.PersonalInfo, error) {
	return nil, nil
}

func (emptyProfileUC) GetSkills(context.Context, int64) (*domain.SkillSet, error) {
	return &domain.SkillSet{}, nil
}

func (emptyProfileUC) GetEmploymentHistory(context.Context, int64) ([]domain.EmploymentHistory, error) {
	return nil, nil
}

func (emptyProfileUC) GetCompleteProfile(context.Context, int64) (*domain.CompleteProfile, error) {
	return &domain.CompleteProfile{}, nil
}

func (emptyProfileUC) ReplaceEmploymentHistory(_ context.Context, _ int64, items []domain.EmploymentHistory) ([]domain.EmploymentHistory, error) {
	return items, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
