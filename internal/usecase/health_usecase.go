package usecase

import (
	"context"
	"time"

	"job-portal-backend/internal/domain"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain check such as redis.HealthCheck.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthUsecase struct {
	db    Pinger
	cache Pinger
}

// NewHealthUsecase reports on the database and, when cache is non-nil, on
// the Redis connection as well.
func NewHealthUsecase(db Pinger, cache Pinger) domain.HealthUsecase {
	return &healthUsecase{db: db, cache: cache}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{
		Status:   "ok",
		Message:  "Backend server is running",
		Database: "up",
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if u.db == nil || u.db.Ping(ctx) != nil {
		status.Database = "down"
	}
	if u.cache != nil {
		status.Cache = "up"
		if u.cache.Ping(ctx) != nil {
			status.Cache = "down"
		}
	}
	return status
}
