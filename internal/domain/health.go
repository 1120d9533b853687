package domain

import "context"

type HealthStatus struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
	// Cache is only reported when Redis is configured.
	Cache string `json:"cache,omitempty"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}
