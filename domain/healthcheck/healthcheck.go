package healthcheck

import (
	"github.com/x-xyz/marketplace/base/ctx"
)

// BackendStatus is the outcome of one ping
type BackendStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	// Check fails with the first unhealthy backend
	Check(context ctx.Ctx) error
	// Report pings every backend
	Report(context ctx.Ctx) []BackendStatus
}

// HealthCheckRepo pings one storage backend
type HealthCheckRepo interface {
	Name() string
	Ping(context ctx.Ctx) error
}
