// Package health contiene el service para health checks.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/ums/internal/http/dto/health"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps: DBCheck es obligatorio para estar ready; CacheCheck solo degrada.
type Deps struct {
	Version    string
	DBCheck    func(ctx context.Context) error
	CacheCheck func(ctx context.Context) error
	Timeout    time.Duration
}

type healthService struct {
	deps Deps
}

func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("health"))

	resp := dto.HealthResponse{
		Status:     "ready",
		Version:    s.deps.Version,
		Components: map[string]string{},
		Timestamp:  time.Now().UTC(),
	}

	probe := func(name string, fn func(context.Context) error) bool {
		if fn == nil {
			return true
		}
		cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
		defer cancel()
		if err := fn(cctx); err != nil {
			log.Warn("health probe failed", logger.String("component", name), logger.Err(err))
			resp.Components[name] = "error"
			return false
		}
		resp.Components[name] = "ok"
		return true
	}

	if !probe("db", s.deps.DBCheck) {
		resp.Status = "unavailable"
	}
	if !probe("cache", s.deps.CacheCheck) && resp.Status == "ready" {
		resp.Status = "degraded"
	}
	return resp
}
