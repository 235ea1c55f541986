// Package health contiene el controller para health checks.
package health

import (
	"net/http"

	"github.com/dropDatabas3/ums/internal/http/helpers"
	svc "github.com/dropDatabas3/ums/internal/http/services/health"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

type HealthController struct {
	service svc.HealthService
}

func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := c.service.Check(r.Context())

	status := http.StatusOK
	if resp.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}
	if resp.Version != "" {
		w.Header().Set("X-Service-Version", resp.Version)
	}

	logger.From(r.Context()).Debug("health check completed", logger.String("status", resp.Status))
	helpers.WriteJSON(w, status, resp)
}

// Healthz es liveness: responde mientras el proceso esté vivo.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteMessage(w, http.StatusOK, "ok")
}
