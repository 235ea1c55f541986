package router

import (
	"github.com/go-chi/chi/v5"
)

// registerHealthRoutes: sin auth. /metrics solo si hay registry.
func registerHealthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Health

	r.Get("/healthz", c.Healthz)
	r.Get("/readyz", c.Readyz)
	if d.Metrics != nil {
		r.Method("GET", "/metrics", d.Metrics.Handler())
	}
}
