package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/ums/internal/http/middlewares"
)

// registerAuthRoutes: login es público y es lo único con rate limit;
// verify pasa por el gate sin rol requerido.
func registerAuthRoutes(r chi.Router, d Deps) {
	c := d.Controllers.Auth

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(mw.Adapt(mw.WithNoStore())...)

		login := []mw.Middleware{}
		if d.LoginLimiter != nil {
			login = append(login, mw.WithRateLimit(mw.RateLimitConfig{
				Limiter: d.LoginLimiter,
				KeyFunc: mw.IPRateKey("login", d.TrustedProxies),
			}))
		}
		r.With(mw.Adapt(login...)...).Post("/login", c.Login)

		var rec mw.GateRecorder
		if d.Metrics != nil {
			rec = d.Metrics
		}
		r.With(mw.Adapt(mw.RequireAuth(d.Gate, rec))...).Get("/verify", c.Verify)
	})
}
