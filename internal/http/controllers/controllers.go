// Package controllers es el composition root de los controllers HTTP.
// Cada área tiene su sub-paquete; este archivo solo los agrupa.
package controllers

import (
	"github.com/dropDatabas3/ums/internal/http/controllers/admin"
	"github.com/dropDatabas3/ums/internal/http/controllers/auth"
	"github.com/dropDatabas3/ums/internal/http/controllers/health"
	"github.com/dropDatabas3/ums/internal/http/controllers/instructor"
	"github.com/dropDatabas3/ums/internal/http/controllers/student"
	"github.com/dropDatabas3/ums/internal/http/services"
)

type Controllers struct {
	Auth       *auth.AuthController
	Admin      *admin.Controllers
	Instructor *instructor.Controller
	Student    *student.Controller
	Health     *health.HealthController
}

func New(s *services.Services, verifier auth.Authenticator, logins auth.LoginRecorder) *Controllers {
	return &Controllers{
		Auth:       auth.NewAuthController(verifier, logins),
		Admin:      admin.NewControllers(s.Admin),
		Instructor: instructor.NewController(s.Instructor),
		Student:    student.NewController(s.Student),
		Health:     health.NewHealthController(s.Health),
	}
}
