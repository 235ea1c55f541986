// Package router arma el árbol de rutas chi de la API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/ums/internal/domain/types"
	"github.com/dropDatabas3/ums/internal/http/controllers"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	mw "github.com/dropDatabas3/ums/internal/http/middlewares"
	"github.com/dropDatabas3/ums/internal/metrics"
	"github.com/dropDatabas3/ums/internal/rate"
)

type Deps struct {
	Controllers *controllers.Controllers
	Gate        mw.Authorizer

	// Opcionales
	Metrics      *metrics.Metrics
	LoginLimiter rate.Limiter
	// TrustedProxies nil: la key del rate limit es RemoteAddr.
	TrustedProxies *mw.TrustedProxies
	CORSOrigins    []string
}

// New retorna el handler raíz. Cada área /api/{rol} queda detrás del gate
// con exactamente un rol requerido. El gate va dentro de un Group: corre
// después del match, con RoutePattern ya resuelto aunque rechace.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	base := []mw.Middleware{mw.WithRecover(), mw.WithRequestID()}
	if d.Metrics != nil {
		base = append(base, d.Metrics.Middleware)
	}
	base = append(base,
		mw.WithLogging(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
	)
	r.Use(mw.Adapt(base...)...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)
	registerAuthRoutes(r, d)

	c := d.Controllers
	r.Route("/api/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mw.Adapt(mw.WithNoStore(), requireRole(d, types.RoleAdmin))...)

			r.Get("/dashboard", c.Admin.Dashboard.Dashboard)
			r.Get("/statistics", c.Admin.Dashboard.Statistics)

			r.Get("/instructors", c.Admin.Instructors.List)
			r.Post("/instructors", c.Admin.Instructors.Create)
			r.Put("/instructors/{id}", c.Admin.Instructors.Update)
			r.Delete("/instructors/{id}", c.Admin.Instructors.Delete)

			r.Get("/students", c.Admin.Students.List)
			r.Post("/students", c.Admin.Students.Create)
			r.Put("/students/{id}", c.Admin.Students.Update)
			r.Delete("/students/{id}", c.Admin.Students.Delete)

			r.Get("/courses", c.Admin.Courses.List)
			r.Post("/courses", c.Admin.Courses.Create)
			r.Put("/courses/{id}", c.Admin.Courses.Update)
			r.Delete("/courses/{id}", c.Admin.Courses.Delete)
		})
	})

	r.Route("/api/instructor", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mw.Adapt(mw.WithNoStore(), requireRole(d, types.RoleInstructor))...)

			r.Get("/dashboard", c.Instructor.Dashboard)
			r.Post("/offer-course", c.Instructor.OfferCourse)
			r.Get("/courses", c.Instructor.Courses)
			r.Post("/post-marks", c.Instructor.PostMarks)
			r.Get("/course-students/{offeredCourseId}", c.Instructor.CourseStudents)
			r.Get("/stats", c.Instructor.Stats)
		})
	})

	r.Route("/api/student", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mw.Adapt(mw.WithNoStore(), requireRole(d, types.RoleStudent))...)

			r.Get("/available-courses", c.Student.AvailableCourses)
			r.Post("/register-course", c.Student.RegisterCourse)
			r.Get("/my-courses", c.Student.MyCourses)
			r.Get("/course-marks/{offeredCourseId}", c.Student.CourseMarks)
		})
	})

	return r
}

func requireRole(d Deps, role types.Role) mw.Middleware {
	var rec mw.GateRecorder
	if d.Metrics != nil {
		rec = d.Metrics
	}
	return mw.RequireRole(d.Gate, role, rec)
}
