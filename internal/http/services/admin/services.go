// Package admin contiene los services de /api/admin.
package admin

import (
	"time"

	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/security/password"
)

// Deps contiene las dependencias para crear los services admin.
type Deps struct {
	Store        repository.Store
	Cache        *cache.Loader
	StatsTTL     time.Duration
	QueryTimeout time.Duration
	HashParams   password.Params
	Policy       password.Policy
}

// Services agrupa todos los services del dominio admin.
type Services struct {
	Instructors InstructorService
	Students    StudentService
	Courses     CourseService
	Stats       StatsService
}

func NewServices(d Deps) Services {
	if d.HashParams == (password.Params{}) {
		d.HashParams = password.Default
	}
	acc := accounts{hash: d.HashParams, policy: d.Policy}
	return Services{
		Instructors: NewInstructorService(d, acc),
		Students:    NewStudentService(d, acc),
		Courses:     NewCourseService(d),
		Stats:       NewStatsService(d),
	}
}
