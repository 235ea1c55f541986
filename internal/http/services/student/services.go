// Package student contiene los services de /api/student. Todo se resuelve
// sobre el id del student autenticado.
package student

import (
	"context"
	"time"

	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
	"github.com/dropDatabas3/ums/internal/http/services/common"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

type Deps struct {
	Store        repository.Store
	Cache        *cache.Loader
	QueryTimeout time.Duration
	// Now define el semestre vigente; nil usa time.Now.
	Now func() time.Time
}

type Service interface {
	// AvailableCourses lista las ofertas del semestre y año actuales.
	AvailableCourses(ctx context.Context) ([]repository.OfferedCourse, error)
	Register(ctx context.Context, studentID, offeredCourseID int64) (*repository.Enrollment, error)
	MyCourses(ctx context.Context, studentID int64) ([]repository.Enrollment, error)
	CourseMarks(ctx context.Context, studentID, offeredCourseID int64) ([]repository.Mark, error)
}

type service struct {
	store   repository.Store
	cache   *cache.Loader
	timeout time.Duration
	now     func() time.Time
}

func NewService(d Deps) Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &service{store: d.Store, cache: d.Cache, timeout: d.QueryTimeout, now: now}
}

func (s *service) AvailableCourses(ctx context.Context) ([]repository.OfferedCourse, error) {
	sem, year := types.CurrentTerm(s.now())
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.store.Offerings().ListByTerm(ctx, sem, year)
}

func (s *service) Register(ctx context.Context, studentID, offeredCourseID int64) (*repository.Enrollment, error) {
	if offeredCourseID <= 0 {
		return nil, common.Invalid("offeredCourseId")
	}

	qctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	oc, err := s.store.Offerings().GetByID(qctx, offeredCourseID)
	if err != nil {
		return nil, err
	}
	e, err := s.store.Enrollments().Enroll(qctx, studentID, offeredCourseID)
	if err != nil {
		return nil, err
	}

	// cambia totalStudents del instructor de la oferta
	if s.cache != nil {
		s.cache.Invalidate(ctx, common.InstructorStatsKey(oc.InstructorID))
	}
	logger.From(ctx).Info("course registration",
		logger.Op("Register"), logger.Int64("offered_course_id", offeredCourseID))
	return e, nil
}

func (s *service) MyCourses(ctx context.Context, studentID int64) ([]repository.Enrollment, error) {
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.store.Enrollments().ListByStudent(ctx, studentID)
}

func (s *service) CourseMarks(ctx context.Context, studentID, offeredCourseID int64) ([]repository.Mark, error) {
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.store.Marks().ListForStudent(ctx, studentID, offeredCourseID)
}
