// Package instructor contiene los services de /api/instructor. Toda operación
// recibe el id del instructor autenticado y solo ve sus propias ofertas.
package instructor

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/http/services/common"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

type Deps struct {
	Store        repository.Store
	Cache        *cache.Loader
	StatsTTL     time.Duration
	QueryTimeout time.Duration
}

type OfferInput struct {
	CourseID int64
	Semester string
	Year     int
}

type MarkInput struct {
	OfferedCourseID int64
	StudentID       int64
	ActivityType    string
	Marks           *float64
	TotalMarks      *float64
}

// Rango aceptado para el año de una oferta.
const (
	minYear = 1900
	maxYear = 2999
)

type Service interface {
	OfferCourse(ctx context.Context, instructorID int64, in OfferInput) (*repository.OfferedCourse, error)
	Courses(ctx context.Context, instructorID int64) ([]repository.OfferedCourse, error)
	PostMarks(ctx context.Context, instructorID int64, in MarkInput) (*repository.Mark, error)
	CourseStudents(ctx context.Context, instructorID, offeredCourseID int64) ([]repository.Principal, error)
	Stats(ctx context.Context, instructorID int64) (repository.InstructorStats, error)
}

type service struct {
	store   repository.Store
	cache   *cache.Loader
	ttl     time.Duration
	timeout time.Duration
}

func NewService(d Deps) Service {
	return &service{store: d.Store, cache: d.Cache, ttl: d.StatsTTL, timeout: d.QueryTimeout}
}

func (s *service) OfferCourse(ctx context.Context, instructorID int64, in OfferInput) (*repository.OfferedCourse, error) {
	sem, err := types.ParseSemester(strings.TrimSpace(in.Semester))
	var bad []string
	if err != nil {
		bad = append(bad, "semester")
	}
	if in.CourseID <= 0 {
		bad = append(bad, "courseId")
	}
	if in.Year < minYear || in.Year > maxYear {
		bad = append(bad, "year")
	}
	if len(bad) > 0 {
		return nil, common.Invalid(bad...)
	}

	qctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	if _, err := s.store.Courses().GetByID(qctx, in.CourseID); err != nil {
		return nil, err
	}
	oc, err := s.store.Offerings().Create(qctx, repository.OfferCourseInput{
		CourseID:     in.CourseID,
		InstructorID: instructorID,
		Semester:     sem,
		Year:         in.Year,
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, instructorID)
	logger.From(ctx).Info("course offered",
		logger.Op("OfferCourse"), logger.Int64("offered_course_id", oc.ID))
	return oc, nil
}

func (s *service) Courses(ctx context.Context, instructorID int64) ([]repository.OfferedCourse, error) {
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.store.Offerings().ListByInstructor(ctx, instructorID)
}

// owned retorna la oferta solo si es del instructor; si no, ErrNotFound para
// no revelar ofertas ajenas.
func (s *service) owned(ctx context.Context, instructorID, offeredCourseID int64) (*repository.OfferedCourse, error) {
	oc, err := s.store.Offerings().GetByID(ctx, offeredCourseID)
	if err != nil {
		return nil, err
	}
	if oc.InstructorID != instructorID {
		return nil, repository.ErrNotFound
	}
	return oc, nil
}

func validateMark(in MarkInput) error {
	var bad []string
	if in.OfferedCourseID <= 0 {
		bad = append(bad, "offeredCourseId")
	}
	if in.StudentID <= 0 {
		bad = append(bad, "studentId")
	}
	if strings.TrimSpace(in.ActivityType) == "" {
		bad = append(bad, "activityType")
	}
	switch {
	case in.TotalMarks == nil || *in.TotalMarks <= 0:
		bad = append(bad, "totalMarks")
	case in.Marks == nil || *in.Marks < 0 || *in.Marks > *in.TotalMarks:
		bad = append(bad, "marks")
	}
	if len(bad) > 0 {
		return common.Invalid(bad...)
	}
	return nil
}

func (s *service) PostMarks(ctx context.Context, instructorID int64, in MarkInput) (*repository.Mark, error) {
	if err := validateMark(in); err != nil {
		return nil, err
	}

	qctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	if _, err := s.owned(qctx, instructorID, in.OfferedCourseID); err != nil {
		return nil, err
	}
	enrolled, err := s.store.Enrollments().IsEnrolled(qctx, in.StudentID, in.OfferedCourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, httperrors.ErrNotEnrolled
	}

	m, err := s.store.Marks().Create(qctx, repository.CreateMarkInput{
		StudentID:       in.StudentID,
		OfferedCourseID: in.OfferedCourseID,
		ActivityType:    strings.TrimSpace(in.ActivityType),
		Marks:           *in.Marks,
		TotalMarks:      *in.TotalMarks,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, instructorID)
	return m, nil
}

func (s *service) CourseStudents(ctx context.Context, instructorID, offeredCourseID int64) ([]repository.Principal, error) {
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	if _, err := s.owned(ctx, instructorID, offeredCourseID); err != nil {
		return nil, err
	}
	return s.store.Enrollments().ListStudents(ctx, offeredCourseID)
}

func (s *service) Stats(ctx context.Context, instructorID int64) (repository.InstructorStats, error) {
	load := func(ctx context.Context) (repository.InstructorStats, error) {
		ctx, cancel := common.Bound(ctx, s.timeout)
		defer cancel()
		return s.store.Stats().InstructorStats(ctx, instructorID)
	}
	if s.cache == nil {
		return load(ctx)
	}
	return cache.Fetch(ctx, s.cache, common.InstructorStatsKey(instructorID), s.ttl, load)
}

func (s *service) invalidate(ctx context.Context, instructorID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, common.InstructorStatsKey(instructorID))
	}
}
