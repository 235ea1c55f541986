package admin

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/http/services/common"
)

// CourseService administra el catálogo; las ofertas por semestre las crean
// los instructores.
type CourseService interface {
	List(ctx context.Context) ([]repository.Course, error)
	Create(ctx context.Context, in repository.CourseInput) (*repository.Course, error)
	Update(ctx context.Context, id int64, in repository.CourseInput) error
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	repo    repository.CourseRepository
	cache   *cache.Loader
	timeout time.Duration
}

func NewCourseService(d Deps) CourseService {
	return &courseService{repo: d.Store.Courses(), cache: d.Cache, timeout: d.QueryTimeout}
}

func validateCourse(in *repository.CourseInput) error {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Department = strings.TrimSpace(in.Department)

	bad := common.Required("course_code", in.Code, "course_name", in.Name)
	if in.Credits <= 0 {
		bad = append(bad, "credits")
	}
	if len(bad) > 0 {
		return common.Invalid(bad...)
	}
	return nil
}

func (s *courseService) List(ctx context.Context) ([]repository.Course, error) {
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *courseService) Create(ctx context.Context, in repository.CourseInput) (*repository.Course, error) {
	if err := validateCourse(&in); err != nil {
		return nil, err
	}
	qctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	c, err := s.repo.Create(qctx, in)
	if err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache)
	return c, nil
}

func (s *courseService) Update(ctx context.Context, id int64, in repository.CourseInput) error {
	if err := validateCourse(&in); err != nil {
		return err
	}
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.repo.Update(ctx, id, in)
}

func (s *courseService) Delete(ctx context.Context, id int64) error {
	qctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Delete(qctx, id); err != nil {
		return err
	}
	invalidateStats(ctx, s.cache)
	return nil
}
