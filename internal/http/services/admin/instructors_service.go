package admin

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/http/services/common"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

type InstructorInput struct {
	AccountInput
	Department string
}

// InstructorService administra la tabla de instructores.
type InstructorService interface {
	List(ctx context.Context) ([]repository.Principal, error)
	Create(ctx context.Context, in InstructorInput) (*Created, error)
	Update(ctx context.Context, id int64, in InstructorInput) error
	Delete(ctx context.Context, id int64) error
}

type instructorService struct {
	repo    repository.PrincipalRepository
	acc     accounts
	cache   *cache.Loader
	timeout time.Duration
}

func NewInstructorService(d Deps, acc accounts) InstructorService {
	return &instructorService{
		repo:    d.Store.Instructors(),
		acc:     acc,
		cache:   d.Cache,
		timeout: d.QueryTimeout,
	}
}

func (s *instructorService) List(ctx context.Context) ([]repository.Principal, error) {
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *instructorService) Create(ctx context.Context, in InstructorInput) (*Created, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("InstructorService.Create"))

	if aerr := s.acc.normalize(&in.AccountInput); aerr != nil {
		return nil, aerr
	}
	hash, generated, err := s.acc.passwordHash(in.Password)
	if err != nil {
		return nil, err
	}

	qctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	p, err := s.repo.Create(qctx, repository.CreatePrincipalInput{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Department:   strings.TrimSpace(in.Department),
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache)
	log.Info("instructor created", logger.PrincipalID(p.ID))
	return &Created{ID: p.ID, InitialPassword: generated}, nil
}

func (s *instructorService) Update(ctx context.Context, id int64, in InstructorInput) error {
	if aerr := s.acc.normalize(&in.AccountInput); aerr != nil {
		return aerr
	}
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.repo.Update(ctx, id, repository.UpdatePrincipalInput{
		Email:      in.Email,
		Name:       in.Name,
		Department: strings.TrimSpace(in.Department),
	})
}

func (s *instructorService) Delete(ctx context.Context, id int64) error {
	qctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Delete(qctx, id); err != nil {
		return err
	}
	invalidateStats(ctx, s.cache, common.InstructorStatsKey(id))
	return nil
}

// invalidateStats borra el agregado global y las keys extra que se indiquen.
func invalidateStats(ctx context.Context, c *cache.Loader, extra ...string) {
	if c == nil {
		return
	}
	c.Invalidate(ctx, append([]string{common.AdminStatsKey}, extra...)...)
}
