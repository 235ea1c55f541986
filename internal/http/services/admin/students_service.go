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

type StudentInput struct {
	AccountInput
	// StudentID es el legajo externo, único en la tabla.
	StudentID string
}

type StudentService interface {
	List(ctx context.Context) ([]repository.Principal, error)
	Create(ctx context.Context, in StudentInput) (*Created, error)
	Update(ctx context.Context, id int64, in StudentInput) error
	Delete(ctx context.Context, id int64) error
}

type studentService struct {
	repo    repository.PrincipalRepository
	acc     accounts
	cache   *cache.Loader
	timeout time.Duration
}

func NewStudentService(d Deps, acc accounts) StudentService {
	return &studentService{
		repo:    d.Store.Students(),
		acc:     acc,
		cache:   d.Cache,
		timeout: d.QueryTimeout,
	}
}

func (s *studentService) List(ctx context.Context) ([]repository.Principal, error) {
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *studentService) Create(ctx context.Context, in StudentInput) (*Created, error) {
	in.StudentID = strings.TrimSpace(in.StudentID)
	if aerr := s.acc.normalize(&in.AccountInput, "studentId", in.StudentID); aerr != nil {
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
		StudentID:    in.StudentID,
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache)
	logger.From(ctx).Info("student created", logger.Op("StudentService.Create"), logger.PrincipalID(p.ID))
	return &Created{ID: p.ID, InitialPassword: generated}, nil
}

func (s *studentService) Update(ctx context.Context, id int64, in StudentInput) error {
	in.StudentID = strings.TrimSpace(in.StudentID)
	if aerr := s.acc.normalize(&in.AccountInput, "studentId", in.StudentID); aerr != nil {
		return aerr
	}
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	return s.repo.Update(ctx, id, repository.UpdatePrincipalInput{
		Email:     in.Email,
		Name:      in.Name,
		StudentID: in.StudentID,
	})
}

func (s *studentService) Delete(ctx context.Context, id int64) error {
	qctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Delete(qctx, id); err != nil {
		return err
	}
	invalidateStats(ctx, s.cache)
	return nil
}
