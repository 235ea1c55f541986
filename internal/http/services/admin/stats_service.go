package admin

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/http/services/common"
)

// Statistics se guarda en cache como JSON.
type Statistics struct {
	TotalStudents    int64
	TotalInstructors int64
	TotalCourses     int64
}

type StatsService interface {
	Statistics(ctx context.Context) (Statistics, error)
}

type statsService struct {
	store   repository.Store
	cache   *cache.Loader
	ttl     time.Duration
	timeout time.Duration
}

func NewStatsService(d Deps) StatsService {
	return &statsService{store: d.Store, cache: d.Cache, ttl: d.StatsTTL, timeout: d.QueryTimeout}
}

func (s *statsService) Statistics(ctx context.Context) (Statistics, error) {
	if s.cache == nil {
		return s.count(ctx)
	}
	return cache.Fetch(ctx, s.cache, common.AdminStatsKey, s.ttl, s.count)
}

// count corre los tres COUNT en paralelo; el primero que falla cancela al resto.
func (s *statsService) count(ctx context.Context) (Statistics, error) {
	ctx, cancel := common.Bound(ctx, s.timeout)
	defer cancel()

	var st Statistics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalStudents, err = s.store.Students().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.TotalInstructors, err = s.store.Instructors().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.TotalCourses, err = s.store.Courses().Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Statistics{}, err
	}
	return st, nil
}
