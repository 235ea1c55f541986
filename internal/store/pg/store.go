package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/ums/internal/domain/repository"
)

// Store implementa repository.Store sobre un pgxpool compartido.
type Store struct {
	pool *pgxpool.Pool

	admins, instructors, students *principalRepo
}

var _ repository.Store = (*Store)(nil)

type Options struct {
	MaxConns int32
}

func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxConns > 0 {
		pcfg.MaxConns = opts.MaxConns
	}
	pcfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return newStore(pool), nil
}

func newStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:        pool,
		admins:      &principalRepo{pool: pool, t: adminsTable},
		instructors: &principalRepo{pool: pool, t: instructorsTable},
		students:    &principalRepo{pool: pool, t: studentsTable},
	}
}

// Pool expone el pool para métricas.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Admins() repository.PrincipalRepository       { return s.admins }
func (s *Store) Instructors() repository.PrincipalRepository  { return s.instructors }
func (s *Store) Students() repository.PrincipalRepository     { return s.students }
func (s *Store) Courses() repository.CourseRepository         { return &courseRepo{pool: s.pool} }
func (s *Store) Offerings() repository.OfferingRepository     { return &offeringRepo{pool: s.pool} }
func (s *Store) Enrollments() repository.EnrollmentRepository { return &enrollmentRepo{pool: s.pool} }
func (s *Store) Marks() repository.MarkRepository             { return &markRepo{pool: s.pool} }
func (s *Store) Stats() repository.StatsRepository            { return &statsRepo{pool: s.pool} }

// mapErr traduce errores de pgx a los del dominio.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", repository.ErrInvalidReference, pgErr.ConstraintName)
		}
	}
	return err
}

func affected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
