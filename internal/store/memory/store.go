// Package memory implementa repository.Store en memoria. Respeta las mismas
// restricciones que el esquema de Postgres (unicidad y FKs restrictivas) para
// que los tests de servicio y HTTP ejerzan los mismos caminos de error.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
)

type principalRow struct {
	repository.Credential
}

type db struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	principals  map[types.Role]map[int64]*principalRow
	courses     map[int64]*repository.Course
	offerings   map[int64]*repository.OfferedCourse
	enrollments map[int64]*repository.Enrollment
	marks       map[int64]*repository.Mark
}

type Store struct {
	db *db
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	d := &db{
		now:         time.Now,
		principals:  map[types.Role]map[int64]*principalRow{},
		courses:     map[int64]*repository.Course{},
		offerings:   map[int64]*repository.OfferedCourse{},
		enrollments: map[int64]*repository.Enrollment{},
		marks:       map[int64]*repository.Mark{},
	}
	for _, r := range types.Roles {
		d.principals[r] = map[int64]*principalRow{}
	}
	return &Store{db: d}
}

func (d *db) nextID() int64 {
	d.seq++
	return d.seq
}

func (s *Store) Admins() repository.PrincipalRepository {
	return &principalRepo{db: s.db, role: types.RoleAdmin}
}

func (s *Store) Instructors() repository.PrincipalRepository {
	return &principalRepo{db: s.db, role: types.RoleInstructor}
}

func (s *Store) Students() repository.PrincipalRepository {
	return &principalRepo{db: s.db, role: types.RoleStudent}
}

func (s *Store) Courses() repository.CourseRepository         { return &courseRepo{db: s.db} }
func (s *Store) Offerings() repository.OfferingRepository     { return &offeringRepo{db: s.db} }
func (s *Store) Enrollments() repository.EnrollmentRepository { return &enrollmentRepo{db: s.db} }
func (s *Store) Marks() repository.MarkRepository             { return &markRepo{db: s.db} }
func (s *Store) Stats() repository.StatsRepository            { return &statsRepo{db: s.db} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

// ───────────────────────── principals ─────────────────────────

type principalRepo struct {
	db   *db
	role types.Role
}

func (r *principalRepo) Role() types.Role { return r.role }

func (r *principalRepo) table() map[int64]*principalRow { return r.db.principals[r.role] }

func (r *principalRepo) GetCredentialByEmail(ctx context.Context, email string) (*repository.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, row := range r.table() {
		if row.Email == email {
			c := row.Credential
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *principalRepo) GetByID(ctx context.Context, id int64) (*repository.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	row, ok := r.table()[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := row.Principal
	return &p, nil
}

func (r *principalRepo) List(ctx context.Context) ([]repository.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.Principal, 0, len(r.table()))
	for _, row := range r.table() {
		out = append(out, row.Principal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// checkUnique debe llamarse con el lock de escritura tomado.
func (r *principalRepo) checkUnique(selfID int64, email, studentID string) error {
	for id, row := range r.table() {
		if id == selfID {
			continue
		}
		if row.Email == email {
			return fmt.Errorf("%w: %s_email_key", repository.ErrConflict, r.role)
		}
		if r.role == types.RoleStudent && row.StudentID == studentID {
			return fmt.Errorf("%w: students_student_id_key", repository.ErrConflict)
		}
	}
	return nil
}

func (r *principalRepo) Create(ctx context.Context, in repository.CreatePrincipalInput) (*repository.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.checkUnique(0, in.Email, in.StudentID); err != nil {
		return nil, err
	}
	p := repository.Principal{
		ID:        r.db.nextID(),
		Role:      r.role,
		Email:     in.Email,
		Name:      in.Name,
		CreatedAt: r.db.now(),
	}
	switch r.role {
	case types.RoleInstructor:
		p.Department = in.Department
	case types.RoleStudent:
		p.StudentID = in.StudentID
	}
	r.table()[p.ID] = &principalRow{Credential: repository.Credential{Principal: p, PasswordHash: in.PasswordHash}}
	return &p, nil
}

func (r *principalRepo) Update(ctx context.Context, id int64, in repository.UpdatePrincipalInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.table()[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkUnique(id, in.Email, in.StudentID); err != nil {
		return err
	}
	row.Email = in.Email
	row.Name = in.Name
	switch r.role {
	case types.RoleInstructor:
		row.Department = in.Department
	case types.RoleStudent:
		row.StudentID = in.StudentID
	}
	return nil
}

func (r *principalRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.table()[id]; !ok {
		return repository.ErrNotFound
	}
	if r.db.principalReferenced(r.role, id) {
		return fmt.Errorf("%w: %s still referenced", repository.ErrInvalidReference, r.role)
	}
	delete(r.table(), id)
	return nil
}

func (d *db) principalReferenced(role types.Role, id int64) bool {
	switch role {
	case types.RoleInstructor:
		for _, o := range d.offerings {
			if o.InstructorID == id {
				return true
			}
		}
	case types.RoleStudent:
		for _, e := range d.enrollments {
			if e.StudentID == id {
				return true
			}
		}
		for _, m := range d.marks {
			if m.StudentID == id {
				return true
			}
		}
	}
	return false
}

func (r *principalRepo) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.table())), nil
}
