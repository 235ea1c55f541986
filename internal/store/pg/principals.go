package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
)

// table describe una tabla de principals. extra es la columna propia del
// rol ("" si no tiene). Los nombres son constantes, nunca input.
type table struct {
	name  string
	role  types.Role
	extra string
}

var (
	adminsTable      = table{name: "admins", role: types.RoleAdmin}
	instructorsTable = table{name: "instructors", role: types.RoleInstructor, extra: "department"}
	studentsTable    = table{name: "students", role: types.RoleStudent, extra: "student_id"}
)

func (t table) extraExpr() string {
	if t.extra == "" {
		return "''"
	}
	return t.extra
}

type principalRepo struct {
	pool *pgxpool.Pool
	t    table
}

var _ repository.PrincipalRepository = (*principalRepo)(nil)

func (r *principalRepo) Role() types.Role { return r.t.role }

func (r *principalRepo) columns() string {
	return fmt.Sprintf("id, email, name, %s, created_at", r.t.extraExpr())
}

func (r *principalRepo) scan(row interface{ Scan(...any) error }, p *repository.Principal, extraDst ...any) error {
	var extra string
	dst := append([]any{&p.ID, &p.Email, &p.Name, &extra, &p.CreatedAt}, extraDst...)
	if err := row.Scan(dst...); err != nil {
		return err
	}
	p.Role = r.t.role
	switch r.t.role {
	case types.RoleInstructor:
		p.Department = extra
	case types.RoleStudent:
		p.StudentID = extra
	}
	return nil
}

func (r *principalRepo) GetCredentialByEmail(ctx context.Context, email string) (*repository.Credential, error) {
	q := fmt.Sprintf(`SELECT %s, password_hash FROM %s WHERE email = $1`, r.columns(), r.t.name)

	var c repository.Credential
	if err := r.scan(r.pool.QueryRow(ctx, q, email), &c.Principal, &c.PasswordHash); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *principalRepo) GetByID(ctx context.Context, id int64) (*repository.Principal, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.columns(), r.t.name)

	var p repository.Principal
	if err := r.scan(r.pool.QueryRow(ctx, q, id), &p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *principalRepo) List(ctx context.Context) ([]repository.Principal, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, r.columns(), r.t.name)

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Principal{}
	for rows.Next() {
		var p repository.Principal
		if err := r.scan(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *principalRepo) extraValue(department, studentID string) string {
	switch r.t.role {
	case types.RoleInstructor:
		return department
	case types.RoleStudent:
		return studentID
	}
	return ""
}

func (r *principalRepo) Create(ctx context.Context, in repository.CreatePrincipalInput) (*repository.Principal, error) {
	var q string
	args := []any{in.Email, in.Name, in.PasswordHash}
	if r.t.extra == "" {
		q = fmt.Sprintf(`
			INSERT INTO %s (email, name, password_hash)
			VALUES ($1, $2, $3)
			RETURNING %s`, r.t.name, r.columns())
	} else {
		q = fmt.Sprintf(`
			INSERT INTO %s (email, name, password_hash, %s)
			VALUES ($1, $2, $3, $4)
			RETURNING %s`, r.t.name, r.t.extra, r.columns())
		args = append(args, r.extraValue(in.Department, in.StudentID))
	}

	var p repository.Principal
	if err := r.scan(r.pool.QueryRow(ctx, q, args...), &p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *principalRepo) Update(ctx context.Context, id int64, in repository.UpdatePrincipalInput) error {
	var q string
	args := []any{id, in.Email, in.Name}
	if r.t.extra == "" {
		q = fmt.Sprintf(`UPDATE %s SET email = $2, name = $3 WHERE id = $1`, r.t.name)
	} else {
		q = fmt.Sprintf(`UPDATE %s SET email = $2, name = $3, %s = $4 WHERE id = $1`, r.t.name, r.t.extra)
		args = append(args, r.extraValue(in.Department, in.StudentID))
	}
	return affected(r.pool.Exec(ctx, q, args...))
}

func (r *principalRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.t.name), id))
}

func (r *principalRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.t.name)).Scan(&n)
	return n, err
}
