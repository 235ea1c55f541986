package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
)

type courseRepo struct{ pool *pgxpool.Pool }

const courseCols = `id, course_code, course_name, credits, department, created_at`

func scanCourse(row interface{ Scan(...any) error }) (*repository.Course, error) {
	var c repository.Course
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Credits, &c.Department, &c.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *courseRepo) List(ctx context.Context) ([]repository.Course, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+courseCols+` FROM courses ORDER BY course_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*repository.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseCols+` FROM courses WHERE id = $1`, id))
}

func (r *courseRepo) Create(ctx context.Context, in repository.CourseInput) (*repository.Course, error) {
	const q = `
		INSERT INTO courses (course_code, course_name, credits, department)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + courseCols
	return scanCourse(r.pool.QueryRow(ctx, q, in.Code, in.Name, in.Credits, in.Department))
}

func (r *courseRepo) Update(ctx context.Context, id int64, in repository.CourseInput) error {
	const q = `
		UPDATE courses
		SET course_code = $2, course_name = $3, credits = $4, department = $5
		WHERE id = $1`
	return affected(r.pool.Exec(ctx, q, id, in.Code, in.Name, in.Credits, in.Department))
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id))
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

type offeringRepo struct{ pool *pgxpool.Pool }

const offeringSelect = `
	SELECT oc.id, oc.course_id, oc.instructor_id, oc.semester, oc.year, oc.created_at,
	       c.course_code, c.course_name, c.credits, i.name
	FROM offered_courses oc
	JOIN courses c ON c.id = oc.course_id
	JOIN instructors i ON i.id = oc.instructor_id`

func scanOffering(row interface{ Scan(...any) error }) (*repository.OfferedCourse, error) {
	var (
		o   repository.OfferedCourse
		sem string
	)
	err := row.Scan(&o.ID, &o.CourseID, &o.InstructorID, &sem, &o.Year, &o.CreatedAt,
		&o.CourseCode, &o.CourseName, &o.Credits, &o.InstructorName)
	if err != nil {
		return nil, mapErr(err)
	}
	o.Semester = types.Semester(sem)
	return &o, nil
}

func (r *offeringRepo) list(ctx context.Context, q string, args ...any) ([]repository.OfferedCourse, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.OfferedCourse{}
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *offeringRepo) Create(ctx context.Context, in repository.OfferCourseInput) (*repository.OfferedCourse, error) {
	const q = `
		INSERT INTO offered_courses (course_id, instructor_id, semester, year)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	var id int64
	if err := r.pool.QueryRow(ctx, q, in.CourseID, in.InstructorID, string(in.Semester), in.Year).Scan(&id); err != nil {
		return nil, mapErr(err)
	}
	return r.GetByID(ctx, id)
}

func (r *offeringRepo) GetByID(ctx context.Context, id int64) (*repository.OfferedCourse, error) {
	return scanOffering(r.pool.QueryRow(ctx, offeringSelect+` WHERE oc.id = $1`, id))
}

func (r *offeringRepo) ListByInstructor(ctx context.Context, instructorID int64) ([]repository.OfferedCourse, error) {
	return r.list(ctx, offeringSelect+` WHERE oc.instructor_id = $1 ORDER BY oc.year DESC, oc.semester, c.course_code`, instructorID)
}

func (r *offeringRepo) ListByTerm(ctx context.Context, semester types.Semester, year int) ([]repository.OfferedCourse, error) {
	return r.list(ctx, offeringSelect+` WHERE oc.semester = $1 AND oc.year = $2 ORDER BY c.course_code`, string(semester), year)
}
