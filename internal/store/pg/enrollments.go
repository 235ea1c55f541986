package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
)

type enrollmentRepo struct{ pool *pgxpool.Pool }

func (r *enrollmentRepo) Enroll(ctx context.Context, studentID, offeredCourseID int64) (*repository.Enrollment, error) {
	const q = `
		INSERT INTO student_courses (student_id, offered_course_id)
		VALUES ($1, $2)
		RETURNING id, enrolled_at`
	e := repository.Enrollment{StudentID: studentID, OfferedCourseID: offeredCourseID}
	if err := r.pool.QueryRow(ctx, q, studentID, offeredCourseID).Scan(&e.ID, &e.EnrolledAt); err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (r *enrollmentRepo) IsEnrolled(ctx context.Context, studentID, offeredCourseID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM student_courses WHERE student_id = $1 AND offered_course_id = $2)`
	var ok bool
	err := r.pool.QueryRow(ctx, q, studentID, offeredCourseID).Scan(&ok)
	return ok, err
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID int64) ([]repository.Enrollment, error) {
	const q = `
		SELECT sc.id, sc.student_id, sc.offered_course_id, sc.enrolled_at,
		       oc.course_id, oc.instructor_id, oc.semester, oc.year,
		       c.course_code, c.course_name, c.credits, i.name
		FROM student_courses sc
		JOIN offered_courses oc ON oc.id = sc.offered_course_id
		JOIN courses c ON c.id = oc.course_id
		JOIN instructors i ON i.id = oc.instructor_id
		WHERE sc.student_id = $1
		ORDER BY oc.year DESC, oc.semester, c.course_code`

	rows, err := r.pool.Query(ctx, q, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Enrollment{}
	for rows.Next() {
		var (
			e   repository.Enrollment
			sem string
		)
		if err := rows.Scan(&e.ID, &e.StudentID, &e.OfferedCourseID, &e.EnrolledAt,
			&e.Offering.CourseID, &e.Offering.InstructorID, &sem, &e.Offering.Year,
			&e.Offering.CourseCode, &e.Offering.CourseName, &e.Offering.Credits, &e.Offering.InstructorName); err != nil {
			return nil, err
		}
		e.Offering.ID = e.OfferedCourseID
		e.Offering.Semester = types.Semester(sem)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *enrollmentRepo) ListStudents(ctx context.Context, offeredCourseID int64) ([]repository.Principal, error) {
	const q = `
		SELECT s.id, s.email, s.name, s.student_id, s.created_at
		FROM student_courses sc
		JOIN students s ON s.id = sc.student_id
		WHERE sc.offered_course_id = $1
		ORDER BY s.name`

	rows, err := r.pool.Query(ctx, q, offeredCourseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Principal{}
	for rows.Next() {
		p := repository.Principal{Role: types.RoleStudent}
		if err := rows.Scan(&p.ID, &p.Email, &p.Name, &p.StudentID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type markRepo struct{ pool *pgxpool.Pool }

func (r *markRepo) Create(ctx context.Context, in repository.CreateMarkInput) (*repository.Mark, error) {
	const q = `
		INSERT INTO student_marks (student_id, offered_course_id, activity_type, marks, total_marks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	m := repository.Mark{
		StudentID:       in.StudentID,
		OfferedCourseID: in.OfferedCourseID,
		ActivityType:    in.ActivityType,
		Marks:           in.Marks,
		TotalMarks:      in.TotalMarks,
	}
	err := r.pool.QueryRow(ctx, q, in.StudentID, in.OfferedCourseID, in.ActivityType, in.Marks, in.TotalMarks).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r *markRepo) ListForStudent(ctx context.Context, studentID, offeredCourseID int64) ([]repository.Mark, error) {
	const q = `
		SELECT id, student_id, offered_course_id, activity_type, marks, total_marks, created_at
		FROM student_marks
		WHERE student_id = $1 AND offered_course_id = $2
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, q, studentID, offeredCourseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []repository.Mark{}
	for rows.Next() {
		var m repository.Mark
		if err := rows.Scan(&m.ID, &m.StudentID, &m.OfferedCourseID, &m.ActivityType, &m.Marks, &m.TotalMarks, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type statsRepo struct{ pool *pgxpool.Pool }

func (r *statsRepo) InstructorStats(ctx context.Context, instructorID int64) (repository.InstructorStats, error) {
	const q = `
		SELECT
		  (SELECT COUNT(DISTINCT sc.student_id)
		     FROM student_courses sc
		     JOIN offered_courses oc ON oc.id = sc.offered_course_id
		    WHERE oc.instructor_id = $1),
		  (SELECT COUNT(*) FROM offered_courses WHERE instructor_id = $1),
		  (SELECT COALESCE(AVG(sm.marks / sm.total_marks * 100), 0)::float8
		     FROM student_marks sm
		     JOIN offered_courses oc ON oc.id = sm.offered_course_id
		    WHERE oc.instructor_id = $1)`

	var s repository.InstructorStats
	err := r.pool.QueryRow(ctx, q, instructorID).Scan(&s.TotalStudents, &s.TotalCourses, &s.AverageGrade)
	return s, err
}
