package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
)

// ───────────────────────── courses ─────────────────────────

type courseRepo struct{ db *db }

func (r *courseRepo) List(ctx context.Context) ([]repository.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]repository.Course, 0, len(r.db.courses))
	for _, c := range r.db.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*repository.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *courseRepo) codeTaken(selfID int64, code string) bool {
	for id, c := range r.db.courses {
		if id != selfID && c.Code == code {
			return true
		}
	}
	return false
}

func (r *courseRepo) Create(ctx context.Context, in repository.CourseInput) (*repository.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.codeTaken(0, in.Code) {
		return nil, fmt.Errorf("%w: courses_course_code_key", repository.ErrConflict)
	}
	c := &repository.Course{
		ID:         r.db.nextID(),
		Code:       in.Code,
		Name:       in.Name,
		Credits:    in.Credits,
		Department: in.Department,
		CreatedAt:  r.db.now(),
	}
	r.db.courses[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *courseRepo) Update(ctx context.Context, id int64, in repository.CourseInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.courses[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.codeTaken(id, in.Code) {
		return fmt.Errorf("%w: courses_course_code_key", repository.ErrConflict)
	}
	c.Code, c.Name, c.Credits, c.Department = in.Code, in.Name, in.Credits, in.Department
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.courses[id]; !ok {
		return repository.ErrNotFound
	}
	for _, o := range r.db.offerings {
		if o.CourseID == id {
			return fmt.Errorf("%w: offered_courses_course_id_fkey", repository.ErrInvalidReference)
		}
	}
	delete(r.db.courses, id)
	return nil
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.courses)), nil
}

// ───────────────────────── offerings ─────────────────────────

type offeringRepo struct{ db *db }

// hydrate completa los campos del join. Requiere el lock tomado.
func (d *db) hydrate(o repository.OfferedCourse) repository.OfferedCourse {
	if c, ok := d.courses[o.CourseID]; ok {
		o.CourseCode, o.CourseName, o.Credits = c.Code, c.Name, c.Credits
	}
	if i, ok := d.principals[types.RoleInstructor][o.InstructorID]; ok {
		o.InstructorName = i.Name
	}
	return o
}

func (r *offeringRepo) Create(ctx context.Context, in repository.OfferCourseInput) (*repository.OfferedCourse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.courses[in.CourseID]; !ok {
		return nil, fmt.Errorf("%w: offered_courses_course_id_fkey", repository.ErrInvalidReference)
	}
	if _, ok := r.db.principals[types.RoleInstructor][in.InstructorID]; !ok {
		return nil, fmt.Errorf("%w: offered_courses_instructor_id_fkey", repository.ErrInvalidReference)
	}
	o := &repository.OfferedCourse{
		ID:           r.db.nextID(),
		CourseID:     in.CourseID,
		InstructorID: in.InstructorID,
		Semester:     in.Semester,
		Year:         in.Year,
		CreatedAt:    r.db.now(),
	}
	r.db.offerings[o.ID] = o
	h := r.db.hydrate(*o)
	return &h, nil
}

func (r *offeringRepo) GetByID(ctx context.Context, id int64) (*repository.OfferedCourse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	o, ok := r.db.offerings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	h := r.db.hydrate(*o)
	return &h, nil
}

func (r *offeringRepo) filter(ctx context.Context, keep func(*repository.OfferedCourse) bool) ([]repository.OfferedCourse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []repository.OfferedCourse{}
	for _, o := range r.db.offerings {
		if keep(o) {
			out = append(out, r.db.hydrate(*o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CourseCode != out[j].CourseCode {
			return out[i].CourseCode < out[j].CourseCode
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *offeringRepo) ListByInstructor(ctx context.Context, instructorID int64) ([]repository.OfferedCourse, error) {
	return r.filter(ctx, func(o *repository.OfferedCourse) bool { return o.InstructorID == instructorID })
}

func (r *offeringRepo) ListByTerm(ctx context.Context, semester types.Semester, year int) ([]repository.OfferedCourse, error) {
	return r.filter(ctx, func(o *repository.OfferedCourse) bool { return o.Semester == semester && o.Year == year })
}

// ───────────────────────── enrollments ─────────────────────────

type enrollmentRepo struct{ db *db }

func (r *enrollmentRepo) Enroll(ctx context.Context, studentID, offeredCourseID int64) (*repository.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.principals[types.RoleStudent][studentID]; !ok {
		return nil, fmt.Errorf("%w: student_courses_student_id_fkey", repository.ErrInvalidReference)
	}
	o, ok := r.db.offerings[offeredCourseID]
	if !ok {
		return nil, fmt.Errorf("%w: student_courses_offered_course_id_fkey", repository.ErrInvalidReference)
	}
	for _, e := range r.db.enrollments {
		if e.StudentID == studentID && e.OfferedCourseID == offeredCourseID {
			return nil, fmt.Errorf("%w: student_courses_student_id_offered_course_id_key", repository.ErrConflict)
		}
	}
	e := &repository.Enrollment{
		ID:              r.db.nextID(),
		StudentID:       studentID,
		OfferedCourseID: offeredCourseID,
		EnrolledAt:      r.db.now(),
	}
	r.db.enrollments[e.ID] = e
	out := *e
	out.Offering = r.db.hydrate(*o)
	return &out, nil
}

func (r *enrollmentRepo) IsEnrolled(ctx context.Context, studentID, offeredCourseID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, e := range r.db.enrollments {
		if e.StudentID == studentID && e.OfferedCourseID == offeredCourseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID int64) ([]repository.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []repository.Enrollment{}
	for _, e := range r.db.enrollments {
		if e.StudentID != studentID {
			continue
		}
		cp := *e
		if o, ok := r.db.offerings[e.OfferedCourseID]; ok {
			cp.Offering = r.db.hydrate(*o)
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *enrollmentRepo) ListStudents(ctx context.Context, offeredCourseID int64) ([]repository.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []repository.Principal{}
	for _, e := range r.db.enrollments {
		if e.OfferedCourseID != offeredCourseID {
			continue
		}
		if s, ok := r.db.principals[types.RoleStudent][e.StudentID]; ok {
			out = append(out, s.Principal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ───────────────────────── marks ─────────────────────────

type markRepo struct{ db *db }

func (r *markRepo) Create(ctx context.Context, in repository.CreateMarkInput) (*repository.Mark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.principals[types.RoleStudent][in.StudentID]; !ok {
		return nil, fmt.Errorf("%w: student_marks_student_id_fkey", repository.ErrInvalidReference)
	}
	if _, ok := r.db.offerings[in.OfferedCourseID]; !ok {
		return nil, fmt.Errorf("%w: student_marks_offered_course_id_fkey", repository.ErrInvalidReference)
	}
	m := &repository.Mark{
		ID:              r.db.nextID(),
		StudentID:       in.StudentID,
		OfferedCourseID: in.OfferedCourseID,
		ActivityType:    in.ActivityType,
		Marks:           in.Marks,
		TotalMarks:      in.TotalMarks,
		CreatedAt:       r.db.now(),
	}
	r.db.marks[m.ID] = m
	cp := *m
	return &cp, nil
}

func (r *markRepo) ListForStudent(ctx context.Context, studentID, offeredCourseID int64) ([]repository.Mark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []repository.Mark{}
	for _, m := range r.db.marks {
		if m.StudentID == studentID && m.OfferedCourseID == offeredCourseID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ───────────────────────── stats ─────────────────────────

type statsRepo struct{ db *db }

func (r *statsRepo) InstructorStats(ctx context.Context, instructorID int64) (repository.InstructorStats, error) {
	var s repository.InstructorStats
	if err := ctx.Err(); err != nil {
		return s, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	owned := map[int64]bool{}
	for id, o := range r.db.offerings {
		if o.InstructorID == instructorID {
			owned[id] = true
		}
	}
	s.TotalCourses = int64(len(owned))

	students := map[int64]bool{}
	for _, e := range r.db.enrollments {
		if owned[e.OfferedCourseID] {
			students[e.StudentID] = true
		}
	}
	s.TotalStudents = int64(len(students))

	var sum float64
	var n int
	for _, m := range r.db.marks {
		if owned[m.OfferedCourseID] && m.TotalMarks > 0 {
			sum += m.Marks / m.TotalMarks * 100
			n++
		}
	}
	if n > 0 {
		s.AverageGrade = sum / float64(n)
	}
	return s, nil
}
