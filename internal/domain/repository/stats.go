package repository

import "context"

type InstructorStats struct {
	TotalStudents int64
	TotalCourses  int64
	// AverageGrade es el promedio de marks/total_marks*100; 0 sin notas.
	AverageGrade float64
}

type StatsRepository interface {
	InstructorStats(ctx context.Context, instructorID int64) (InstructorStats, error)
}

// Store agrupa todos los repositorios de un driver.
type Store interface {
	Admins() PrincipalRepository
	Instructors() PrincipalRepository
	Students() PrincipalRepository
	Courses() CourseRepository
	Offerings() OfferingRepository
	Enrollments() EnrollmentRepository
	Marks() MarkRepository
	Stats() StatsRepository
	Ping(ctx context.Context) error
	Close()
}
