package repository

import (
	"context"
	"time"
)

type Enrollment struct {
	ID              int64
	StudentID       int64
	OfferedCourseID int64
	Offering        OfferedCourse
	EnrolledAt      time.Time
}

type EnrollmentRepository interface {
	// Enroll retorna ErrConflict si ya estaba inscripto y ErrInvalidReference
	// si la oferta no existe.
	Enroll(ctx context.Context, studentID, offeredCourseID int64) (*Enrollment, error)
	IsEnrolled(ctx context.Context, studentID, offeredCourseID int64) (bool, error)
	ListByStudent(ctx context.Context, studentID int64) ([]Enrollment, error)
	ListStudents(ctx context.Context, offeredCourseID int64) ([]Principal, error)
}

type Mark struct {
	ID              int64
	StudentID       int64
	OfferedCourseID int64
	ActivityType    string
	Marks           float64
	TotalMarks      float64
	CreatedAt       time.Time
}

type CreateMarkInput struct {
	StudentID       int64
	OfferedCourseID int64
	ActivityType    string
	Marks           float64
	TotalMarks      float64
}

type MarkRepository interface {
	Create(ctx context.Context, in CreateMarkInput) (*Mark, error)
	ListForStudent(ctx context.Context, studentID, offeredCourseID int64) ([]Mark, error)
}
