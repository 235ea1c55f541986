package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/ums/internal/domain/types"
)

type Course struct {
	ID         int64
	Code       string
	Name       string
	Credits    int
	Department string
	CreatedAt  time.Time
}

type CourseInput struct {
	Code       string
	Name       string
	Credits    int
	Department string
}

type CourseRepository interface {
	List(ctx context.Context) ([]Course, error)
	GetByID(ctx context.Context, id int64) (*Course, error)
	// Create retorna ErrConflict si el código ya existe.
	Create(ctx context.Context, in CourseInput) (*Course, error)
	Update(ctx context.Context, id int64, in CourseInput) error
	// Delete retorna ErrInvalidReference si el curso tiene ofertas.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// OfferedCourse es un curso dictado por un instructor en un semestre.
// Los campos Course* e InstructorName vienen del join.
type OfferedCourse struct {
	ID             int64
	CourseID       int64
	InstructorID   int64
	Semester       types.Semester
	Year           int
	CourseCode     string
	CourseName     string
	Credits        int
	InstructorName string
	CreatedAt      time.Time
}

type OfferCourseInput struct {
	CourseID     int64
	InstructorID int64
	Semester     types.Semester
	Year         int
}

type OfferingRepository interface {
	// Create retorna ErrInvalidReference si el curso o el instructor no existen.
	Create(ctx context.Context, in OfferCourseInput) (*OfferedCourse, error)
	GetByID(ctx context.Context, id int64) (*OfferedCourse, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]OfferedCourse, error)
	ListByTerm(ctx context.Context, semester types.Semester, year int) ([]OfferedCourse, error)
}
