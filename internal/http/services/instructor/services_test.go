package instructor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/store/memory"
)

type fixture struct {
	svc        Service
	store      *memory.Store
	instructor int64
	other      int64
	student    int64
	course     int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	mk := func(repo repository.PrincipalRepository, email string, in repository.CreatePrincipalInput) int64 {
		in.Email, in.Name, in.PasswordHash = email, email, "x"
		p, err := repo.Create(ctx, in)
		require.NoError(t, err)
		return p.ID
	}
	f := &fixture{store: st}
	f.instructor = mk(st.Instructors(), "i1@ums.com", repository.CreatePrincipalInput{Department: "CS"})
	f.other = mk(st.Instructors(), "i2@ums.com", repository.CreatePrincipalInput{Department: "EE"})
	f.student = mk(st.Students(), "s1@ums.com", repository.CreatePrincipalInput{StudentID: "S-1"})

	c, err := st.Courses().Create(ctx, repository.CourseInput{Code: "CS101", Name: "Intro", Credits: 3, Department: "CS"})
	require.NoError(t, err)
	f.course = c.ID

	f.svc = NewService(Deps{
		Store:    st,
		Cache:    cache.NewLoader(cache.NewMemory(time.Minute)),
		StatsTTL: time.Minute,
	})
	return f
}

func ptr(v float64) *float64 { return &v }

func TestOfferCourseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OfferCourse(ctx, f.instructor, OfferInput{CourseID: f.course, Semester: "Winter", Year: 2025})
	require.ErrorIs(t, err, httperrors.ErrValidation)

	_, err = f.svc.OfferCourse(ctx, f.instructor, OfferInput{CourseID: f.course, Semester: "Fall", Year: 1800})
	require.ErrorIs(t, err, httperrors.ErrValidation)

	_, err = f.svc.OfferCourse(ctx, f.instructor, OfferInput{CourseID: 9999, Semester: "Fall", Year: 2025})
	require.ErrorIs(t, err, repository.ErrNotFound)

	oc, err := f.svc.OfferCourse(ctx, f.instructor, OfferInput{CourseID: f.course, Semester: " Fall ", Year: 2025})
	require.NoError(t, err)
	require.Equal(t, f.instructor, oc.InstructorID)
	require.Equal(t, "CS101", oc.CourseCode)
}

func TestOfferingsAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	oc, err := f.svc.OfferCourse(ctx, f.instructor, OfferInput{CourseID: f.course, Semester: "Spring", Year: 2025})
	require.NoError(t, err)

	_, err = f.svc.CourseStudents(ctx, f.other, oc.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.svc.PostMarks(ctx, f.other, MarkInput{
		OfferedCourseID: oc.ID, StudentID: f.student, ActivityType: "quiz",
		Marks: ptr(1), TotalMarks: ptr(10),
	})
	require.ErrorIs(t, err, repository.ErrNotFound)

	mine, err := f.svc.Courses(ctx, f.instructor)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	theirs, err := f.svc.Courses(ctx, f.other)
	require.NoError(t, err)
	require.Empty(t, theirs)
}

func TestPostMarks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	oc, err := f.svc.OfferCourse(ctx, f.instructor, OfferInput{CourseID: f.course, Semester: "Spring", Year: 2025})
	require.NoError(t, err)

	in := MarkInput{OfferedCourseID: oc.ID, StudentID: f.student, ActivityType: "midterm", Marks: ptr(30), TotalMarks: ptr(50)}

	_, err = f.svc.PostMarks(ctx, f.instructor, in)
	require.ErrorIs(t, err, httperrors.ErrNotEnrolled)

	_, err = f.store.Enrollments().Enroll(ctx, f.student, oc.ID)
	require.NoError(t, err)

	for _, bad := range []MarkInput{
		{OfferedCourseID: oc.ID, StudentID: f.student, ActivityType: "quiz", Marks: ptr(11), TotalMarks: ptr(10)},
		{OfferedCourseID: oc.ID, StudentID: f.student, ActivityType: "quiz", Marks: ptr(-1), TotalMarks: ptr(10)},
		{OfferedCourseID: oc.ID, StudentID: f.student, ActivityType: "quiz", Marks: ptr(1), TotalMarks: ptr(0)},
		{OfferedCourseID: oc.ID, StudentID: f.student, ActivityType: " ", Marks: ptr(1), TotalMarks: ptr(10)},
		{OfferedCourseID: oc.ID, StudentID: f.student, ActivityType: "quiz", TotalMarks: ptr(10)},
	} {
		_, err := f.svc.PostMarks(ctx, f.instructor, bad)
		require.ErrorIs(t, err, httperrors.ErrValidation)
	}

	// stats queda en cache hasta que una nota lo invalida
	st, err := f.svc.Stats(ctx, f.instructor)
	require.NoError(t, err)
	require.Equal(t, int64(1), st.TotalStudents)
	require.Zero(t, st.AverageGrade)

	m, err := f.svc.PostMarks(ctx, f.instructor, in)
	require.NoError(t, err)
	require.Equal(t, "midterm", m.ActivityType)

	st, err = f.svc.Stats(ctx, f.instructor)
	require.NoError(t, err)
	require.InDelta(t, 60.0, st.AverageGrade, 0.001)

	students, err := f.svc.CourseStudents(ctx, f.instructor, oc.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, "S-1", students[0].StudentID)
}
