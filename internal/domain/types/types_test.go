package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRoleIsStrict(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		require.Equal(t, r, got)
	}
	for _, bad := range []string{"", "Admin", " student", "professor", "root"} {
		_, err := ParseRole(bad)
		require.ErrorIs(t, err, ErrInvalidRole, bad)
	}
	require.Equal(t, "admin, instructor, student", RolesList())
}

func TestCurrentTerm(t *testing.T) {
	cases := []struct {
		month time.Month
		want  Semester
	}{
		{time.January, SemesterSpring},
		{time.June, SemesterSpring},
		{time.July, SemesterFall},
		{time.December, SemesterFall},
	}
	for _, tc := range cases {
		sem, year := CurrentTerm(time.Date(2025, tc.month, 15, 0, 0, 0, 0, time.UTC))
		require.Equal(t, tc.want, sem, tc.month.String())
		require.Equal(t, 2025, year)
	}
}

func TestParseSemester(t *testing.T) {
	s, err := ParseSemester("Fall")
	require.NoError(t, err)
	require.Equal(t, SemesterFall, s)

	_, err = ParseSemester("fall")
	require.ErrorIs(t, err, ErrInvalidSemester)
}
