package types

import (
	"errors"
	"time"
)

var ErrInvalidSemester = errors.New("invalid semester")

type Semester string

const (
	SemesterSpring Semester = "Spring"
	SemesterFall   Semester = "Fall"
)

func ParseSemester(s string) (Semester, error) {
	switch v := Semester(s); v {
	case SemesterSpring, SemesterFall:
		return v, nil
	default:
		return "", ErrInvalidSemester
	}
}

// CurrentTerm devuelve el semestre vigente para t: enero a junio es Spring,
// julio a diciembre es Fall.
func CurrentTerm(t time.Time) (Semester, int) {
	if t.Month() <= time.June {
		return SemesterSpring, t.Year()
	}
	return SemesterFall, t.Year()
}
