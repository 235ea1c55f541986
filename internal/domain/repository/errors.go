package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe (o no pertenece
	// al principal que lo pide).
	ErrNotFound = errors.New("not found")

	// ErrConflict indica una violación de unicidad (email, course_code,
	// inscripción duplicada).
	ErrConflict = errors.New("conflict")

	// ErrInvalidReference indica una FK rota (curso, oferta o principal inexistente).
	ErrInvalidReference = errors.New("invalid reference")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
