package auth

import (
	"errors"

	"github.com/dropDatabas3/ums/internal/domain/types"
)

// Taxonomía de fallas de autenticación. Ninguna se reintenta.
var (
	ErrMissingToken = errors.New("auth: missing bearer token")
	ErrInvalidToken = errors.New("auth: invalid or expired token")
	ErrForbidden    = errors.New("auth: role not allowed")

	// ErrInvalidRole es el mismo valor que types.ErrInvalidRole para que
	// errors.Is funcione desde cualquiera de los dos paquetes.
	ErrInvalidRole = types.ErrInvalidRole

	// ErrInvalidCredentials cubre email desconocido y password incorrecta.
	// Nunca distinguir los dos casos hacia el cliente.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	ErrStoreUnavailable = errors.New("auth: credential store unavailable")
)
