// Package errors define el formato de error HTTP de la API.
// Todo handler responde sus fallas con un *AppError vía WriteError.
package errors

import (
	"fmt"
	"net/http"
)

// AppError es el error que viaja hasta el cliente.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa, solo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is compara por Code, así las copias de WithDetail/WithCause siguen
// matcheando contra la variable predefinida.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Wrap crea un AppError conservando err como causa.
func Wrap(err error, status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        err,
	}
}

// WithDetail devuelve una COPIA; las variables predefinidas no se mutan.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con err como causa.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// ERRORES PREDEFINIDOS
// =================================================================================

// ---------------------------------------------------------------------------------
// 400 Bad Request
// ---------------------------------------------------------------------------------

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Bad request",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "Request body is not valid JSON",
		HTTPStatus: http.StatusBadRequest,
	}

	// Mensaje histórico del login; los clientes lo muestran tal cual.
	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Please provide email, password and role",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidParameter = &AppError{
		Code:       "INVALID_PARAMETER",
		Message:    "Invalid path or query parameter",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidRole = &AppError{
		Code:       "INVALID_ROLE",
		Message:    "Invalid role",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNotEnrolled = &AppError{
		Code:       "NOT_ENROLLED",
		Message:    "Student is not enrolled in this course",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "Request body too large",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}

	ErrUnsupportedMediaType = &AppError{
		Code:       "UNSUPPORTED_MEDIA_TYPE",
		Message:    "Content-Type must be application/json",
		HTTPStatus: http.StatusUnsupportedMediaType,
	}
)

// ---------------------------------------------------------------------------------
// 401 / 403
// ---------------------------------------------------------------------------------

var (
	// Mismo mensaje para email desconocido y password incorrecta.
	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid credentials",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenMissing = &AppError{
		Code:       "TOKEN_MISSING",
		Message:    "No token provided",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "Invalid token",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Not authorized",
		HTTPStatus: http.StatusForbidden,
	}
)

// ---------------------------------------------------------------------------------
// 404 / 405 / 409 / 422 / 429
// ---------------------------------------------------------------------------------

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method not allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrConflict = &AppError{
		Code:       "CONFLICT",
		Message:    "Resource already exists",
		HTTPStatus: http.StatusConflict,
	}

	ErrPasswordTooWeak = &AppError{
		Code:       "PASSWORD_TOO_WEAK",
		Message:    "Password does not meet the password policy",
		HTTPStatus: http.StatusUnprocessableEntity,
	}

	ErrValidation = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "One or more fields are invalid",
		HTTPStatus: http.StatusUnprocessableEntity,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, try again later",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// ---------------------------------------------------------------------------------
// 5xx
// ---------------------------------------------------------------------------------

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Server error",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrStoreUnavailable = &AppError{
		Code:       "STORE_UNAVAILABLE",
		Message:    "Server error",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "Service unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
