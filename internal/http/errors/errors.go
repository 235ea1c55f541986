package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
	"github.com/dropDatabas3/ums/internal/security/password"
)

// errorResponse controla exactamente qué campos ve el cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// FromError convierte cualquier error de las capas de abajo en un AppError.
// Lo que no se reconoce termina como 500 conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if mapped := FromAuth(err); mapped != nil {
		return mapped
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound.WithCause(err)
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict.WithCause(err)
	case errors.Is(err, repository.ErrInvalidReference):
		// la fila referenciada no existe, o la fila a borrar sigue referenciada
		return ErrConflict.WithDetail("resource is referenced by other records").WithCause(err)
	case errors.Is(err, types.ErrInvalidSemester):
		return ErrValidation.WithDetail("semester must be Spring or Fall").WithCause(err)
	case errors.Is(err, password.ErrTooWeak), errors.Is(err, password.ErrBlacklisted):
		return ErrPasswordTooWeak.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}

// FromAuth mapea la taxonomía de internal/auth. nil si err no pertenece a ella.
func FromAuth(err error) *AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrMissingToken):
		return ErrTokenMissing.WithCause(err)
	case errors.Is(err, auth.ErrInvalidToken):
		return ErrTokenInvalid.WithCause(err)
	case errors.Is(err, auth.ErrForbidden):
		return ErrForbidden.WithCause(err)
	case errors.Is(err, auth.ErrInvalidRole):
		return ErrInvalidRole.WithCause(err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return ErrInvalidCredentials.WithCause(err)
	case errors.Is(err, auth.ErrStoreUnavailable):
		return ErrStoreUnavailable.WithCause(err)
	}
	return nil
}

// WriteError escribe err como JSON {code,message,detail?} con su status.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
