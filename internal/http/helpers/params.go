package helpers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
)

// IDParam lee un id numérico positivo del path ({id}, {offeredCourseId}).
func IDParam(r *http.Request, name string) (int64, *httperrors.AppError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, httperrors.ErrInvalidParameter.WithDetail(name + " must be a positive integer")
	}
	return id, nil
}
