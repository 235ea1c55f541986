package helpers

import (
	"net/http"

	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

// WriteServiceError responde el error de un service. Solo lo que termina en
// 5xx se loguea como error; el resto es input del cliente.
func WriteServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	appErr := httperrors.FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			logger.Layer("controller"), logger.Op(op), logger.Err(err))
	}
	httperrors.WriteError(w, appErr)
}
