package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
)

// MaxBodyBytes limita cualquier body JSON de la API.
const MaxBodyBytes = 1 << 20

// ReadJSON decodifica JSON de forma tolerante (no falla por campos desconocidos).
// Valida Content-Type y limita el body a 1MB. Un body vacío deja v sin tocar.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) *httperrors.AppError {
	if !IsJSON(r) {
		return httperrors.ErrUnsupportedMediaType
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httperrors.ErrBodyTooLarge
		}
		return httperrors.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// IsJSON reporta si el Content-Type declara application/json.
func IsJSON(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message es el cuerpo {message} de las respuestas sin datos.
type Message struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Message{Message: msg})
}
