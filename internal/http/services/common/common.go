// Package common tiene helpers compartidos por los services de cada área.
package common

import (
	"context"
	"strconv"
	"strings"
	"time"

	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
)

// DefaultQueryTimeout si Deps no indica otro.
const DefaultQueryTimeout = 5 * time.Second

// Bound acota un round-trip al store.
func Bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultQueryTimeout
	}
	return context.WithTimeout(ctx, d)
}

// Keys del cache de estadísticas.
const AdminStatsKey = "stats:admin"

func InstructorStatsKey(instructorID int64) string {
	return "stats:instructor:" + strconv.FormatInt(instructorID, 10)
}

// Invalid arma el 422 con la lista de campos que fallaron.
func Invalid(fields ...string) *httperrors.AppError {
	return httperrors.ErrValidation.WithDetail("invalid fields: " + strings.Join(fields, ", "))
}

// Required retorna los nombres de los pares (nombre, valor) vacíos.
func Required(pairs ...string) []string {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	return missing
}
