package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/domain/types"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

// Authorizer es lo que RequireRole necesita del gate.
type Authorizer interface {
	Authorize(rawToken string, required types.Role) (auth.AuthContext, error)
}

// GateRecorder cuenta decisiones del gate. *metrics.Metrics lo implementa.
type GateRecorder interface {
	GateDecision(requiredRole, result string)
}

func contextWithIdentity(ctx context.Context, id *identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func markIdentity(ctx context.Context, ac auth.AuthContext) {
	if id, ok := ctx.Value(identityKey{}).(*identity); ok {
		id.ac, id.ok = ac, true
	}
}

// RequireRole corre el gate antes del handler. Con required == auth.AnyRole
// alcanza con un token válido. El rechazo es terminal: el handler no corre.
func RequireRole(gate Authorizer, required types.Role, rec GateRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := auth.BearerToken(r.Header.Get("Authorization"))

			ac, err := gate.Authorize(raw, required)
			if rec != nil {
				rec.GateDecision(required.String(), gateResult(err))
			}
			if err != nil {
				logger.From(r.Context()).Debug("request rejected by gate",
					logger.Component("gate"),
					logger.Role(required.String()),
					logger.Err(err),
				)
				if errors.Is(err, auth.ErrMissingToken) || errors.Is(err, auth.ErrInvalidToken) {
					w.Header().Set("WWW-Authenticate", `Bearer realm="ums"`)
				}
				httperrors.WriteError(w, err)
				return
			}

			ctx := auth.WithContext(r.Context(), ac)
			markIdentity(ctx, ac)
			ctx = logger.WithFields(ctx,
				logger.Role(ac.Role.String()),
				logger.PrincipalID(ac.PrincipalID),
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth es RequireRole sin rol requerido (p.ej. /api/auth/verify).
func RequireAuth(gate Authorizer, rec GateRecorder) Middleware {
	return RequireRole(gate, auth.AnyRole, rec)
}

func gateResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, auth.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, auth.ErrForbidden):
		return "forbidden"
	default:
		return "invalid_token"
	}
}

// MustAuth retorna la identidad verificada. Solo se llama detrás de RequireRole;
// si falta es un error de wiring y responde 401 igual.
func MustAuth(w http.ResponseWriter, r *http.Request) (auth.AuthContext, bool) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
	}
	return ac, ok
}
