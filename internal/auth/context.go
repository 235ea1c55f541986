package auth

import (
	"context"
	"strings"

	"github.com/dropDatabas3/ums/internal/domain/types"
)

// AuthContext es la identidad verificada de un request. Vive lo que vive el request.
type AuthContext struct {
	PrincipalID int64
	Role        types.Role
}

type ctxKey struct{}

func WithContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext retorna la identidad que dejó el gate, si la hay.
func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(ctxKey{}).(AuthContext)
	return ac, ok
}

// BearerToken extrae el token de un header Authorization. El esquema es
// case-insensitive; cualquier otro esquema cuenta como ausente.
func BearerToken(header string) (string, bool) {
	h := strings.TrimSpace(header)
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}
