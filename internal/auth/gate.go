package auth

import (
	"errors"

	"github.com/dropDatabas3/ums/internal/domain/types"
	"github.com/dropDatabas3/ums/internal/jwt"
)

// AnyRole se pasa a Authorize cuando el endpoint acepta cualquier rol.
const AnyRole types.Role = ""

// TokenParser valida un token firmado y retorna sus claims.
type TokenParser interface {
	Parse(raw string) (*jwt.Claims, error)
}

// Gate valida el bearer token de cada request. No hace I/O: firma y reloj.
type Gate struct {
	tokens TokenParser
}

func NewGate(tokens TokenParser) *Gate {
	return &Gate{tokens: tokens}
}

// Authorize resuelve el request a una AuthContext o a uno de ErrMissingToken,
// ErrInvalidToken, ErrForbidden. El rol se compara recién con un token válido.
func (g *Gate) Authorize(rawToken string, required types.Role) (AuthContext, error) {
	if rawToken == "" {
		return AuthContext{}, ErrMissingToken
	}
	claims, err := g.tokens.Parse(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) {
			return AuthContext{}, ErrInvalidToken
		}
		return AuthContext{}, errors.Join(ErrInvalidToken, err)
	}
	if required != AnyRole && claims.Role != required {
		return AuthContext{}, ErrForbidden
	}
	return AuthContext{PrincipalID: claims.PrincipalID, Role: claims.Role}, nil
}
