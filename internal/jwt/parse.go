package jwt

import (
	"errors"
	"fmt"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/ums/internal/domain/types"
)

var (
	// ErrInvalidToken cubre firma, formato, issuer y claims inválidos.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpired envuelve ErrInvalidToken; el gate no los distingue hacia afuera.
	ErrExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// Parse valida firma HS256, iss y exp (sin leeway) y retorna las claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	var claims Claims
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(i.now),
	}
	if i.Iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.Iss))
	}

	tok, err := jwtv5.ParseWithClaims(raw, &claims, func(*jwtv5.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	// exp es exclusivo: en iat+TTL el token ya no vale.
	if !i.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}
	if claims.PrincipalID <= 0 {
		return nil, fmt.Errorf("%w: missing principal id", ErrInvalidToken)
	}
	if _, err := types.ParseRole(string(claims.Role)); err != nil {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return &claims, nil
}
