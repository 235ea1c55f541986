package jwt

import (
	"errors"
	"strconv"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/ums/internal/domain/types"
)

// DefaultAccessTTL es la vida de un access token si la config no indica otra.
const DefaultAccessTTL = time.Hour

var ErrWeakSecret = errors.New("jwt: signing secret is empty")

// Claims del access token. "id" y "role" mantienen los nombres que ya
// consumen los clientes.
type Claims struct {
	PrincipalID int64      `json:"id"`
	Role        types.Role `json:"role"`
	jwtv5.RegisteredClaims
}

// Issuer firma y valida access tokens HS256 con un secreto compartido.
// No hay estado server-side: un token vale hasta su exp.
type Issuer struct {
	Iss       string
	AccessTTL time.Duration
	secret    []byte
	// Now permite fijar el reloj en tests.
	Now func() time.Time
}

func NewIssuer(iss string, secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &Issuer{
		Iss:       iss,
		AccessTTL: ttl,
		secret:    append([]byte(nil), secret...),
		Now:       time.Now,
	}, nil
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// IssueAccess firma un token para el principal. iat se trunca al segundo y
// nbf=iat, así el token vale exactamente en [iat, iat+TTL).
func (i *Issuer) IssueAccess(principalID int64, role types.Role) (string, time.Time, error) {
	iat := i.now().Truncate(time.Second)
	exp := iat.Add(i.AccessTTL)

	claims := Claims{
		PrincipalID: principalID,
		Role:        role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   strconv.FormatInt(principalID, 10),
			IssuedAt:  jwtv5.NewNumericDate(iat),
			NotBefore: jwtv5.NewNumericDate(iat),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
