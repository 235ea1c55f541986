package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
	"github.com/dropDatabas3/ums/internal/observability/logger"
	"github.com/dropDatabas3/ums/internal/security/password"
)

// DefaultQueryTimeout acota el round-trip al store durante el login.
const DefaultQueryTimeout = 5 * time.Second

// TokenIssuer firma access tokens.
type TokenIssuer interface {
	IssueAccess(principalID int64, role types.Role) (string, time.Time, error)
}

type VerifierDeps struct {
	Stores       Stores
	Issuer       TokenIssuer
	QueryTimeout time.Duration
	// HashParams solo se usa para el hash señuelo de emails desconocidos.
	HashParams *password.Params
}

// Result de un login exitoso. Principal nunca lleva el hash.
type Result struct {
	Token     string
	ExpiresAt time.Time
	Principal repository.Principal
}

type Verifier struct {
	stores  Stores
	issuer  TokenIssuer
	timeout time.Duration
	params  password.Params

	dummyOnce sync.Once
	dummyHash string
}

func NewVerifier(d VerifierDeps) *Verifier {
	v := &Verifier{
		stores:  d.Stores,
		issuer:  d.Issuer,
		timeout: d.QueryTimeout,
		params:  password.Default,
	}
	if v.timeout <= 0 {
		v.timeout = DefaultQueryTimeout
	}
	if d.HashParams != nil {
		v.params = *d.HashParams
	}
	return v
}

// Authenticate verifica email+password contra la tabla del rol pedido y, si
// coinciden, emite un access token. El rol se valida antes de tocar el store.
func (v *Verifier) Authenticate(ctx context.Context, email, plain string, role types.Role) (*Result, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.verifier"),
		logger.Op("Authenticate"),
	)

	if _, err := types.ParseRole(string(role)); err != nil {
		return nil, ErrInvalidRole
	}
	repo, err := v.stores.For(role)
	if err != nil {
		return nil, err
	}

	email = NormalizeEmail(email)
	if email == "" || plain == "" {
		return nil, ErrInvalidCredentials
	}

	qctx, cancel := context.WithTimeout(ctx, v.timeout)
	cred, err := repo.GetCredentialByEmail(qctx, email)
	cancel()
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// mismo costo que un mismatch para no filtrar qué emails existen
		password.Verify(plain, v.dummy())
		log.Debug("login rejected", logger.Role(role.String()))
		return nil, ErrInvalidCredentials
	case err != nil:
		log.Error("credential lookup failed", logger.Role(role.String()), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !password.Verify(plain, cred.PasswordHash) {
		log.Debug("login rejected", logger.Role(role.String()))
		return nil, ErrInvalidCredentials
	}

	token, exp, err := v.issuer.IssueAccess(cred.ID, role)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, err
	}

	p := cred.Principal
	p.Role = role
	log.Debug("login ok", logger.Role(role.String()), logger.PrincipalID(p.ID))
	return &Result{Token: token, ExpiresAt: exp, Principal: p}, nil
}

// Profile retorna el principal de una identidad ya verificada.
// repository.ErrNotFound si la fila fue borrada después de emitir el token.
func (v *Verifier) Profile(ctx context.Context, ac AuthContext) (*repository.Principal, error) {
	repo, err := v.stores.For(ac.Role)
	if err != nil {
		return nil, err
	}
	qctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	p, err := repo.GetByID(qctx, ac.PrincipalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		logger.From(ctx).Error("principal lookup failed",
			logger.Component("auth.verifier"), logger.Op("Profile"), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	p.Role = ac.Role
	return p, nil
}

func (v *Verifier) dummy() string {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = password.Hash(v.params, "ums-dummy-password")
	})
	return v.dummyHash
}

// NormalizeEmail es la forma canónica con la que se guardan y buscan emails.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
