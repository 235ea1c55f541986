// Package auth contiene los controllers de /api/auth.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
	dto "github.com/dropDatabas3/ums/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/http/helpers"
	mw "github.com/dropDatabas3/ums/internal/http/middlewares"
	"github.com/dropDatabas3/ums/internal/observability/logger"
)

// Authenticator es la parte de *auth.Verifier que usan los controllers.
type Authenticator interface {
	Authenticate(ctx context.Context, email, plain string, role types.Role) (*auth.Result, error)
	Profile(ctx context.Context, ac auth.AuthContext) (*repository.Principal, error)
}

// LoginRecorder cuenta intentos de login. *metrics.Metrics lo implementa.
type LoginRecorder interface {
	LoginAttempt(role, result string)
}

type AuthController struct {
	verifier Authenticator
	metrics  LoginRecorder
}

func NewAuthController(v Authenticator, m LoginRecorder) *AuthController {
	return &AuthController{verifier: v, metrics: m}
}

func (c *AuthController) record(role, result string) {
	if c.metrics != nil {
		c.metrics.LoginAttempt(role, result)
	}
}

// Login maneja POST /api/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Login"))

	// Sin Content-Type JSON el body no se lee: el request queda vacío y
	// responde MISSING_FIELDS como cualquier login incompleto.
	var req dto.LoginRequest
	if helpers.IsJSON(r) {
		if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
			httperrors.WriteError(w, aerr)
			return
		}
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Role) == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}

	role, err := types.ParseRole(strings.TrimSpace(req.Role))
	if err != nil {
		c.record("unknown", "invalid_role")
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.verifier.Authenticate(ctx, req.Email, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.record(role.String(), "invalid_credentials")
		case errors.Is(err, auth.ErrInvalidRole):
			c.record(role.String(), "invalid_role")
		default:
			c.record(role.String(), "error")
			log.Error("login failed", logger.Role(role.String()), logger.Err(err))
		}
		httperrors.WriteError(w, err)
		return
	}

	c.record(role.String(), "ok")
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Unix(),
		User:      dto.UserFrom(res.Principal),
	})
}

// Verify maneja GET /api/auth/verify. Corre detrás de mw.RequireAuth.
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}

	p, err := c.verifier.Profile(r.Context(), ac)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("user not found"))
			return
		}
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.UserFrom(*p))
}
