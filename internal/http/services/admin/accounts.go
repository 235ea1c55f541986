package admin

import (
	"net/mail"
	"strings"

	"github.com/dropDatabas3/ums/internal/auth"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/http/services/common"
	"github.com/dropDatabas3/ums/internal/security/password"
	tokens "github.com/dropDatabas3/ums/internal/security/token"
)

// initialPasswordBytes da 16 caracteres base64url.
const initialPasswordBytes = 12

// AccountInput son los datos comunes de instructores y students.
type AccountInput struct {
	Name     string
	Email    string
	Password string
}

// Created es el resultado de un alta. InitialPassword solo viene cuando
// la generó el server.
type Created struct {
	ID              int64
	InitialPassword string
}

type accounts struct {
	hash   password.Params
	policy password.Policy
}

// normalize valida nombre y email y deja el email en su forma canónica.
func (a accounts) normalize(in *AccountInput, extra ...string) *httperrors.AppError {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = auth.NormalizeEmail(in.Email)

	bad := common.Required(append([]string{"name", in.Name, "email", in.Email}, extra...)...)
	if in.Email != "" {
		if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
			bad = append(bad, "email")
		}
	}
	if len(bad) > 0 {
		return common.Invalid(bad...)
	}
	return nil
}

// passwordHash aplica la política a una password elegida o genera una inicial.
// Retorna el hash y, si se generó, la password en claro para mostrarla una vez.
func (a accounts) passwordHash(chosen string) (hash, generated string, err error) {
	plain := chosen
	if plain == "" {
		if plain, err = tokens.GenerateOpaqueToken(initialPasswordBytes); err != nil {
			return "", "", err
		}
		generated = plain
	} else if reasons, perr := a.policy.Check(plain); perr != nil {
		return "", "", httperrors.ErrPasswordTooWeak.WithDetail(strings.Join(reasons, ",")).WithCause(perr)
	}

	hash, err = password.Hash(a.hash, plain)
	if err != nil {
		return "", "", err
	}
	return hash, generated, nil
}
