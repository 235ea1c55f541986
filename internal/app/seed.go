package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/security/password"
)

// Credenciales del admin inicial cuando no se pasan otras.
const (
	DefaultAdminEmail    = "admin@ums.com"
	DefaultAdminPassword = "admin123"
	DefaultAdminName     = "System Admin"
)

type SeedAdminInput struct {
	Email    string
	Password string
	Name     string
	// Force crea el admin aunque ya exista otro.
	Force bool
}

// SeedAdmin crea un admin si la tabla está vacía (o si Force). created=false
// significa que ya había admins y no se tocó nada.
func SeedAdmin(ctx context.Context, st repository.Store, p password.Params, in SeedAdminInput) (created bool, err error) {
	if in.Email == "" {
		in.Email = DefaultAdminEmail
	}
	if in.Password == "" {
		in.Password = DefaultAdminPassword
	}
	if in.Name == "" {
		in.Name = DefaultAdminName
	}

	admins := st.Admins()
	if !in.Force {
		n, err := admins.Count(ctx)
		if err != nil {
			return false, fmt.Errorf("count admins: %w", err)
		}
		if n > 0 {
			return false, nil
		}
	}

	hash, err := password.Hash(p, in.Password)
	if err != nil {
		return false, fmt.Errorf("hash: %w", err)
	}
	_, err = admins.Create(ctx, repository.CreatePrincipalInput{
		Email:        auth.NormalizeEmail(in.Email),
		Name:         in.Name,
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrConflict) {
		return false, fmt.Errorf("admin %s already exists: %w", in.Email, err)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
