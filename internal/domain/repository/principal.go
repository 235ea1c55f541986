package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/ums/internal/domain/types"
)

// Principal es una identidad de alguno de los tres roles, sin hash.
type Principal struct {
	ID         int64
	Role       types.Role
	Email      string
	Name       string
	Department string // solo instructor
	StudentID  string // solo student: legajo externo
	CreatedAt  time.Time
}

// Credential es lo que necesita el verificador de login: el principal y su hash.
// No debe salir de la capa de auth.
type Credential struct {
	Principal
	PasswordHash string
}

type CreatePrincipalInput struct {
	Email        string
	Name         string
	PasswordHash string
	Department   string
	StudentID    string
}

type UpdatePrincipalInput struct {
	Email      string
	Name       string
	Department string
	StudentID  string
}

// PrincipalRepository opera sobre la tabla de un rol concreto.
type PrincipalRepository interface {
	// Role indica qué tabla respalda este repositorio.
	Role() types.Role

	// GetCredentialByEmail busca por email exacto. ErrNotFound si no existe.
	GetCredentialByEmail(ctx context.Context, email string) (*Credential, error)

	GetByID(ctx context.Context, id int64) (*Principal, error)
	List(ctx context.Context) ([]Principal, error)

	// Create retorna ErrConflict si el email (o el legajo) ya existe.
	Create(ctx context.Context, in CreatePrincipalInput) (*Principal, error)
	Update(ctx context.Context, id int64, in UpdatePrincipalInput) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
