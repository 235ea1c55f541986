package auth

import (
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
)

// Stores tiene un repositorio por rol. Cada tabla es independiente: el mismo
// email puede existir como admin y como student.
type Stores struct {
	Admins      repository.PrincipalRepository
	Instructors repository.PrincipalRepository
	Students    repository.PrincipalRepository
}

// StoresFrom arma Stores desde un driver completo.
func StoresFrom(s repository.Store) Stores {
	return Stores{Admins: s.Admins(), Instructors: s.Instructors(), Students: s.Students()}
}

// For es el único punto que despacha rol -> tabla.
func (s Stores) For(r types.Role) (repository.PrincipalRepository, error) {
	var repo repository.PrincipalRepository
	switch r {
	case types.RoleAdmin:
		repo = s.Admins
	case types.RoleInstructor:
		repo = s.Instructors
	case types.RoleStudent:
		repo = s.Students
	default:
		return nil, ErrInvalidRole
	}
	if repo == nil {
		return nil, ErrStoreUnavailable
	}
	return repo, nil
}
