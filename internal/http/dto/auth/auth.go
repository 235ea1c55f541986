// Package auth contiene los DTOs de /api/auth.
package auth

import (
	"time"

	"github.com/dropDatabas3/ums/internal/domain/repository"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}

// User es la vista pública de un principal; nunca lleva el hash.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	StudentID  string    `json:"student_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func UserFrom(p repository.Principal) User {
	return User{
		ID:         p.ID,
		Email:      p.Email,
		Name:       p.Name,
		Role:       p.Role.String(),
		Department: p.Department,
		StudentID:  p.StudentID,
		CreatedAt:  p.CreatedAt,
	}
}
