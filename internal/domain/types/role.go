package types

import (
	"errors"
	"strings"
)

// ErrInvalidRole se retorna cuando un string no corresponde a ningún rol.
var ErrInvalidRole = errors.New("invalid role")

// Role es el conjunto cerrado de roles del sistema. Cada rol tiene su propia
// tabla de principals; el email es único solo dentro de esa tabla.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Roles lista los roles válidos en orden estable.
var Roles = []Role{RoleAdmin, RoleInstructor, RoleStudent}

// ParseRole es el único constructor de Role desde input no confiable.
// Es estricto: no normaliza mayúsculas ni espacios.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

// RolesList retorna los roles separados por coma, para mensajes de error.
func RolesList() string {
	parts := make([]string, len(Roles))
	for i, r := range Roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
