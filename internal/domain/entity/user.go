package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, user
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene rol privilegiado.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRef identidad mínima de un usuario para decorar entregas en listados.
type UserRef struct {
	ID    string
	Name  string
	Email string
	Role  string
}
