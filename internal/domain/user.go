package domain

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ValidateRole(role UserRole) error {
	switch role {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return nil
	default:
		return ErrInvalidInput
	}
}

func ValidateRegisterInput(email, name, password string, role UserRole) error {
	if !strings.Contains(email, "@") || strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	if len(password) < 8 {
		return ErrInvalidInput
	}
	// Admin accounts are provisioned out of band, never self-registered.
	if role == RoleAdmin {
		return ErrForbidden
	}
	return ValidateRole(role)
}
