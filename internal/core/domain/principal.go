package domain

import (
	"errors"
	"time"
)

// Role authorities embedded in token claims.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Principal models an authenticated actor. Admins and users share the same
// shape and live in disjoint stores, so an email may exist once per store.
type Principal struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
