package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// User represents a registered account that can own short URLs.
// PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserCreate represents the data needed to register a user.
type UserCreate struct {
	Username string
	Email    string
	Password string
}

// User validation and lookup errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("username must be 3-50 characters of letters, digits, hyphens or underscores")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Validate validates the registration data.
func (c *UserCreate) Validate() error {
	if !isValidUsername(c.Username) {
		return ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(c.Email); err != nil || strings.Contains(c.Email, " ") {
		return ErrInvalidEmail
	}
	if len(c.Password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

func isValidUsername(s string) bool {
	if len(s) < 3 || len(s) > 50 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
