package model

import (
	"strings"
	"time"
)

// User represents an application user in the database. Email is the unique
// login identifier.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserRequest represents a user registration request.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// TokenRequest represents a token issuance (login) request.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents a partial profile update. Nil fields are left
// untouched; any other field in the payload is rejected at decode time.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

// UserResponse represents user data safe for API responses (no password hash).
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenResponse carries the bearer token issued on login.
type TokenResponse struct {
	Token string `json:"token"`
}

// NormalizeEmail lower-cases the domain part of an email address. The local
// part is case-sensitive per RFC 5321 and is preserved unchanged.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
