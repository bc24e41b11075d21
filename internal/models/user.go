package models

import (
	"time"
)

// User represents a staff account
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Active       bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ValidRoles defines allowed user roles
var ValidRoles = map[string]bool{
	"volunteer":   true,
	"coordinator": true,
	"admin":       true,
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInput represents an admin create/update user request.
// Password is required on create and optional on update.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   *bool  `json:"is_active"`
}

// ProfileInput represents a self-service profile update. The current
// password must verify before any change is applied.
type ProfileInput struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
