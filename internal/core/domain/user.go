package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailNotVerified = errors.New("email not verified")
var ErrResetTokenExpired = errors.New("reset token expired")
var ErrSamePassword = errors.New("new password must differ from the old one")
var ErrTooManyAttempts = errors.New("too many login attempts")

// User models an authenticated principal. The password hash, the reset token
// and the soft-delete flag never leave the service in JSON responses.
type User struct {
	ID                   string    `json:"id"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	UserName             string    `json:"username"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	Role                 string    `json:"role"`
	IsVerified           bool      `json:"is_verified"`
	ResetToken           string    `json:"-"`
	ResetTokenExpiration time.Time `json:"-"`
	IsActive             bool      `json:"is_active"`
	IsDeleted            bool      `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
