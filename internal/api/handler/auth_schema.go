package handler

import "github.com/userhub/identity-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is returned by flows that change state without a body.
type messageResponse struct {
	Message string `json:"message"`
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	UserName  string `json:"username"   validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	Role      string `json:"role"       validate:"omitempty,oneof=ADMIN USER"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token       string       `json:"token"`
	User        *domain.User `json:"user"`
	Permissions []string     `json:"permissions"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	ResetToken string `json:"reset_token" validate:"required"`
	Password   string `json:"password"    validate:"required,min=8"`
}

type verifyEmailRequest struct {
	ResetToken string `json:"reset_token" validate:"required"`
}
