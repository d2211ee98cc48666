package handler

import "github.com/userhub/identity-system/internal/core/domain"

type updateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserName  string `json:"username"`
	Role      string `json:"role"      validate:"omitempty,oneof=ADMIN USER"`
	IsActive  *bool  `json:"is_active"`
}

type listUsersResponse struct {
	List  []*domain.User `json:"list"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
