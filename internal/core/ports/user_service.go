package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// UpdateUserInput carries the profile fields a user (or an admin) may change.
// Nil/empty fields are left untouched.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	UserName  string
	Role      string
	IsActive  *bool
}

// ListUsersResult is returned by ListUsers.
type ListUsersResult struct {
	Items []*domain.User
	Total int64
	Page  int
	Limit int
}

// UserService defines profile and administrative operations over accounts.
type UserService interface {
	GetProfile(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	// DeleteUser soft-deletes; the account drops out of every access check
	// but the document remains.
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
}
