package ports

import (
	"context"
	"time"

	"github.com/userhub/identity-system/internal/core/domain"
)

// ListUsersFilter carries all query parameters for listing users.
type ListUsersFilter struct {
	Search    string // optional: partial, case-insensitive match on first name
	Role      string // optional: filter by role name
	SortBy    string // field name, defaults to created_at
	SortAsc   bool
	Page      int // 1-based
	Limit     int // max rows per page (capped at 100 by the service)
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// SoftDelete flags the user as deleted without removing the document.
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// List returns a page of users matching filter and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
