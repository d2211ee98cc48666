package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// PermissionRepository defines persistence operations for permission
// definitions.
type PermissionRepository interface {
	Create(ctx context.Context, permission *domain.Permission) (*domain.Permission, error)
	FindByID(ctx context.Context, id string) (*domain.Permission, error)
	// FindByIDs resolves the given IDs to permissions. IDs that do not
	// resolve (unknown, malformed, deleted) are omitted from the result.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Permission, error)
	Update(ctx context.Context, permission *domain.Permission) (*domain.Permission, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Permission, error)
}
