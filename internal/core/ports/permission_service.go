package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// PermissionInput carries the writable fields of a permission definition.
type PermissionInput struct {
	Name     string
	IsActive *bool // nil = leave default / unchanged
}

// PermissionService defines administrative operations over permission
// definitions.
type PermissionService interface {
	CreatePermission(ctx context.Context, input PermissionInput) (*domain.Permission, error)
	GetPermission(ctx context.Context, id string) (*domain.Permission, error)
	UpdatePermission(ctx context.Context, id string, input PermissionInput) (*domain.Permission, error)
	DeletePermission(ctx context.Context, id string) error
	ListPermissions(ctx context.Context) ([]*domain.Permission, error)
}
