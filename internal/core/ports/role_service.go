package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// RoleDirectory resolves a role name to the flattened set of permission
// names its references grant. Dangling references are dropped silently; only
// a missing role is an error (domain.ErrRoleNotFound).
type RoleDirectory interface {
	PermissionsForRole(ctx context.Context, roleName string) ([]string, error)
}

// RoleInput carries the writable fields of a role definition.
type RoleInput struct {
	Name          string
	PermissionIDs []string
	IsActive      *bool // nil = leave default / unchanged
}

// RoleDetail is the full role view with permission references materialized
// into names.
type RoleDetail struct {
	Role        *domain.Role
	Permissions []string
}

// RoleService defines administrative operations over role definitions.
type RoleService interface {
	RoleDirectory

	CreateRole(ctx context.Context, input RoleInput) (*domain.Role, error)
	GetRole(ctx context.Context, id string) (*RoleDetail, error)
	UpdateRole(ctx context.Context, id string, input RoleInput) (*domain.Role, error)
	DeleteRole(ctx context.Context, id string) error
	ListRoles(ctx context.Context) ([]*domain.Role, error)
}
