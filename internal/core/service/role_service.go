package service

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// permissionCacheTTL bounds staleness of the role → permission-name cache.
// Every role/permission mutation flushes the cache outright, so the common
// CRUD-then-check pattern stays read-after-write consistent; the TTL only
// covers out-of-band writes to the store.
const permissionCacheTTL = 30 * time.Second

// NewPermissionCache builds the cache shared by RoleService and
// PermissionService.
func NewPermissionCache() *gocache.Cache {
	return gocache.New(permissionCacheTTL, time.Minute)
}

// RoleService implements the role directory and the administrative CRUD
// over role definitions.
type RoleService struct {
	roles ports.RoleRepository
	perms ports.PermissionRepository
	cache *gocache.Cache
	log   zerolog.Logger
}

func NewRoleService(
	roles ports.RoleRepository,
	perms ports.PermissionRepository,
	cache *gocache.Cache,
	log zerolog.Logger,
) *RoleService {
	return &RoleService{roles: roles, perms: perms, cache: cache, log: log}
}

// PermissionsForRole resolves the named role's permission references into
// flattened names. References that no longer resolve are dropped; they are
// an administrative data-integrity concern, not a runtime fault. Only a
// missing role is an error.
func (s *RoleService) PermissionsForRole(ctx context.Context, roleName string) ([]string, error) {
	if cached, ok := s.cache.Get(roleName); ok {
		names, _ := cached.([]string)
		return append([]string(nil), names...), nil
	}

	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	perms, err := s.perms.FindByIDs(ctx, role.PermissionIDs)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(perms))
	for _, p := range perms {
		if p.IsDeleted {
			continue
		}
		names = append(names, p.Name)
	}

	s.cache.SetDefault(roleName, names)
	return append([]string(nil), names...), nil
}

func (s *RoleService) CreateRole(ctx context.Context, input ports.RoleInput) (*domain.Role, error) {
	now := time.Now().UTC()
	role := &domain.Role{
		Name:          input.Name,
		PermissionIDs: input.PermissionIDs,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.IsActive != nil {
		role.IsActive = *input.IsActive
	}

	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return created, nil
}

// GetRole returns the role with its permission references materialized into
// names.
func (s *RoleService) GetRole(ctx context.Context, id string) (*ports.RoleDetail, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perms, err := s.perms.FindByIDs(ctx, role.PermissionIDs)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}

	return &ports.RoleDetail{Role: role, Permissions: names}, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, id string, input ports.RoleInput) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		role.Name = input.Name
	}
	if input.PermissionIDs != nil {
		role.PermissionIDs = input.PermissionIDs
	}
	if input.IsActive != nil {
		role.IsActive = *input.IsActive
	}
	role.UpdatedAt = time.Now().UTC()

	updated, err := s.roles.Update(ctx, role)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return updated, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.List(ctx)
}
