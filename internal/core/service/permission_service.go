package service

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// PermissionService implements the administrative CRUD over permission
// definitions. It shares the permission-name cache with RoleService so that
// permission mutations invalidate role resolutions too.
type PermissionService struct {
	perms ports.PermissionRepository
	cache *gocache.Cache
	log   zerolog.Logger
}

func NewPermissionService(perms ports.PermissionRepository, cache *gocache.Cache, log zerolog.Logger) *PermissionService {
	return &PermissionService{perms: perms, cache: cache, log: log}
}

func (s *PermissionService) CreatePermission(ctx context.Context, input ports.PermissionInput) (*domain.Permission, error) {
	now := time.Now().UTC()
	perm := &domain.Permission{
		Name:      input.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.IsActive != nil {
		perm.IsActive = *input.IsActive
	}

	created, err := s.perms.Create(ctx, perm)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return created, nil
}

func (s *PermissionService) GetPermission(ctx context.Context, id string) (*domain.Permission, error) {
	return s.perms.FindByID(ctx, id)
}

func (s *PermissionService) UpdatePermission(ctx context.Context, id string, input ports.PermissionInput) (*domain.Permission, error) {
	perm, err := s.perms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		perm.Name = input.Name
	}
	if input.IsActive != nil {
		perm.IsActive = *input.IsActive
	}
	perm.UpdatedAt = time.Now().UTC()

	updated, err := s.perms.Update(ctx, perm)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return updated, nil
}

func (s *PermissionService) DeletePermission(ctx context.Context, id string) error {
	if err := s.perms.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func (s *PermissionService) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return s.perms.List(ctx)
}
