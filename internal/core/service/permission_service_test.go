package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

func TestPermissionService_CreatePermission(t *testing.T) {
	repo := newStubPermRepo()
	svc := NewPermissionService(repo, NewPermissionCache(), zerolog.Nop())

	perm, err := svc.CreatePermission(context.Background(), ports.PermissionInput{Name: "user:delete"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !perm.IsActive {
		t.Errorf("new permission must default to active")
	}
	if perm.Name != "user:delete" {
		t.Errorf("name = %q", perm.Name)
	}
}

func TestPermissionService_UpdatePermission(t *testing.T) {
	repo := newStubPermRepo(&domain.Permission{ID: "p1", Name: "user:read", IsActive: true})
	svc := NewPermissionService(repo, NewPermissionCache(), zerolog.Nop())

	inactive := false
	updated, err := svc.UpdatePermission(context.Background(), "p1", ports.PermissionInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsActive {
		t.Errorf("IsActive=false not applied")
	}
	// Omitted name keeps its value.
	if updated.Name != "user:read" {
		t.Errorf("name = %q, want unchanged", updated.Name)
	}
}

func TestPermissionService_DeletePermission(t *testing.T) {
	repo := newStubPermRepo(&domain.Permission{ID: "p1", Name: "user:read", IsActive: true})
	svc := NewPermissionService(repo, NewPermissionCache(), zerolog.Nop())

	if err := svc.DeletePermission(context.Background(), "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetPermission(context.Background(), "p1"); !errors.Is(err, domain.ErrPermissionNotFound) {
		t.Fatalf("expected ErrPermissionNotFound, got %v", err)
	}
}

func TestPermissionService_MutationInvalidatesRoleCache(t *testing.T) {
	cache := NewPermissionCache()
	permRepo := newStubPermRepo(&domain.Permission{ID: "p1", Name: "article:write", IsActive: true})
	roleRepo := newStubRoleRepo(&domain.Role{ID: "r1", Name: "EDITOR", PermissionIDs: []string{"p1"}, IsActive: true})

	roleSvc := NewRoleService(roleRepo, permRepo, cache, zerolog.Nop())
	permSvc := NewPermissionService(permRepo, cache, zerolog.Nop())

	// Warm the role resolution cache, then rename the permission through the
	// shared cache's other owner.
	if _, err := roleSvc.PermissionsForRole(context.Background(), "EDITOR"); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if _, err := permSvc.UpdatePermission(context.Background(), "p1", ports.PermissionInput{Name: "article:edit"}); err != nil {
		t.Fatalf("rename: %v", err)
	}

	names, err := roleSvc.PermissionsForRole(context.Background(), "EDITOR")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(names) != 1 || names[0] != "article:edit" {
		t.Fatalf("rename not visible through role directory, got %v", names)
	}
}
