package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

type stubRoleRepo struct {
	byID   map[string]*domain.Role
	byName map[string]*domain.Role
}

func newStubRoleRepo(roles ...*domain.Role) *stubRoleRepo {
	r := &stubRoleRepo{byID: make(map[string]*domain.Role), byName: make(map[string]*domain.Role)}
	for _, role := range roles {
		r.byID[role.ID] = role
		r.byName[role.Name] = role
	}
	return r
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if _, ok := r.byName[role.Name]; ok {
		return nil, domain.ErrRoleExists
	}
	cp := *role
	if cp.ID == "" {
		cp.ID = "role-" + cp.Name
	}
	r.byID[cp.ID] = &cp
	r.byName[cp.Name] = &cp
	return &cp, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	cp := *role
	return &cp, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.byName[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	cp := *role
	return &cp, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) (*domain.Role, error) {
	old, ok := r.byID[role.ID]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	delete(r.byName, old.Name)
	cp := *role
	r.byID[cp.ID] = &cp
	r.byName[cp.Name] = &cp
	return &cp, nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	role, ok := r.byID[id]
	if !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.byID, id)
	delete(r.byName, role.Name)
	return nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(r.byID))
	for _, role := range r.byID {
		cp := *role
		out = append(out, &cp)
	}
	return out, nil
}

type stubPermRepo struct {
	byID map[string]*domain.Permission
}

func newStubPermRepo(perms ...*domain.Permission) *stubPermRepo {
	r := &stubPermRepo{byID: make(map[string]*domain.Permission)}
	for _, p := range perms {
		r.byID[p.ID] = p
	}
	return r
}

func (r *stubPermRepo) Create(_ context.Context, p *domain.Permission) (*domain.Permission, error) {
	cp := *p
	if cp.ID == "" {
		cp.ID = "perm-" + cp.Name
	}
	r.byID[cp.ID] = &cp
	return &cp, nil
}

func (r *stubPermRepo) FindByID(_ context.Context, id string) (*domain.Permission, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPermissionNotFound
	}
	cp := *p
	return &cp, nil
}

// FindByIDs mirrors the lookup contract: IDs that do not resolve are simply
// omitted.
func (r *stubPermRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Permission, error) {
	out := make([]*domain.Permission, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubPermRepo) Update(_ context.Context, p *domain.Permission) (*domain.Permission, error) {
	if _, ok := r.byID[p.ID]; !ok {
		return nil, domain.ErrPermissionNotFound
	}
	cp := *p
	r.byID[cp.ID] = &cp
	return &cp, nil
}

func (r *stubPermRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrPermissionNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubPermRepo) List(_ context.Context) ([]*domain.Permission, error) {
	out := make([]*domain.Permission, 0, len(r.byID))
	for _, p := range r.byID {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func newRoleFixture(roles []*domain.Role, perms []*domain.Permission) (*RoleService, *stubRoleRepo, *stubPermRepo) {
	roleRepo := newStubRoleRepo(roles...)
	permRepo := newStubPermRepo(perms...)
	svc := NewRoleService(roleRepo, permRepo, NewPermissionCache(), zerolog.Nop())
	return svc, roleRepo, permRepo
}

func TestRoleService_PermissionsForRole(t *testing.T) {
	svc, _, _ := newRoleFixture(
		[]*domain.Role{{ID: "r1", Name: "EDITOR", PermissionIDs: []string{"p1", "p2"}, IsActive: true}},
		[]*domain.Permission{
			{ID: "p1", Name: "article:write", IsActive: true},
			{ID: "p2", Name: "article:publish", IsActive: true},
		},
	)

	names, err := svc.PermissionsForRole(context.Background(), "EDITOR")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(names) != 2 || names[0] != "article:write" || names[1] != "article:publish" {
		t.Fatalf("names = %v", names)
	}

	// Repeated resolution is stable.
	again, err := svc.PermissionsForRole(context.Background(), "EDITOR")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("second resolve names = %v", again)
	}
}

func TestRoleService_PermissionsForRole_DanglingRefs(t *testing.T) {
	svc, _, _ := newRoleFixture(
		[]*domain.Role{{ID: "r1", Name: "EDITOR", PermissionIDs: []string{"p1", "gone", "p2"}, IsActive: true}},
		[]*domain.Permission{
			{ID: "p1", Name: "article:write", IsActive: true},
			{ID: "p2", Name: "article:publish", IsActive: true},
		},
	)

	names, err := svc.PermissionsForRole(context.Background(), "EDITOR")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("dangling refs must be dropped, got %v", names)
	}
}

func TestRoleService_PermissionsForRole_DeletedPermission(t *testing.T) {
	svc, _, _ := newRoleFixture(
		[]*domain.Role{{ID: "r1", Name: "EDITOR", PermissionIDs: []string{"p1", "p2"}, IsActive: true}},
		[]*domain.Permission{
			{ID: "p1", Name: "article:write", IsActive: true},
			{ID: "p2", Name: "article:publish", IsDeleted: true},
		},
	)

	names, err := svc.PermissionsForRole(context.Background(), "EDITOR")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(names) != 1 || names[0] != "article:write" {
		t.Fatalf("deleted permissions must be dropped, got %v", names)
	}
}

func TestRoleService_PermissionsForRole_EmptyRole(t *testing.T) {
	svc, _, _ := newRoleFixture(
		[]*domain.Role{{ID: "r1", Name: "GUEST", IsActive: true}},
		nil,
	)

	names, err := svc.PermissionsForRole(context.Background(), "GUEST")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("empty role must grant nothing, got %v", names)
	}
}

func TestRoleService_PermissionsForRole_Unknown(t *testing.T) {
	svc, _, _ := newRoleFixture(nil, nil)

	_, err := svc.PermissionsForRole(context.Background(), "GHOST")
	if !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRoleService_CacheInvalidatedOnUpdate(t *testing.T) {
	svc, _, permRepo := newRoleFixture(
		[]*domain.Role{{ID: "r1", Name: "EDITOR", PermissionIDs: []string{"p1"}, IsActive: true}},
		[]*domain.Permission{{ID: "p1", Name: "article:write", IsActive: true}},
	)

	// Warm the cache.
	if _, err := svc.PermissionsForRole(context.Background(), "EDITOR"); err != nil {
		t.Fatalf("warm: %v", err)
	}

	if _, err := permRepo.Create(context.Background(), &domain.Permission{ID: "p2", Name: "article:publish", IsActive: true}); err != nil {
		t.Fatalf("seed permission: %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), "r1", ports.RoleInput{PermissionIDs: []string{"p1", "p2"}}); err != nil {
		t.Fatalf("update role: %v", err)
	}

	names, err := svc.PermissionsForRole(context.Background(), "EDITOR")
	if err != nil {
		t.Fatalf("resolve after update: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("update must invalidate the cache, got %v", names)
	}
}

func TestRoleService_CacheServesWithinWindow(t *testing.T) {
	svc, roleRepo, _ := newRoleFixture(
		[]*domain.Role{{ID: "r1", Name: "EDITOR", PermissionIDs: []string{"p1"}, IsActive: true}},
		[]*domain.Permission{{ID: "p1", Name: "article:write", IsActive: true}},
	)

	if _, err := svc.PermissionsForRole(context.Background(), "EDITOR"); err != nil {
		t.Fatalf("warm: %v", err)
	}

	// An out-of-band store write is invisible until the entry expires or a
	// mutation flushes the cache.
	role, _ := roleRepo.FindByID(context.Background(), "r1")
	role.PermissionIDs = nil
	if _, err := roleRepo.Update(context.Background(), role); err != nil {
		t.Fatalf("out-of-band write: %v", err)
	}

	names, err := svc.PermissionsForRole(context.Background(), "EDITOR")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected cached grant set, got %v", names)
	}
}

func TestRoleService_GetRole(t *testing.T) {
	svc, _, _ := newRoleFixture(
		[]*domain.Role{{ID: "r1", Name: "EDITOR", PermissionIDs: []string{"p1"}, IsActive: true}},
		[]*domain.Permission{{ID: "p1", Name: "article:write", IsActive: true}},
	)

	detail, err := svc.GetRole(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if detail.Role.Name != "EDITOR" {
		t.Errorf("role name = %q", detail.Role.Name)
	}
	if len(detail.Permissions) != 1 || detail.Permissions[0] != "article:write" {
		t.Errorf("permissions = %v", detail.Permissions)
	}
}

func TestRoleService_CreateRole(t *testing.T) {
	svc, _, _ := newRoleFixture(nil, nil)

	role, err := svc.CreateRole(context.Background(), ports.RoleInput{Name: "EDITOR", PermissionIDs: []string{"p1"}})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if !role.IsActive {
		t.Errorf("new role must default to active")
	}

	if _, err := svc.CreateRole(context.Background(), ports.RoleInput{Name: "EDITOR"}); !errors.Is(err, domain.ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
}
