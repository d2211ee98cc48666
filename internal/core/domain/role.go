package domain

import (
	"errors"
	"time"
)

var ErrRoleNotFound = errors.New("role not found")
var ErrRoleExists = errors.New("role already exists")
var ErrPermissionNotFound = errors.New("permission not found")
var ErrPermissionExists = errors.New("permission already exists")

// Role is a named bundle of permissions. Permissions are held by reference;
// materializing their names requires a secondary lookup. A reference that no
// longer resolves is dropped during resolution, never surfaced as an error.
type Role struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PermissionIDs []string  `json:"permission_ids"`
	IsActive      bool      `json:"is_active"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Permission is a single named capability such as "user:delete". It is
// referenced, never owned, by roles.
type Permission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
