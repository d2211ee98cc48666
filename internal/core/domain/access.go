package domain

import (
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")
var ErrForbidden = errors.New("access forbidden")

// TokenClaims is the decoded payload of a bearer token.
type TokenClaims struct {
	Email    string
	IssuedAt time.Time
}

// AccessRequirement declares what an endpoint demands before its handler may
// run: a set of acceptable roles, a required permission name, or both. Both
// checks are evaluated independently and both must pass when both are set.
// It is an explicit value passed at route registration, not metadata read
// back via reflection.
type AccessRequirement struct {
	Roles      []string
	Permission string
}

// IsEmpty reports whether the endpoint declares no requirement at all, in
// which case the gate passes every request through, authenticated or not.
// Some endpoints are intentionally unguarded at this layer.
func (r AccessRequirement) IsEmpty() bool {
	return len(r.Roles) == 0 && r.Permission == ""
}

// RequireRoles builds a requirement satisfied by any of the given roles.
func RequireRoles(roles ...string) AccessRequirement {
	return AccessRequirement{Roles: roles}
}

// RequirePermission builds a requirement satisfied only by identities whose
// role grants the named permission.
func RequirePermission(name string) AccessRequirement {
	return AccessRequirement{Permission: name}
}

// IdentityEligible reports whether the identity may satisfy any access check
// at all. Inactive and soft-deleted identities are denied centrally here,
// regardless of role or permissions.
func IdentityEligible(u *User) bool {
	return u != nil && u.IsActive && !u.IsDeleted
}

// EvaluateRole reports whether the identity's role is among the required
// ones. An empty requirement is not applicable and passes.
func EvaluateRole(u *User, requiredRoles []string) bool {
	if len(requiredRoles) == 0 {
		return true
	}
	for _, r := range requiredRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// EvaluatePermission reports whether the required permission is contained in
// the granted set. An empty requirement passes.
func EvaluatePermission(required string, granted []string) bool {
	if required == "" {
		return true
	}
	for _, p := range granted {
		if p == required {
			return true
		}
	}
	return false
}
