package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/core/domain"
)

type stubTokens struct {
	claims *domain.TokenClaims
	err    error
}

func (s *stubTokens) Issue(string) (string, error) { return "", nil }

func (s *stubTokens) Verify(string) (*domain.TokenClaims, error) {
	return s.claims, s.err
}

type stubResolver struct {
	user *domain.User
	err  error
}

func (s *stubResolver) ResolveByClaim(context.Context, *domain.TokenClaims) (*domain.User, error) {
	return s.user, s.err
}

type stubDirectory struct {
	granted []string
	err     error
}

func (s *stubDirectory) PermissionsForRole(context.Context, string) ([]string, error) {
	return s.granted, s.err
}

func activeAdmin() *domain.User {
	return &domain.User{
		ID:       "u-1",
		Email:    "admin@example.com",
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
}

// runGate sends one request through the middleware and reports the response
// code, whether the wrapped handler ran, and the identity it saw.
func runGate(t *testing.T, gate *Gate, requirement domain.AccessRequirement, authHeader string) (int, bool, *domain.User) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var handled bool
	var identity *domain.User
	handler := gate.Require(requirement)(func(c echo.Context) error {
		handled = true
		identity, _ = c.Get(IdentityKey).(*domain.User)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, handled, identity
}

func TestGate_EmptyRequirementAllows(t *testing.T) {
	gate := NewGate(&stubTokens{err: domain.ErrInvalidToken}, &stubResolver{}, &stubDirectory{})

	// No token, no requirement: the request passes untouched.
	code, handled, identity := runGate(t, gate, domain.AccessRequirement{}, "")
	if !handled || code != http.StatusOK {
		t.Fatalf("open route must pass through, code=%d handled=%v", code, handled)
	}
	if identity != nil {
		t.Fatalf("open route must not attach an identity")
	}
}

func TestGate_ValidTokenAndRoleAllows(t *testing.T) {
	user := activeAdmin()
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: user.Email}},
		&stubResolver{user: user},
		&stubDirectory{},
	)

	code, handled, identity := runGate(t, gate, domain.RequireRoles(domain.RoleAdmin), "Bearer some-token")
	if !handled || code != http.StatusOK {
		t.Fatalf("expected allow, code=%d handled=%v", code, handled)
	}
	if identity == nil || identity.Email != user.Email {
		t.Fatalf("resolved identity not attached to the request context")
	}
}

func TestGate_MissingTokenDenies(t *testing.T) {
	gate := NewGate(&stubTokens{}, &stubResolver{}, &stubDirectory{})

	code, handled, _ := runGate(t, gate, domain.RequireRoles(domain.RoleAdmin), "")
	if handled || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, code=%d handled=%v", code, handled)
	}
}

func TestGate_MalformedHeaderDenies(t *testing.T) {
	user := activeAdmin()
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: user.Email}},
		&stubResolver{user: user},
		&stubDirectory{},
	)

	for _, header := range []string{"some-token", "Basic abc", "Bearer"} {
		code, handled, _ := runGate(t, gate, domain.RequireRoles(domain.RoleAdmin), header)
		if handled || code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, code=%d handled=%v", header, code, handled)
		}
	}
}

func TestGate_InvalidTokenDenies(t *testing.T) {
	gate := NewGate(&stubTokens{err: domain.ErrInvalidToken}, &stubResolver{}, &stubDirectory{})

	code, handled, _ := runGate(t, gate, domain.RequireRoles(domain.RoleAdmin), "Bearer garbage")
	if handled || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, code=%d handled=%v", code, handled)
	}
}

func TestGate_ExpiredTokenDenies(t *testing.T) {
	gate := NewGate(&stubTokens{err: domain.ErrTokenExpired}, &stubResolver{}, &stubDirectory{})

	code, handled, _ := runGate(t, gate, domain.RequireRoles(domain.RoleAdmin), "Bearer stale")
	if handled || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, code=%d handled=%v", code, handled)
	}
}

func TestGate_UnknownIdentityDenies(t *testing.T) {
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: "ghost@example.com"}},
		&stubResolver{err: domain.ErrUserNotFound},
		&stubDirectory{},
	)

	code, handled, _ := runGate(t, gate, domain.RequireRoles(domain.RoleAdmin), "Bearer some-token")
	if handled || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, code=%d handled=%v", code, handled)
	}
}

func TestGate_InactiveIdentityDenies(t *testing.T) {
	inactive := activeAdmin()
	inactive.IsActive = false
	deleted := activeAdmin()
	deleted.IsDeleted = true

	for name, user := range map[string]*domain.User{"inactive": inactive, "deleted": deleted} {
		gate := NewGate(
			&stubTokens{claims: &domain.TokenClaims{Email: user.Email}},
			&stubResolver{user: user},
			&stubDirectory{},
		)
		code, handled, _ := runGate(t, gate, domain.RequireRoles(domain.RoleAdmin), "Bearer some-token")
		if handled || code != http.StatusUnauthorized {
			t.Errorf("%s identity: expected 401, code=%d handled=%v", name, code, handled)
		}
	}
}

func TestGate_WrongRoleDenies(t *testing.T) {
	user := activeAdmin()
	user.Role = domain.RoleUser
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: user.Email}},
		&stubResolver{user: user},
		&stubDirectory{},
	)

	code, handled, _ := runGate(t, gate, domain.RequireRoles(domain.RoleAdmin), "Bearer some-token")
	if handled || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, code=%d handled=%v", code, handled)
	}
}

func TestGate_PermissionAllows(t *testing.T) {
	user := activeAdmin()
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: user.Email}},
		&stubResolver{user: user},
		&stubDirectory{granted: []string{"user:read", "user:delete"}},
	)

	code, handled, _ := runGate(t, gate, domain.RequirePermission("user:delete"), "Bearer some-token")
	if !handled || code != http.StatusOK {
		t.Fatalf("expected allow, code=%d handled=%v", code, handled)
	}
}

func TestGate_PermissionDenies(t *testing.T) {
	user := activeAdmin()
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: user.Email}},
		&stubResolver{user: user},
		&stubDirectory{granted: []string{"user:read"}},
	)

	code, handled, _ := runGate(t, gate, domain.RequirePermission("user:delete"), "Bearer some-token")
	if handled || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, code=%d handled=%v", code, handled)
	}
}

func TestGate_DirectoryErrorDenies(t *testing.T) {
	user := activeAdmin()
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: user.Email}},
		&stubResolver{user: user},
		&stubDirectory{err: errors.New("store down")},
	)

	code, handled, _ := runGate(t, gate, domain.RequirePermission("user:delete"), "Bearer some-token")
	if handled || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, code=%d handled=%v", code, handled)
	}
}

func TestGate_HelperConstructors(t *testing.T) {
	user := activeAdmin()
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: user.Email}},
		&stubResolver{user: user},
		&stubDirectory{granted: []string{"user:delete"}},
	)

	e := echo.New()
	for name, mw := range map[string]echo.MiddlewareFunc{
		"roles":      gate.Roles(domain.RoleAdmin),
		"permission": gate.Permission("user:delete"),
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		if err := handler(c); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("%s: code = %d, want 200", name, rec.Code)
		}
	}
}

func TestGate_CombinedRequirement(t *testing.T) {
	requirement := domain.AccessRequirement{
		Roles:      []string{domain.RoleAdmin},
		Permission: "user:delete",
	}

	admin := activeAdmin()
	gate := NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: admin.Email}},
		&stubResolver{user: admin},
		&stubDirectory{granted: []string{"user:delete"}},
	)
	code, handled, _ := runGate(t, gate, requirement, "Bearer some-token")
	if !handled || code != http.StatusOK {
		t.Fatalf("admin with grant: expected allow, code=%d handled=%v", code, handled)
	}

	// Right role, missing grant.
	gate = NewGate(
		&stubTokens{claims: &domain.TokenClaims{Email: admin.Email}},
		&stubResolver{user: admin},
		&stubDirectory{granted: nil},
	)
	code, handled, _ = runGate(t, gate, requirement, "Bearer some-token")
	if handled || code != http.StatusUnauthorized {
		t.Fatalf("admin without grant: expected 401, code=%d handled=%v", code, handled)
	}
}
