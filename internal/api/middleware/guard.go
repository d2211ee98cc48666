package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/api/metrics"
	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// IdentityKey is the echo context key the gate stores the resolved user
// under on allow.
const IdentityKey = "identity"

// Gate is the per-request enforcement point. For each guarded route it runs
// the full decision pipeline: extract bearer token, verify signature and
// expiry, resolve the claim to an identity, then evaluate the declared role
// and permission requirements. Every failure collapses into a single 401 so
// callers cannot probe which stage rejected them.
type Gate struct {
	tokens    ports.TokenService
	resolver  ports.IdentityResolver
	directory ports.RoleDirectory
}

func NewGate(tokens ports.TokenService, resolver ports.IdentityResolver, directory ports.RoleDirectory) *Gate {
	return &Gate{tokens: tokens, resolver: resolver, directory: directory}
}

// Roles returns middleware requiring any of the given roles.
func (g *Gate) Roles(roles ...string) echo.MiddlewareFunc {
	return g.Require(domain.RequireRoles(roles...))
}

// Permission returns middleware requiring the named permission.
func (g *Gate) Permission(name string) echo.MiddlewareFunc {
	return g.Require(domain.RequirePermission(name))
}

// Require returns middleware enforcing the given requirement. An empty
// requirement passes every request through untouched; a present requirement
// with no token is a deny. Both conventions are deliberate and uniform
// across role and permission checks.
func (g *Gate) Require(requirement domain.AccessRequirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if requirement.IsEmpty() {
				metrics.AccessDecisionsTotal.WithLabelValues("allow", "open_route").Inc()
				return next(c)
			}

			start := time.Now()
			user, reason := g.evaluate(c, requirement)
			outcome := "allow"
			if user == nil {
				outcome = "deny"
			}
			metrics.AccessDecisionsTotal.WithLabelValues(outcome, reason).Inc()
			metrics.AccessCheckDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(IdentityKey, user)
			return next(c)
		}
	}
}

// evaluate runs the pipeline and returns the resolved identity on allow, or
// nil plus the deny reason. The reason feeds metrics only; it never reaches
// the client.
func (g *Gate) evaluate(c echo.Context, requirement domain.AccessRequirement) (*domain.User, string) {
	token, ok := extractBearer(c.Request())
	if !ok {
		return nil, "missing_token"
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, "token_expired"
		}
		return nil, "invalid_token"
	}

	user, err := g.resolver.ResolveByClaim(c.Request().Context(), claims)
	if err != nil {
		return nil, "unknown_identity"
	}

	if !domain.IdentityEligible(user) {
		return nil, "inactive_identity"
	}

	if !domain.EvaluateRole(user, requirement.Roles) {
		return nil, "role_denied"
	}

	if requirement.Permission != "" {
		granted, err := g.directory.PermissionsForRole(c.Request().Context(), user.Role)
		if err != nil {
			// A role missing from the directory, or a store outage, is a
			// definitive deny for this request. No retries.
			return nil, "directory_error"
		}
		if !domain.EvaluatePermission(requirement.Permission, granted) {
			return nil, "permission_denied"
		}
	}

	return user, "allowed"
}

// extractBearer pulls the token from the standard Authorization header.
func extractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
