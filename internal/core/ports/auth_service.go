package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// TokenService signs and verifies bearer tokens.
type TokenService interface {
	// Issue signs a token carrying the subject email. The only failure mode
	// is a missing signing secret.
	Issue(email string) (string, error)
	// Verify checks signature and expiry and returns the decoded claims.
	// Fails with domain.ErrTokenExpired past the validity window and
	// domain.ErrInvalidToken for every other defect.
	Verify(token string) (*domain.TokenClaims, error)
}

// IdentityResolver maps a verified token claim back to a canonical user
// record. It does not check active/deleted flags; that is the evaluator's
// concern.
type IdentityResolver interface {
	ResolveByClaim(ctx context.Context, claims *domain.TokenClaims) (*domain.User, error)
}

// RegisterInput carries all data needed to create a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	UserName  string
	Email     string
	Password  string
	Role      string // defaults to USER when empty
}

// LoginResult is returned on a successful credential check.
type LoginResult struct {
	Token       string
	User        *domain.User
	Permissions []string
}

// AuthService implements the account flows: registration, login, email
// verification and the password-reset cycle.
type AuthService interface {
	IdentityResolver

	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password string) (*domain.User, error)
	VerifyEmail(ctx context.Context, resetToken string) error
}
