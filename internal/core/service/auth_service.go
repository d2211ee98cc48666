package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// resetTokenTTL is the validity window of password-reset tokens. Unlike
// session tokens, expiry is enforced by comparing a stored timestamp.
const resetTokenTTL = time.Hour

// AuthService implements registration, login, email verification, the
// password-reset cycle and claim-to-identity resolution.
type AuthService struct {
	users   ports.UserRepository
	roles   ports.RoleDirectory
	tokens  ports.TokenService
	mailer  ports.Mailer
	limiter ports.LoginLimiter
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleDirectory,
	tokens ports.TokenService,
	mailer ports.Mailer,
	limiter ports.LoginLimiter,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		roles:   roles,
		tokens:  tokens,
		mailer:  mailer,
		limiter: limiter,
		log:     log,
		now:     time.Now,
	}
}

// Register creates a new account with a hashed password and an email
// verification token, then mails the confirmation link. Mail failures are
// logged, not surfaced: the account exists either way.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	verifyToken, err := generateResetToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		UserName:     input.UserName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		ResetToken:   verifyToken,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendConfirmationMail(ctx, created, verifyToken); err != nil {
		s.log.Error().Err(err).Str("email", created.Email).Msg("confirmation mail failed")
	}

	return created, nil
}

// Login verifies credentials and returns a signed session token together
// with the permission set resolved from the user's role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	locked, err := s.limiter.TooManyAttempts(ctx, email)
	if err != nil {
		// A limiter outage must not lock every account out.
		s.log.Warn().Err(err).Msg("login limiter unavailable")
	} else if locked {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.resolveByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if lerr := s.limiter.RecordFailure(ctx, email); lerr != nil {
				s.log.Warn().Err(lerr).Msg("recording login failure")
			}
		}
		return nil, err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("resetting login counter")
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}

	permissions, err := s.roles.PermissionsForRole(ctx, user.Role)
	if err != nil {
		// A role missing from the directory grants nothing but does not
		// block the login itself.
		if !errors.Is(err, domain.ErrRoleNotFound) {
			return nil, err
		}
		permissions = nil
	}

	return &ports.LoginResult{Token: token, User: user, Permissions: permissions}, nil
}

// resolveByCredentials loads the user by email and verifies the password
// hash. Unverified accounts cannot log in.
func (s *AuthService) resolveByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, domain.ErrEmailNotVerified
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// ResolveByClaim maps a verified token claim to the canonical user record.
// Active/deleted flags are deliberately not checked here; the access
// evaluator owns that decision.
func (s *AuthService) ResolveByClaim(ctx context.Context, claims *domain.TokenClaims) (*domain.User, error) {
	if claims == nil || claims.Email == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.users.FindByEmail(ctx, claims.Email)
}

// ForgotPassword stores a fresh reset token with a one-hour expiry and mails
// the reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.IsVerified {
		return domain.ErrEmailNotVerified
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	user.ResetToken = token
	user.ResetTokenExpiration = s.now().Add(resetTokenTTL)
	user.UpdatedAt = s.now().UTC()

	if _, err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetMail(ctx, user, token); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("reset mail failed")
	}
	return nil
}

// ResetPassword consumes a stored reset token. Expired tokens are cleared
// and rejected; the new password must differ from the old one.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, password string) (*domain.User, error) {
	if resetToken == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByResetToken(ctx, resetToken)
	if err != nil {
		return nil, err
	}

	if s.now().After(user.ResetTokenExpiration) {
		user.ResetToken = ""
		user.ResetTokenExpiration = time.Time{}
		if _, uerr := s.users.Update(ctx, user); uerr != nil {
			s.log.Warn().Err(uerr).Msg("clearing expired reset token")
		}
		return nil, domain.ErrResetTokenExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
		return nil, domain.ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetTokenExpiration = time.Time{}
	user.UpdatedAt = s.now().UTC()

	return s.users.Update(ctx, user)
}

// VerifyEmail marks the account verified and consumes the token issued at
// registration.
func (s *AuthService) VerifyEmail(ctx context.Context, resetToken string) error {
	if resetToken == "" {
		return domain.ErrUserNotFound
	}

	user, err := s.users.FindByResetToken(ctx, resetToken)
	if err != nil {
		return err
	}

	user.IsVerified = true
	user.ResetToken = ""
	user.ResetTokenExpiration = time.Time{}
	user.UpdatedAt = s.now().UTC()

	if _, err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendWelcomeMail(ctx, user); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("welcome mail failed")
	}
	return nil
}

// generateResetToken returns 32 random bytes hex-encoded. Used both for
// email verification and password reset.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
