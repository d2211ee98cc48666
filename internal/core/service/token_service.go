package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/identity-system/internal/core/domain"
)

// defaultTokenTTL is the session token validity window.
const defaultTokenTTL = 7 * 24 * time.Hour

var errMissingSecret = errors.New("token service: signing secret not configured")

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens. Verification is a
// pure function of signature and clock; tokens are never persisted.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token carrying the subject email with iat = now and
// exp = now + ttl.
func (s *TokenService) Issue(email string) (string, error) {
	if len(s.secret) == 0 {
		return "", errMissingSecret
	}

	now := s.now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates the token, pinning the signing algorithm to
// HS256. Expiry maps to domain.ErrTokenExpired; every other defect maps to
// domain.ErrInvalidToken so callers cannot distinguish failure stages.
func (s *TokenService) Verify(token string) (*domain.TokenClaims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !tkn.Valid || claims.Email == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.TokenClaims{Email: claims.Email}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
