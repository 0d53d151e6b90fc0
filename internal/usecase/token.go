package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/core/port"
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

// TokenService issues and resolves stateless HS256 access tokens. The token
// subject is the identity's email; resolution always re-reads the identity
// from storage so a deleted account invalidates its outstanding tokens
// immediately.
type TokenService struct {
	identities port.IdentityRepository
	secret     []byte
	ttl        time.Duration
}

// NewTokenService builds a TokenService around the shared signing secret.
func NewTokenService(identities port.IdentityRepository, secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		identities: identities,
		secret:     []byte(secret),
		ttl:        ttl,
	}
}

// Issue signs a token for the identity and returns it with its expiry.
func (s *TokenService) Issue(identity *domain.Identity) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   identity.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// Resolve validates the raw token and loads the identity it names.
// Structural failures (bad signature, expiry, wrong algorithm) surface as
// ErrInvalidToken; a valid token whose subject has been removed surfaces as
// ErrUnknownSubject.
func (s *TokenService) Resolve(ctx context.Context, raw string) (*domain.Identity, error) {
	claims := jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	identity, err := s.identities.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}

	return identity, nil
}
