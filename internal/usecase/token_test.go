package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

func TestTokenRoundTrip(t *testing.T) {
	identity := &domain.Identity{ID: "id-1", Email: "user@example.com", Role: domain.RoleAdmin}
	identities := &identityRepoMock{
		getByEmailFn: func(_ context.Context, email string) (*domain.Identity, error) {
			if email != identity.Email {
				return nil, repository.ErrNotFound
			}
			copy := *identity
			return &copy, nil
		},
	}
	svc := NewTokenService(identities, "test-secret", 30*time.Minute)

	token, expiresAt, err := svc.Issue(identity)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expiry must be in the future")
	}

	resolved, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.ID != identity.ID {
		t.Fatalf("resolved wrong identity: %s", resolved.ID)
	}
}

func TestResolveRejectsExpiredToken(t *testing.T) {
	identity := &domain.Identity{ID: "id-1", Email: "user@example.com"}
	svc := NewTokenService(&identityRepoMock{}, "test-secret", -time.Minute)

	token, _, err := svc.Issue(identity)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = svc.Resolve(context.Background(), token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestResolveRejectsTamperedToken(t *testing.T) {
	identity := &domain.Identity{ID: "id-1", Email: "user@example.com"}
	svc := NewTokenService(&identityRepoMock{}, "test-secret", 30*time.Minute)

	token, _, err := svc.Issue(identity)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".invalidsignature"

	if _, err := svc.Resolve(context.Background(), tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestResolveRejectsForeignSecret(t *testing.T) {
	identity := &domain.Identity{ID: "id-1", Email: "user@example.com"}
	issuer := NewTokenService(&identityRepoMock{}, "secret-a", 30*time.Minute)
	verifier := NewTokenService(&identityRepoMock{}, "secret-b", 30*time.Minute)

	token, _, err := issuer.Issue(identity)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Resolve(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestResolveUnknownSubject(t *testing.T) {
	identity := &domain.Identity{ID: "id-1", Email: "deleted@example.com"}
	identities := &identityRepoMock{
		getByEmailFn: func(context.Context, string) (*domain.Identity, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewTokenService(identities, "test-secret", 30*time.Minute)

	token, _, err := svc.Issue(identity)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), token); !errors.Is(err, ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestResolveRejectsGarbage(t *testing.T) {
	svc := NewTokenService(&identityRepoMock{}, "test-secret", 30*time.Minute)

	if _, err := svc.Resolve(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
