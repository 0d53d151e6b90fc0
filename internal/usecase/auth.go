package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/core/port"
	"github.com/Limon4ik66607/TestCRM/internal/infra/logger"
	"github.com/Limon4ik66607/TestCRM/internal/infra/security"
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

// RegisterInput carries self-registration fields.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// LoginInput carries credential-check fields.
type LoginInput struct {
	Email    string
	Password string
}

// Session pairs an authenticated identity with its freshly issued token.
type Session struct {
	Identity  *domain.Identity
	Token     string
	ExpiresAt time.Time
}

// AuthService implements self-registration and credential login.
type AuthService struct {
	identities port.IdentityRepository
	tokens     *TokenService
	audit      *AuditService
	passwords  *security.PasswordValidator
	log        *zap.Logger
}

// NewAuthService wires an AuthService.
func NewAuthService(
	identities port.IdentityRepository,
	tokens *TokenService,
	audit *AuditService,
	passwords *security.PasswordValidator,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		identities: identities,
		tokens:     tokens,
		audit:      audit,
		passwords:  passwords,
		log:        log,
	}
}

// Register creates a workspace account and logs it in. Self-registered
// accounts own their workspace, so they receive the admin role and the
// unrestricted permission set.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, meta RequestMeta) (*Session, error) {
	if err := s.passwords.Validate(input.Password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	identity := domain.Identity{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(input.Email),
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
		Permissions:  domain.FullPermissions(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailConflict
		}
		return nil, fmt.Errorf("register identity: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(&identity)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, identity.ID, domain.AuditActionCreate, domain.AuditTargetIdentity, &identity.ID,
		fmt.Sprintf("registered account %s", identity.Email), meta)

	logger.WithContext(ctx).Info("account registered",
		zap.String("identity_id", identity.ID),
		zap.String("email", logger.MaskEmail(identity.Email)),
	)

	return &Session{Identity: &identity, Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies credentials and issues a token. A missing account and a
// wrong password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput, meta RequestMeta) (*Session, error) {
	identity, err := s.identities.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}

	ok, err := security.VerifyPassword(input.Password, identity.PasswordHash)
	if err != nil {
		s.log.Warn("stored password hash unreadable",
			zap.String("identity_id", identity.ID),
			zap.Error(err),
		)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if identity.Status != domain.StatusActive {
		return nil, ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.identities.UpdateLastLogin(ctx, identity.ID, now); err != nil {
		// Login still succeeds; the timestamp is advisory.
		s.log.Warn("update last login failed",
			zap.String("identity_id", identity.ID),
			zap.Error(err),
		)
	} else {
		identity.LastLogin = &now
	}

	token, expiresAt, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, identity.ID, domain.AuditActionLogin, domain.AuditTargetIdentity, &identity.ID,
		fmt.Sprintf("logged in as %s", identity.Email), meta)

	return &Session{Identity: identity, Token: token, ExpiresAt: expiresAt}, nil
}
