package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/core/port"
	"github.com/Limon4ik66607/TestCRM/internal/infra/security"
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

// CreateStaffInput carries the fields an administrator submits when adding
// a staff account. Permissions is the raw payload as submitted; it is
// normalized before storage.
type CreateStaffInput struct {
	Email       string
	Name        string
	Password    string
	Role        domain.Role
	Permissions json.RawMessage
}

// BootstrapInput carries the credentials for the initial administrator.
type BootstrapInput struct {
	Email    string
	Name     string
	Password string
}

// Stats summarizes the workspace for the admin dashboard.
type Stats struct {
	TotalStaff   int
	ActiveStaff  int
	Admins       int
	Managers     int
	Staff        int
	TotalClients int
}

// SubscriptionInfo describes the current billing plan. Billing is not
// implemented; every workspace reports the built-in free tier.
type SubscriptionInfo struct {
	Plan       string
	Status     string
	MaxStaff   int
	MaxClients int
}

// StaffService implements administrator-facing identity management.
type StaffService struct {
	identities port.IdentityRepository
	audit      *AuditService
	passwords  *security.PasswordValidator
	clients    port.ClientRepository
	log        *zap.Logger
}

// NewStaffService wires a StaffService.
func NewStaffService(
	identities port.IdentityRepository,
	clients port.ClientRepository,
	audit *AuditService,
	passwords *security.PasswordValidator,
	log *zap.Logger,
) *StaffService {
	return &StaffService{
		identities: identities,
		clients:    clients,
		audit:      audit,
		passwords:  passwords,
		log:        log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateStaff registers a new account on behalf of an administrator. The
// store's unique constraint is the authority on email collisions.
func (s *StaffService) CreateStaff(ctx context.Context, actor *domain.Identity, input CreateStaffInput, meta RequestMeta) (*domain.Identity, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

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
		Role:         role,
		Status:       domain.StatusActive,
		Permissions:  domain.NormalizePermissions(input.Permissions),
		CreatedBy:    &actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailConflict
		}
		return nil, fmt.Errorf("create staff: %w", err)
	}

	s.audit.Record(ctx, actor.ID, domain.AuditActionCreate, domain.AuditTargetIdentity, &identity.ID,
		fmt.Sprintf("created staff account %s with role %s", identity.Email, identity.Role), meta)

	return &identity, nil
}

// ListStaff returns every identity in the workspace.
func (s *StaffService) ListStaff(ctx context.Context, actor *domain.Identity) ([]domain.Identity, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	identities, err := s.identities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	return identities, nil
}

// UpdateRole changes the target's role. Administrators cannot change their
// own role.
func (s *StaffService) UpdateRole(ctx context.Context, actor *domain.Identity, targetID string, role domain.Role, meta RequestMeta) (*domain.Identity, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := forbidSelfTarget(actor, targetID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	target, err := s.identities.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}

	now := time.Now().UTC()
	if err := s.identities.UpdateRole(ctx, targetID, role, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	previous := target.Role
	target.Role = role
	target.UpdatedAt = now

	s.audit.Record(ctx, actor.ID, domain.AuditActionUpdate, domain.AuditTargetIdentity, &target.ID,
		fmt.Sprintf("changed role of %s from %s to %s", target.Email, previous, role), meta)

	return target, nil
}

// UpdatePermissions replaces the target's permission set wholesale with the
// normalized form of the submitted payload. There is no key-level merge.
func (s *StaffService) UpdatePermissions(ctx context.Context, actor *domain.Identity, targetID string, raw json.RawMessage, meta RequestMeta) (*domain.Identity, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	target, err := s.identities.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}

	permissions := domain.NormalizePermissions(raw)

	now := time.Now().UTC()
	if err := s.identities.UpdatePermissions(ctx, targetID, permissions, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("update permissions: %w", err)
	}

	target.Permissions = permissions
	target.UpdatedAt = now

	s.audit.Record(ctx, actor.ID, domain.AuditActionUpdate, domain.AuditTargetIdentity, &target.ID,
		fmt.Sprintf("replaced permissions of %s", target.Email), meta)

	return target, nil
}

// DeleteStaff removes the target account and atomically hands its clients
// to the acting administrator. It returns the number of reassigned clients.
func (s *StaffService) DeleteStaff(ctx context.Context, actor *domain.Identity, targetID string, meta RequestMeta) (int64, error) {
	if err := RequireAdmin(actor); err != nil {
		return 0, err
	}
	if err := forbidSelfTarget(actor, targetID); err != nil {
		return 0, err
	}

	target, err := s.identities.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrIdentityNotFound
		}
		return 0, fmt.Errorf("load identity: %w", err)
	}

	reassigned, err := s.identities.DeleteReassigningClients(ctx, targetID, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrIdentityNotFound
		}
		return 0, fmt.Errorf("delete staff: %w", err)
	}

	s.audit.Record(ctx, actor.ID, domain.AuditActionDelete, domain.AuditTargetIdentity, &target.ID,
		fmt.Sprintf("deleted staff account %s, reassigned %d clients", target.Email, reassigned), meta)

	return reassigned, nil
}

// BootstrapAdmin creates the initial administrator. It only succeeds while
// the identity table is empty; afterwards it reports ErrAlreadyInitialized.
func (s *StaffService) BootstrapAdmin(ctx context.Context, input BootstrapInput, meta RequestMeta) (*domain.Identity, error) {
	total, err := s.identities.Count(ctx, port.IdentityFilter{})
	if err != nil {
		return nil, fmt.Errorf("count identities: %w", err)
	}
	if total > 0 {
		return nil, ErrAlreadyInitialized
	}

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
		// Two racing bootstrap calls pass the emptiness check together;
		// the unique constraint lets exactly one of them through.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyInitialized
		}
		return nil, fmt.Errorf("create bootstrap admin: %w", err)
	}

	s.audit.Record(ctx, identity.ID, domain.AuditActionCreate, domain.AuditTargetIdentity, &identity.ID,
		fmt.Sprintf("bootstrapped initial administrator %s", identity.Email), meta)

	s.log.Info("bootstrap administrator created", zap.String("identity_id", identity.ID))

	return &identity, nil
}

// Stats aggregates dashboard counters.
func (s *StaffService) Stats(ctx context.Context, actor *domain.Identity) (*Stats, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	total, err := s.identities.Count(ctx, port.IdentityFilter{})
	if err != nil {
		return nil, fmt.Errorf("count identities: %w", err)
	}

	active, err := s.identities.Count(ctx, port.IdentityFilter{Status: domain.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("count active staff: %w", err)
	}

	admins, err := s.identities.Count(ctx, port.IdentityFilter{Role: domain.RoleAdmin})
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}

	managers, err := s.identities.Count(ctx, port.IdentityFilter{Role: domain.RoleManager})
	if err != nil {
		return nil, fmt.Errorf("count managers: %w", err)
	}

	staff, err := s.identities.Count(ctx, port.IdentityFilter{Role: domain.RoleStaff})
	if err != nil {
		return nil, fmt.Errorf("count staff: %w", err)
	}

	clients, err := s.clients.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}

	return &Stats{
		TotalStaff:   total,
		ActiveStaff:  active,
		Admins:       admins,
		Managers:     managers,
		Staff:        staff,
		TotalClients: clients,
	}, nil
}

// Subscription reports the plan attached to the workspace.
func (s *StaffService) Subscription(actor *domain.Identity) (*SubscriptionInfo, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	return &SubscriptionInfo{
		Plan:       "free",
		Status:     "active",
		MaxStaff:   5,
		MaxClients: 500,
	}, nil
}
