package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/core/port"
)

type identityRepoMock struct {
	createFn            func(ctx context.Context, identity domain.Identity) error
	getByIDFn           func(ctx context.Context, id string) (*domain.Identity, error)
	getByEmailFn        func(ctx context.Context, email string) (*domain.Identity, error)
	updateRoleFn        func(ctx context.Context, id string, role domain.Role, updatedAt time.Time) error
	updatePermissionsFn func(ctx context.Context, id string, permissions domain.PermissionSet, updatedAt time.Time) error
	updateLastLoginFn   func(ctx context.Context, id string, at time.Time) error
	deleteReassignFn    func(ctx context.Context, targetID, newOwnerID string) (int64, error)
	listFn              func(ctx context.Context) ([]domain.Identity, error)
	countFn             func(ctx context.Context, filter port.IdentityFilter) (int, error)
}

func (m *identityRepoMock) Create(ctx context.Context, identity domain.Identity) error {
	if m.createFn == nil {
		return errors.New("unexpected call: Create")
	}
	return m.createFn(ctx, identity)
}

func (m *identityRepoMock) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	if m.getByIDFn == nil {
		return nil, errors.New("unexpected call: GetByID")
	}
	return m.getByIDFn(ctx, id)
}

func (m *identityRepoMock) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if m.getByEmailFn == nil {
		return nil, errors.New("unexpected call: GetByEmail")
	}
	return m.getByEmailFn(ctx, email)
}

func (m *identityRepoMock) UpdateRole(ctx context.Context, id string, role domain.Role, updatedAt time.Time) error {
	if m.updateRoleFn == nil {
		return errors.New("unexpected call: UpdateRole")
	}
	return m.updateRoleFn(ctx, id, role, updatedAt)
}

func (m *identityRepoMock) UpdatePermissions(ctx context.Context, id string, permissions domain.PermissionSet, updatedAt time.Time) error {
	if m.updatePermissionsFn == nil {
		return errors.New("unexpected call: UpdatePermissions")
	}
	return m.updatePermissionsFn(ctx, id, permissions, updatedAt)
}

func (m *identityRepoMock) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if m.updateLastLoginFn == nil {
		return errors.New("unexpected call: UpdateLastLogin")
	}
	return m.updateLastLoginFn(ctx, id, at)
}

func (m *identityRepoMock) DeleteReassigningClients(ctx context.Context, targetID, newOwnerID string) (int64, error) {
	if m.deleteReassignFn == nil {
		return 0, errors.New("unexpected call: DeleteReassigningClients")
	}
	return m.deleteReassignFn(ctx, targetID, newOwnerID)
}

func (m *identityRepoMock) List(ctx context.Context) ([]domain.Identity, error) {
	if m.listFn == nil {
		return nil, errors.New("unexpected call: List")
	}
	return m.listFn(ctx)
}

func (m *identityRepoMock) Count(ctx context.Context, filter port.IdentityFilter) (int, error) {
	if m.countFn == nil {
		return 0, errors.New("unexpected call: Count")
	}
	return m.countFn(ctx, filter)
}

type clientRepoMock struct {
	createFn        func(ctx context.Context, client domain.Client) error
	getByOwnerFn    func(ctx context.Context, ownerID, id string) (*domain.Client, error)
	listByOwnerFn   func(ctx context.Context, ownerID string) ([]domain.Client, error)
	updateFn        func(ctx context.Context, client domain.Client) error
	deleteByOwnerFn func(ctx context.Context, ownerID, id string) error
	countAllFn      func(ctx context.Context) (int, error)
}

func (m *clientRepoMock) Create(ctx context.Context, client domain.Client) error {
	if m.createFn == nil {
		return errors.New("unexpected call: Create client")
	}
	return m.createFn(ctx, client)
}

func (m *clientRepoMock) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Client, error) {
	if m.getByOwnerFn == nil {
		return nil, errors.New("unexpected call: GetByOwner")
	}
	return m.getByOwnerFn(ctx, ownerID, id)
}

func (m *clientRepoMock) ListByOwner(ctx context.Context, ownerID string) ([]domain.Client, error) {
	if m.listByOwnerFn == nil {
		return nil, errors.New("unexpected call: ListByOwner")
	}
	return m.listByOwnerFn(ctx, ownerID)
}

func (m *clientRepoMock) Update(ctx context.Context, client domain.Client) error {
	if m.updateFn == nil {
		return errors.New("unexpected call: Update client")
	}
	return m.updateFn(ctx, client)
}

func (m *clientRepoMock) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	if m.deleteByOwnerFn == nil {
		return errors.New("unexpected call: DeleteByOwner")
	}
	return m.deleteByOwnerFn(ctx, ownerID, id)
}

func (m *clientRepoMock) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn == nil {
		return 0, errors.New("unexpected call: CountAll")
	}
	return m.countAllFn(ctx)
}

type auditRepoMock struct {
	entries   []domain.AuditEntry
	insertErr error
}

func (m *auditRepoMock) Insert(_ context.Context, entry domain.AuditEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *auditRepoMock) ListRecent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]domain.AuditEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}
