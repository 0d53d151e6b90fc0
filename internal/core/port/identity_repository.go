package port

import (
	"context"
	"time"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
)

// IdentityFilter narrows identity counting queries.
type IdentityFilter struct {
	Role   domain.Role
	Status domain.IdentityStatus
}

// IdentityRepository exposes persistence behavior for identities.
//
// Email uniqueness is enforced by the store itself: Create returns
// repository.ErrConflict on a duplicate email regardless of any pre-check
// the caller performed, which closes the check-then-act race between
// concurrent creations.
type IdentityRepository interface {
	Create(ctx context.Context, identity domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	UpdateRole(ctx context.Context, id string, role domain.Role, updatedAt time.Time) error
	UpdatePermissions(ctx context.Context, id string, permissions domain.PermissionSet, updatedAt time.Time) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// DeleteReassigningClients atomically transfers every client owned by
	// the target identity to newOwnerID and removes the identity, so no
	// client record is ever left ownerless. It returns the number of
	// reassigned clients.
	DeleteReassigningClients(ctx context.Context, targetID, newOwnerID string) (int64, error)
	List(ctx context.Context) ([]domain.Identity, error)
	Count(ctx context.Context, filter IdentityFilter) (int, error)
}
