package port

import (
	"context"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
)

// ClientRepository exposes persistence behavior for client records. All
// single-record operations are scoped by owner: a record owned by a
// different identity is indistinguishable from a missing one.
type ClientRepository interface {
	Create(ctx context.Context, client domain.Client) error
	GetByOwner(ctx context.Context, ownerID, id string) (*domain.Client, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Client, error)
	Update(ctx context.Context, client domain.Client) error
	DeleteByOwner(ctx context.Context, ownerID, id string) error
	CountAll(ctx context.Context) (int, error)
}
