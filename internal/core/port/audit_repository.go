package port

import (
	"context"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
)

// AuditRepository persists the append-only activity trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
	// ListRecent returns up to limit entries ordered newest-first.
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
