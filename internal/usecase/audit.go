package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/core/port"
)

// RequestMeta carries transport-level details attached to audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditService records and lists the activity trail. Recording is strictly
// best-effort: a failed insert is logged and swallowed so the primary
// operation's outcome never depends on the audit store.
type AuditService struct {
	entries      port.AuditRepository
	log          *zap.Logger
	defaultLimit int
}

// NewAuditService builds an AuditService. defaultLimit bounds List calls
// that do not specify their own limit.
func NewAuditService(entries port.AuditRepository, log *zap.Logger, defaultLimit int) *AuditService {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &AuditService{
		entries:      entries,
		log:          log,
		defaultLimit: defaultLimit,
	}
}

// Record appends an activity entry after a primary write has succeeded.
// Failures are logged at Warn and never propagated.
func (s *AuditService) Record(ctx context.Context, actorID string, action domain.AuditAction, targetType domain.AuditTargetType, targetID *string, description string, meta RequestMeta) {
	entry := domain.AuditEntry{
		ID:          uuid.NewString(),
		ActorID:     actorID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if meta.IPAddress != "" {
		entry.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		entry.UserAgent = &meta.UserAgent
	}

	if err := s.entries.Insert(ctx, entry); err != nil {
		s.log.Warn("audit entry dropped",
			zap.String("actor_id", actorID),
			zap.String("action", string(action)),
			zap.String("target_type", string(targetType)),
			zap.Error(err),
		)
	}
}

// List returns the most recent entries, newest first. A non-positive limit
// falls back to the configured default.
func (s *AuditService) List(ctx context.Context, actor *domain.Identity, limit int) ([]domain.AuditEntry, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}

	entries, err := s.entries.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, nil
}
