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
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

// CreateClientInput carries fields for a new client record.
type CreateClientInput struct {
	Name   string
	Phone  string
	Note   string
	Status string
}

// UpdateClientInput carries the full replacement state for a client. Nil
// fields keep their stored value.
type UpdateClientInput struct {
	Name   *string
	Phone  *string
	Note   *string
	Status *string
}

// ClientService implements owner-scoped client management gated by the
// identity's permission set.
type ClientService struct {
	clients port.ClientRepository
	audit   *AuditService
	log     *zap.Logger
}

// NewClientService wires a ClientService.
func NewClientService(clients port.ClientRepository, audit *AuditService, log *zap.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		audit:   audit,
		log:     log,
	}
}

// Create adds a client owned by the acting identity.
func (s *ClientService) Create(ctx context.Context, actor *domain.Identity, input CreateClientInput, meta RequestMeta) (*domain.Client, error) {
	if !actor.Permissions.CanAddClients {
		return nil, ErrPermissionDenied
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = domain.ClientStatusNew
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Note:      input.Note,
		Status:    status,
		OwnerID:   actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.audit.Record(ctx, actor.ID, domain.AuditActionCreate, domain.AuditTargetClient, &client.ID,
		fmt.Sprintf("created client %s", client.Name), meta)

	return &client, nil
}

// Get loads one of the actor's clients.
func (s *ClientService) Get(ctx context.Context, actor *domain.Identity, id string) (*domain.Client, error) {
	client, err := s.clients.GetByOwner(ctx, actor.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("load client: %w", err)
	}
	return client, nil
}

// List returns every client owned by the actor.
func (s *ClientService) List(ctx context.Context, actor *domain.Identity) ([]domain.Client, error) {
	clients, err := s.clients.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// Update applies partial changes to one of the actor's clients.
func (s *ClientService) Update(ctx context.Context, actor *domain.Identity, id string, input UpdateClientInput, meta RequestMeta) (*domain.Client, error) {
	if !actor.Permissions.CanEditClients {
		return nil, ErrPermissionDenied
	}

	client, err := s.clients.GetByOwner(ctx, actor.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("load client: %w", err)
	}

	if input.Name != nil {
		client.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		client.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Note != nil {
		client.Note = *input.Note
	}
	if input.Status != nil {
		client.Status = strings.TrimSpace(*input.Status)
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.clients.Update(ctx, *client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("update client: %w", err)
	}

	s.audit.Record(ctx, actor.ID, domain.AuditActionUpdate, domain.AuditTargetClient, &client.ID,
		fmt.Sprintf("updated client %s", client.Name), meta)

	return client, nil
}

// Delete removes one of the actor's clients.
func (s *ClientService) Delete(ctx context.Context, actor *domain.Identity, id string, meta RequestMeta) error {
	if !actor.Permissions.CanDeleteClients {
		return ErrPermissionDenied
	}

	client, err := s.clients.GetByOwner(ctx, actor.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("load client: %w", err)
	}

	if err := s.clients.DeleteByOwner(ctx, actor.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("delete client: %w", err)
	}

	s.audit.Record(ctx, actor.ID, domain.AuditActionDelete, domain.AuditTargetClient, &client.ID,
		fmt.Sprintf("deleted client %s", client.Name), meta)

	return nil
}
