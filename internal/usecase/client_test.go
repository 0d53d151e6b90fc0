package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

func newClientServiceForTest(clients *clientRepoMock, audit *auditRepoMock) *ClientService {
	log := zap.NewNop()
	return NewClientService(clients, NewAuditService(audit, log, 50), log)
}

func TestClientCreateRequiresPermission(t *testing.T) {
	svc := newClientServiceForTest(&clientRepoMock{}, &auditRepoMock{})

	actor := staffActor()
	actor.Permissions.CanAddClients = false

	_, err := svc.Create(context.Background(), actor, CreateClientInput{Name: "Acme"}, RequestMeta{})

	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestClientCreateAssignsOwnerAndDefaults(t *testing.T) {
	var created domain.Client
	clients := &clientRepoMock{
		createFn: func(_ context.Context, client domain.Client) error {
			created = client
			return nil
		},
	}
	audit := &auditRepoMock{}
	svc := newClientServiceForTest(clients, audit)

	got, err := svc.Create(context.Background(), staffActor(), CreateClientInput{
		Name:  "  Acme Corp ",
		Phone: " +1 555 0100 ",
	}, RequestMeta{})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created.OwnerID != "staff-1" {
		t.Fatalf("client must be owned by the creator, got %s", created.OwnerID)
	}
	if created.Status != domain.ClientStatusNew {
		t.Fatalf("expected default status %q, got %q", domain.ClientStatusNew, created.Status)
	}
	if created.Name != "Acme Corp" || created.Phone != "+1 555 0100" {
		t.Fatalf("fields not trimmed: %+v", created)
	}
	if got.ID == "" {
		t.Fatal("expected generated client id")
	}
	if len(audit.entries) != 1 || audit.entries[0].TargetType != domain.AuditTargetClient {
		t.Fatalf("expected one client audit entry, got %+v", audit.entries)
	}
}

func TestClientGetScopedToOwner(t *testing.T) {
	clients := &clientRepoMock{
		getByOwnerFn: func(_ context.Context, ownerID, id string) (*domain.Client, error) {
			if ownerID != "staff-1" {
				t.Fatalf("lookup must be scoped to the actor, got owner %s", ownerID)
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := newClientServiceForTest(clients, &auditRepoMock{})

	_, err := svc.Get(context.Background(), staffActor(), "someone-elses-client")

	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientUpdateAppliesPartialChanges(t *testing.T) {
	stored := domain.Client{ID: "c-1", Name: "Acme", Phone: "111", Note: "old", Status: "new", OwnerID: "staff-1"}
	var updated domain.Client
	clients := &clientRepoMock{
		getByOwnerFn: func(context.Context, string, string) (*domain.Client, error) {
			copy := stored
			return &copy, nil
		},
		updateFn: func(_ context.Context, client domain.Client) error {
			updated = client
			return nil
		},
	}
	svc := newClientServiceForTest(clients, &auditRepoMock{})

	newStatus := "active"
	got, err := svc.Update(context.Background(), staffActor(), "c-1", UpdateClientInput{
		Status: &newStatus,
	}, RequestMeta{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Status != "active" {
		t.Fatalf("status not updated: %s", updated.Status)
	}
	if updated.Name != "Acme" || updated.Phone != "111" || updated.Note != "old" {
		t.Fatalf("untouched fields must keep stored values: %+v", updated)
	}
	if got.Status != "active" {
		t.Fatalf("returned client must reflect the update: %+v", got)
	}
}

func TestClientUpdateRequiresEditPermission(t *testing.T) {
	svc := newClientServiceForTest(&clientRepoMock{}, &auditRepoMock{})

	actor := staffActor()
	actor.Permissions.CanEditClients = false

	name := "x"
	_, err := svc.Update(context.Background(), actor, "c-1", UpdateClientInput{Name: &name}, RequestMeta{})

	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestClientDeleteRequiresDeletePermission(t *testing.T) {
	svc := newClientServiceForTest(&clientRepoMock{}, &auditRepoMock{})

	// Staff defaults do not include deletion.
	err := svc.Delete(context.Background(), staffActor(), "c-1", RequestMeta{})

	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestClientDeleteSuccess(t *testing.T) {
	stored := domain.Client{ID: "c-1", Name: "Acme", OwnerID: "admin-1"}
	deleted := false
	clients := &clientRepoMock{
		getByOwnerFn: func(context.Context, string, string) (*domain.Client, error) {
			copy := stored
			return &copy, nil
		},
		deleteByOwnerFn: func(_ context.Context, ownerID, id string) error {
			if ownerID != "admin-1" || id != "c-1" {
				t.Fatalf("delete scoped incorrectly: owner=%s id=%s", ownerID, id)
			}
			deleted = true
			return nil
		},
	}
	audit := &auditRepoMock{}
	svc := newClientServiceForTest(clients, audit)

	if err := svc.Delete(context.Background(), adminActor(), "c-1", RequestMeta{}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if !deleted {
		t.Fatal("repository delete not invoked")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != domain.AuditActionDelete {
		t.Fatalf("expected one delete audit entry, got %+v", audit.entries)
	}
}
