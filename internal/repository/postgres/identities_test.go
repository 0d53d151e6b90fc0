package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/core/port"
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

func newIdentityFixture() domain.Identity {
	now := time.Now().UTC()
	return domain.Identity{
		ID:           "id-1",
		Email:        "user@example.com",
		Name:         "User",
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         domain.RoleStaff,
		Status:       domain.StatusActive,
		Permissions:  domain.DefaultStaffPermissions(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestIdentityRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)
	identity := newIdentityFixture()

	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs(
			identity.ID,
			identity.Email,
			identity.Name,
			identity.PasswordHash,
			identity.Role,
			identity.Status,
			pgxmock.AnyArg(),
			(*string)(nil),
			(*time.Time)(nil),
			identity.CreatedAt,
			identity.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), identity); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIdentityRepository_CreateMapsUniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	err = repo.Create(context.Background(), newIdentityFixture())
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestIdentityRepository_GetByEmailRepairsPermissions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(identityColumns).AddRow(
		"id-1", "user@example.com", "User", "hash", domain.RoleStaff, domain.StatusActive,
		[]byte(`null`), nil, nil, now, now,
	)

	mock.ExpectQuery(`SELECT .*FROM identities`).
		WithArgs("user@example.com").
		WillReturnRows(rows)

	identity, err := repo.GetByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}

	if identity.Permissions != domain.DefaultStaffPermissions() {
		t.Fatalf("stored null permissions must be repaired on read, got %+v", identity.Permissions)
	}
}

func TestIdentityRepository_GetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM identities`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityRepository_UpdateRoleNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	mock.ExpectExec(`UPDATE identities SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateRole(context.Background(), "missing", domain.RoleManager, time.Now().UTC())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityRepository_DeleteReassigningClients(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clients SET`).
		WithArgs("admin-1", pgxmock.AnyArg(), "staff-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	mock.ExpectExec(`DELETE FROM identities`).
		WithArgs("staff-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	reassigned, err := repo.DeleteReassigningClients(context.Background(), "staff-1", "admin-1")
	if err != nil {
		t.Fatalf("DeleteReassigningClients returned error: %v", err)
	}
	if reassigned != 3 {
		t.Fatalf("expected 3 reassigned clients, got %d", reassigned)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIdentityRepository_DeleteReassigningClientsMissingTarget(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clients SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`DELETE FROM identities`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	_, err = repo.DeleteReassigningClients(context.Background(), "missing", "admin-1")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityRepository_CountWithFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewIdentityRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM identities`).
		WithArgs(domain.StatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))

	count, err := repo.Count(context.Background(), port.IdentityFilter{Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4, got %d", count)
	}
}
