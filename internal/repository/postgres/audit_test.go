package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
)

func TestAuditRepository_Insert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAuditRepository(mock)

	ip := "198.51.100.7"
	targetID := "staff-1"
	entry := domain.AuditEntry{
		ID:          "audit-1",
		ActorID:     "admin-1",
		Action:      domain.AuditActionDelete,
		TargetType:  domain.AuditTargetIdentity,
		TargetID:    &targetID,
		Description: "deleted staff account",
		IPAddress:   &ip,
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO audit_entries`).
		WithArgs(
			entry.ID,
			entry.ActorID,
			entry.Action,
			entry.TargetType,
			&targetID,
			entry.Description,
			&ip,
			(*string)(nil),
			entry.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_ListRecentAppliesLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAuditRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(auditColumns).
		AddRow("audit-2", "admin-1", domain.AuditActionUpdate, domain.AuditTargetIdentity, nil, "second", nil, nil, now).
		AddRow("audit-1", "admin-1", domain.AuditActionCreate, domain.AuditTargetIdentity, nil, "first", nil, nil, now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT .*FROM audit_entries ORDER BY created_at DESC LIMIT 2`).
		WillReturnRows(rows)

	entries, err := repo.ListRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "audit-2" {
		t.Fatalf("expected newest entry first, got %s", entries[0].ID)
	}
}
