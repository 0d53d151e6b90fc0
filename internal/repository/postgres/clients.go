package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/core/port"
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

var clientColumns = []string{
	"id",
	"name",
	"phone",
	"note",
	"status",
	"owner_id",
	"created_at",
	"updated_at",
}

// ClientRepository implements port.ClientRepository using PostgreSQL.
type ClientRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewClientRepository constructs a PostgreSQL-backed client repository.
func NewClientRepository(exec pgExecutor) *ClientRepository {
	return &ClientRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new client row.
func (r *ClientRepository) Create(ctx context.Context, client domain.Client) error {
	stmt, args, err := r.builder.Insert("clients").
		Columns(clientColumns...).
		Values(
			client.ID,
			client.Name,
			client.Phone,
			client.Note,
			client.Status,
			client.OwnerID,
			client.CreatedAt,
			client.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert client sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}

	return nil
}

// GetByOwner retrieves a client by id scoped to its owner.
func (r *ClientRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Client, error) {
	stmt, args, err := r.builder.Select(clientColumns...).
		From("clients").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select client sql: %w", err)
	}

	var client domain.Client
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.Note,
		&client.Status,
		&client.OwnerID,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}

	return &client, nil
}

// ListByOwner returns all clients owned by the given identity.
func (r *ClientRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Client, error) {
	stmt, args, err := r.builder.Select(clientColumns...).
		From("clients").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clients sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Phone,
			&client.Note,
			&client.Status,
			&client.OwnerID,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}

	return clients, nil
}

// Update modifies a client's fields scoped to its owner.
func (r *ClientRepository) Update(ctx context.Context, client domain.Client) error {
	stmt, args, err := r.builder.Update("clients").
		Set("name", client.Name).
		Set("phone", client.Phone).
		Set("note", client.Note).
		Set("status", client.Status).
		Set("updated_at", client.UpdatedAt).
		Where(squirrel.Eq{"id": client.ID, "owner_id": client.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update client sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByOwner removes a client scoped to its owner.
func (r *ClientRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	stmt, args, err := r.builder.Delete("clients").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete client sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CountAll returns the total number of client records.
func (r *ClientRepository) CountAll(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").From("clients").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count clients sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan clients count: %w", err)
	}

	return int(count), nil
}

var _ port.ClientRepository = (*ClientRepository)(nil)
