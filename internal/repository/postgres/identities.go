package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/core/port"
	"github.com/Limon4ik66607/TestCRM/internal/repository"
)

const pgUniqueViolation = "23505"

var identityColumns = []string{
	"id",
	"email",
	"name",
	"password_hash",
	"role",
	"status",
	"permissions",
	"created_by",
	"last_login",
	"created_at",
	"updated_at",
}

// IdentityRepository implements port.IdentityRepository using PostgreSQL.
type IdentityRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewIdentityRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewIdentityRepository(exec pgExecutor) *IdentityRepository {
	return &IdentityRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new identity row. A duplicate email is rejected by the
// unique constraint and surfaces as repository.ErrConflict.
func (r *IdentityRepository) Create(ctx context.Context, identity domain.Identity) error {
	permissions, err := json.Marshal(identity.Permissions)
	if err != nil {
		return fmt.Errorf("marshal permissions: %w", err)
	}

	stmt, args, err := r.builder.Insert("identities").
		Columns(identityColumns...).
		Values(
			identity.ID,
			identity.Email,
			identity.Name,
			identity.PasswordHash,
			identity.Role,
			identity.Status,
			permissions,
			identity.CreatedBy,
			identity.LastLogin,
			identity.CreatedAt,
			identity.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert identity sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert identity: %w", err)
	}

	return nil
}

// GetByID retrieves an identity by identifier.
func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	stmt, args, err := r.builder.Select(identityColumns...).
		From("identities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select identity sql: %w", err)
	}

	return r.scanIdentity(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves an identity by its unique email.
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	stmt, args, err := r.builder.Select(identityColumns...).
		From("identities").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select identity by email sql: %w", err)
	}

	return r.scanIdentity(r.exec.QueryRow(ctx, stmt, args...))
}

// UpdateRole persists a new role and the updated timestamp.
func (r *IdentityRepository) UpdateRole(ctx context.Context, id string, role domain.Role, updatedAt time.Time) error {
	stmt, args, err := r.builder.Update("identities").
		Set("role", role).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePermissions replaces the stored permission set.
func (r *IdentityRepository) UpdatePermissions(ctx context.Context, id string, permissions domain.PermissionSet, updatedAt time.Time) error {
	payload, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("marshal permissions: %w", err)
	}

	stmt, args, err := r.builder.Update("identities").
		Set("permissions", payload).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update permissions sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update permissions: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateLastLogin stamps the most recent successful authentication.
func (r *IdentityRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("identities").
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteReassigningClients transfers every client owned by the target to
// newOwnerID and deletes the identity within a single transaction.
func (r *IdentityRepository) DeleteReassigningClients(ctx context.Context, targetID, newOwnerID string) (int64, error) {
	beginner, ok := r.exec.(pgBeginner)
	if !ok {
		return 0, fmt.Errorf("executor does not support transactions")
	}

	tx, err := beginner.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin delete identity tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	reassignStmt, reassignArgs, err := r.builder.Update("clients").
		Set("owner_id", newOwnerID).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"owner_id": targetID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build reassign clients sql: %w", err)
	}

	ct, err := tx.Exec(ctx, reassignStmt, reassignArgs...)
	if err != nil {
		return 0, fmt.Errorf("reassign clients: %w", err)
	}
	reassigned := ct.RowsAffected()

	deleteStmt, deleteArgs, err := r.builder.Delete("identities").
		Where(squirrel.Eq{"id": targetID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete identity sql: %w", err)
	}

	ct, err = tx.Exec(ctx, deleteStmt, deleteArgs...)
	if err != nil {
		return 0, fmt.Errorf("delete identity: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return 0, repository.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit delete identity tx: %w", err)
	}

	return reassigned, nil
}

// List returns all identities ordered by creation time.
func (r *IdentityRepository) List(ctx context.Context) ([]domain.Identity, error) {
	stmt, args, err := r.builder.Select(identityColumns...).
		From("identities").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list identities sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	identities := make([]domain.Identity, 0)
	for rows.Next() {
		identity, err := scanIdentityRow(rows)
		if err != nil {
			return nil, err
		}
		identities = append(identities, *identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}

	return identities, nil
}

// Count returns the number of identities matching the filter.
func (r *IdentityRepository) Count(ctx context.Context, filter port.IdentityFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("identities")

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count identities sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan identities count: %w", err)
	}

	return int(count), nil
}

func (r *IdentityRepository) scanIdentity(row pgx.Row) (*domain.Identity, error) {
	identity, err := scanIdentityRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return identity, nil
}

func scanIdentityRow(row pgx.Row) (*domain.Identity, error) {
	var (
		identity    domain.Identity
		permissions []byte
		createdBy   *string
		lastLogin   *time.Time
	)

	if err := row.Scan(
		&identity.ID,
		&identity.Email,
		&identity.Name,
		&identity.PasswordHash,
		&identity.Role,
		&identity.Status,
		&permissions,
		&createdBy,
		&lastLogin,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan identity: %w", err)
	}

	// Permission shape is repaired on every read path; old rows may hold
	// null or the legacy array encoding.
	identity.Permissions = domain.NormalizePermissions(permissions)
	identity.CreatedBy = createdBy
	identity.LastLogin = lastLogin

	return &identity, nil
}

var _ port.IdentityRepository = (*IdentityRepository)(nil)
