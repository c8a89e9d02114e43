package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
)

// User error types
var ErrUserNotFound = apperrors.ErrUserNotFound

// UserRepository handles database operations for users. Outside of company
// account provisioning the platform's auth subsystem owns this table; here
// it is read for notification fan-out and deleted on company cascade.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, password_hash, roles, organization_id, programmes, created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Roles,
		&u.OrganizationID, &u.Programmes, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, email, name, password_hash, roles, organization_id, programmes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash,
		u.Roles, u.OrganizationID, u.Programmes).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return u, nil
}

// ListByOrganization retrieves all users belonging to an organization.
func (r *UserRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE organization_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListByOrganizationWithRoles retrieves organization users holding at least
// one of the given roles.
func (r *UserRepository) ListByOrganizationWithRoles(ctx context.Context, orgID uuid.UUID, roles []string) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE organization_id = $1 AND roles && $2
		ORDER BY name
	`, orgID, roles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListCompanyUsersByOrganizationName finds company-role users whose
// organization name matches, case-insensitive and trimmed. Placement is
// free text, so this is the resolution step from placement name to
// notification recipients.
func (r *UserRepository) ListCompanyUsersByOrganizationName(ctx context.Context, name string) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.email, u.name, u.password_hash, u.roles, u.organization_id, u.programmes,
		       u.created_at, u.updated_at, u.last_login_at
		FROM users u
		JOIN organizations o ON o.id = u.organization_id
		WHERE o.kind = 'company'
		  AND lower(btrim(o.name)) = lower(btrim($1))
		  AND 'company' = ANY(u.roles)
		ORDER BY u.name
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// DeleteByOrganization removes all users of an organization, returning the
// number deleted.
func (r *UserRepository) DeleteByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE organization_id = $1`, orgID)
	if err != nil {
		return 0, fmt.Errorf("error deleting organization users: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func collectUsers(rows pgx.Rows) ([]*models.User, error) {
	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
