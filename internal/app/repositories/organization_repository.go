package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
)

// Organization error types
var ErrOrganizationNotFound = apperrors.ErrOrganizationNotFound

// OrganizationRepository handles database operations for organizations.
type OrganizationRepository struct {
	db *pgxpool.Pool
}

// NewOrganizationRepository creates a new organization repository.
func NewOrganizationRepository(db *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = `id, name, kind, contact_email, phone, city, address, metadata, created_at, updated_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	var raw []byte
	if err := row.Scan(&org.ID, &org.Name, &org.Kind, &org.ContactEmail, &org.Phone,
		&org.City, &org.Address, &raw, &org.CreatedAt, &org.UpdatedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &org.Metadata); err != nil {
			return nil, fmt.Errorf("error decoding organization metadata: %w", err)
		}
	}
	return &org, nil
}

// Create inserts a new organization.
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	raw, err := json.Marshal(org.Metadata)
	if err != nil {
		return fmt.Errorf("error encoding organization metadata: %w", err)
	}
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	query := `
		INSERT INTO organizations (id, name, kind, contact_email, phone, city, address, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query, org.ID, org.Name, org.Kind, org.ContactEmail,
		org.Phone, org.City, org.Address, raw).Scan(&org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating organization: %w", err)
	}
	return nil
}

// GetByID retrieves an organization by ID.
func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := scanOrganization(r.db.QueryRow(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error retrieving organization: %w", err)
	}
	return org, nil
}

// FindByName finds an organization by name, case-insensitive and trimmed.
func (r *OrganizationRepository) FindByName(ctx context.Context, name string) (*models.Organization, error) {
	org, err := scanOrganization(r.db.QueryRow(ctx, `
		SELECT `+organizationColumns+`
		FROM organizations
		WHERE lower(btrim(name)) = lower(btrim($1))
		LIMIT 1
	`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("error retrieving organization by name: %w", err)
	}
	return org, nil
}

// ListByKind retrieves all organizations of the given kind.
func (r *OrganizationRepository) ListByKind(ctx context.Context, kind models.OrganizationKind) ([]*models.Organization, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE kind = $1 ORDER BY name`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an organization by ID.
func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting organization: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}
