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

// Record error types
var ErrRecordNotFound = apperrors.ErrRecordNotFound

// RecordRepository handles database operations for school records.
type RecordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository creates a new record repository.
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `id, organization_id, type, status, data, created_at, updated_at`

func scanRecord(row pgx.Row) (*models.SchoolRecord, error) {
	var rec models.SchoolRecord
	var raw []byte
	if err := row.Scan(&rec.ID, &rec.OrganizationID, &rec.Type, &rec.Status, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	data, err := models.DecodeRecordData(rec.Type, raw)
	if err != nil {
		return nil, fmt.Errorf("error decoding record data: %w", err)
	}
	rec.Data = data
	return &rec, nil
}

// Create inserts a new record.
func (r *RecordRepository) Create(ctx context.Context, rec *models.SchoolRecord) error {
	raw, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("error encoding record data: %w", err)
	}
	query := `
		INSERT INTO school_records (id, organization_id, type, status, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	err = r.db.QueryRow(ctx, query, rec.ID, rec.OrganizationID, rec.Type, rec.Status, raw).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating record: %w", err)
	}
	return nil
}

// GetByID retrieves a record by ID.
func (r *RecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SchoolRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM school_records WHERE id = $1`
	rec, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("error retrieving record: %w", err)
	}
	return rec, nil
}

// ListByOrganization retrieves records owned by an organization, optionally
// filtered to a set of types.
func (r *RecordRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, types ...models.RecordType) ([]*models.SchoolRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM school_records WHERE organization_id = $1`
	args := []any{orgID}
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		query += ` AND type = ANY($2)`
		args = append(args, names)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Update rewrites a record's status and data payload.
func (r *RecordRepository) Update(ctx context.Context, rec *models.SchoolRecord) error {
	raw, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("error encoding record data: %w", err)
	}
	query := `
		UPDATE school_records
		SET status = $2, data = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRow(ctx, query, rec.ID, rec.Status, raw).Scan(&rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("error updating record: %w", err)
	}
	return nil
}

// Delete removes a record by ID.
func (r *RecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM school_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ApplyAssignmentDecision performs the confirm/reject transition as one
// conditional update: the merge only happens while the assignment is still
// pending and bound to the acting company. The returned flag is false when
// no row matched, which is how a lost race or an already-decided assignment
// shows up.
func (r *RecordRepository) ApplyAssignmentDecision(ctx context.Context, recordID, companyID uuid.UUID, patch map[string]any) (bool, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return false, fmt.Errorf("error encoding decision patch: %w", err)
	}
	query := `
		UPDATE school_records
		SET data = data || $3::jsonb, updated_at = now()
		WHERE id = $1
		  AND type = 'student'
		  AND data->>'assignedCompanyId' = $2
		  AND COALESCE(data->>'assignmentStatus', '') = 'pending'
	`
	cmdTag, err := r.db.Exec(ctx, query, recordID, companyID.String(), raw)
	if err != nil {
		return false, fmt.Errorf("error applying assignment decision: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// SetNotificationState merges company-notification bookkeeping fields into
// a student record without touching the rest of the payload.
func (r *RecordRepository) SetNotificationState(ctx context.Context, recordID uuid.UUID, patch map[string]any) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("error encoding notification patch: %w", err)
	}
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE school_records
		SET data = data || $2::jsonb, updated_at = now()
		WHERE id = $1 AND type = 'student'
	`, recordID, raw)
	if err != nil {
		return fmt.Errorf("error updating notification state: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListFailedCompanyNotifications returns student records whose company
// notification was attempted and failed. The sweep job retries exactly this
// set; delivered records are never re-sent.
func (r *RecordRepository) ListFailedCompanyNotifications(ctx context.Context) ([]*models.SchoolRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM school_records
		WHERE type = 'student'
		  AND COALESCE(data->>'placement', '') <> ''
		  AND data->>'companyNotified' = 'failed'
		ORDER BY updated_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListStudentsForCompany returns student records placed with the given
// company, matched by bound organization id or by placement name.
func (r *RecordRepository) ListStudentsForCompany(ctx context.Context, companyID uuid.UUID, companyName string) ([]*models.SchoolRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM school_records
		WHERE type = 'student'
		  AND (data->>'assignedCompanyId' = $1
		       OR lower(btrim(COALESCE(data->>'placement', ''))) = lower(btrim($2)))
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, companyID.String(), companyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// FindStudentByEmail finds a student record by email, case-insensitive.
func (r *RecordRepository) FindStudentByEmail(ctx context.Context, email string) (*models.SchoolRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM school_records
		WHERE type = 'student' AND lower(data->>'email') = lower($1)
		LIMIT 1
	`
	rec, err := scanRecord(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("error retrieving student record: %w", err)
	}
	return rec, nil
}

func collectRecords(rows pgx.Rows) ([]*models.SchoolRecord, error) {
	var out []*models.SchoolRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
