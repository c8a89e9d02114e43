package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appauth "github.com/liahub/liahub-backend/internal/app/auth"
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/app/records"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
)

// ImportService runs bulk spreadsheet imports. Import is not transactional:
// every data row is sanitized, deduplicated and stored on its own, and the
// result reports per-row outcomes with 1-based spreadsheet row numbers (the
// header is row 1, the first data row is row 2).
type ImportService struct {
	records  RecordStore
	authz    *appauth.AuthorizationService
	notifier CompanyNotifier
	logger   zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	recordStore RecordStore,
	authz *appauth.AuthorizationService,
	notifier CompanyNotifier,
	logger zerolog.Logger,
) *ImportService {
	return &ImportService{
		records:  recordStore,
		authz:    authz,
		notifier: notifier,
		logger:   logger.With().Str("service", "import").Logger(),
	}
}

// ImportRows imports a parsed sheet into records of the given type. rows[0]
// is the header row; its cells are matched case-insensitively against the
// known column synonyms for the type. Duplicates are detected by natural
// key against both the stored records and the earlier rows of the same
// sheet, first occurrence wins.
func (s *ImportService) ImportRows(ctx context.Context, actor Actor, t models.RecordType, rows [][]string) (*dto.ImportResult, error) {
	if !t.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown record type %q", t))
	}
	if !s.authz.CanImportRecordType(actor.Roles, t) {
		return nil, apperrors.NewForbiddenError("insufficient permissions for this record type")
	}
	if len(rows) < 2 {
		return nil, apperrors.NewValidationError("the sheet needs a header row and at least one data row")
	}
	headers := rows[0]

	seen, err := s.existingKeys(ctx, actor.OrganizationID, t)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{
		SuccessRecords: []dto.ImportRowSuccess{},
		FailedRecords:  []dto.ImportRowFailure{},
	}
	for i, row := range rows[1:] {
		rowNum := i + 2
		result.Summary.TotalRows++

		fields := records.MapRow(t, headers, row)
		if reason := missingIdentity(t, fields); reason != "" {
			result.FailedRecords = append(result.FailedRecords, dto.ImportRowFailure{Row: rowNum, Reason: reason, Fields: fields})
			continue
		}
		if t == models.RecordTypeMyStudent && fields["educationManagerId"] == "" {
			fields["educationManagerId"] = actor.UserID.String()
		}

		key := records.NaturalKeyFromFields(t, fields)
		if seen[key] {
			result.FailedRecords = append(result.FailedRecords, dto.ImportRowFailure{Row: rowNum, Reason: "Duplicate record", Fields: fields})
			continue
		}

		data, err := records.Sanitize(t, fields, nil)
		if err != nil {
			result.FailedRecords = append(result.FailedRecords, dto.ImportRowFailure{Row: rowNum, Reason: err.Error(), Fields: fields})
			continue
		}
		rec := &models.SchoolRecord{
			ID:             uuid.New(),
			OrganizationID: actor.OrganizationID,
			Type:           t,
			Status:         defaultRecordStatus,
			Data:           data,
		}
		if err := s.records.Create(ctx, rec); err != nil {
			s.logger.Error().Err(err).Int("row", rowNum).Msg("Import row insert failed")
			result.FailedRecords = append(result.FailedRecords, dto.ImportRowFailure{Row: rowNum, Reason: "Storing the record failed", Fields: fields})
			continue
		}

		seen[key] = true
		result.SuccessRecords = append(result.SuccessRecords, dto.ImportRowSuccess{Row: rowNum, RecordID: rec.ID.String(), Fields: fields})
		s.notifyImported(ctx, rec)
	}

	result.Summary.Successful = len(result.SuccessRecords)
	result.Summary.Failed = len(result.FailedRecords)
	s.logger.Info().
		Str("type", string(t)).
		Int("total", result.Summary.TotalRows).
		Int("successful", result.Summary.Successful).
		Int("failed", result.Summary.Failed).
		Msg("Import finished")
	return result, nil
}

// existingKeys loads the natural keys of the records already stored for
// the organization and type, so re-importing the same sheet is a no-op.
func (s *ImportService) existingKeys(ctx context.Context, orgID uuid.UUID, t models.RecordType) (map[string]bool, error) {
	stored, err := s.records.ListByOrganization(ctx, orgID, t)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(stored))
	for _, rec := range stored {
		if key := records.NaturalKey(rec.Data); key != "" {
			seen[key] = true
		}
	}
	return seen, nil
}

// missingIdentity rejects rows that carry no usable identity for their
// type. Student-shaped rows need a name or an email; company-shaped rows
// need a business name.
func missingIdentity(t models.RecordType, fields map[string]string) string {
	switch t {
	case models.RecordTypeCompany, models.RecordTypeLeadCompany, models.RecordTypeLiahubCompany:
		if fields["business"] == "" {
			return "Missing business name"
		}
	default:
		if fields["name"] == "" && fields["email"] == "" {
			return "Missing name and email"
		}
	}
	return ""
}

// notifyImported runs the assign-side notification for imported student
// rows that already carry a placement.
func (s *ImportService) notifyImported(ctx context.Context, rec *models.SchoolRecord) {
	if s.notifier == nil || rec.Type != models.RecordTypeStudent {
		return
	}
	d, ok := rec.Data.(*models.StudentData)
	if !ok || d.Placement == "" || d.CompanyNotified == models.NotificationDelivered {
		return
	}
	s.notifier.NotifyCompanyAssigned(ctx, rec)
}
