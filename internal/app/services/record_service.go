package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appauth "github.com/liahub/liahub-backend/internal/app/auth"
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/app/records"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
	"github.com/liahub/liahub-backend/internal/pkg/auth"
	"github.com/liahub/liahub-backend/internal/pkg/helpers"
	"github.com/liahub/liahub-backend/internal/pkg/normalize"
)

const defaultRecordStatus = "active"

// RecordService implements the record write path: sanitize the incoming
// field map into a typed payload, persist it, and run the side effects a
// save implies (company provisioning, deletion cascades, the assign-side
// notification).
type RecordService struct {
	records       RecordStore
	organizations OrganizationStore
	users         UserStore
	contracts     ContractStore
	authz         *appauth.AuthorizationService
	notifier      CompanyNotifier
	logger        zerolog.Logger
}

// NewRecordService creates a new RecordService.
func NewRecordService(
	recordStore RecordStore,
	organizationStore OrganizationStore,
	userStore UserStore,
	contractStore ContractStore,
	authz *appauth.AuthorizationService,
	notifier CompanyNotifier,
	logger zerolog.Logger,
) *RecordService {
	return &RecordService{
		records:       recordStore,
		organizations: organizationStore,
		users:         userStore,
		contracts:     contractStore,
		authz:         authz,
		notifier:      notifier,
		logger:        logger.With().Str("service", "record").Logger(),
	}
}

// CreateRecord sanitizes and stores a new record of the requested type.
// Company and lead_company records additionally provision a company
// organization with a login account so the company can act on assignments.
func (s *RecordService) CreateRecord(ctx context.Context, actor Actor, req dto.CreateRecordRequest) (*models.SchoolRecord, error) {
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown record type %q", req.Type))
	}
	if !s.authz.CanWriteRecordType(actor.Roles, req.Type) {
		return nil, apperrors.NewForbiddenError("insufficient permissions for this record type")
	}

	data, err := records.Sanitize(req.Type, req.Data, nil)
	if err != nil {
		return nil, err
	}
	s.stampAssignment(actor, data)

	status := normalize.Trim(req.Status)
	if status == "" {
		status = defaultRecordStatus
	}

	rec := &models.SchoolRecord{
		ID:             uuid.New(),
		OrganizationID: actor.OrganizationID,
		Type:           req.Type,
		Status:         status,
		Data:           data,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}

	if req.Type.IsCompanyLike() {
		s.provisionCompany(ctx, rec)
	}
	s.maybeNotify(ctx, rec)

	return rec, nil
}

// GetRecord returns one record within the caller's organization.
func (s *RecordService) GetRecord(ctx context.Context, actor Actor, id uuid.UUID) (*models.SchoolRecord, error) {
	if !s.authz.CanViewSchoolDashboard(actor.Roles) {
		return nil, apperrors.NewForbiddenError("insufficient permissions to read records")
	}
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.OrganizationID != actor.OrganizationID {
		return nil, apperrors.ErrRecordNotFound
	}
	return rec, nil
}

// ListRecords returns the caller's organization records, optionally
// filtered to one type.
func (s *RecordService) ListRecords(ctx context.Context, actor Actor, t models.RecordType) ([]*models.SchoolRecord, error) {
	if !s.authz.CanViewSchoolDashboard(actor.Roles) {
		return nil, apperrors.NewForbiddenError("insufficient permissions to read records")
	}
	if t == "" {
		return s.records.ListByOrganization(ctx, actor.OrganizationID)
	}
	if !t.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown record type %q", t))
	}
	return s.records.ListByOrganization(ctx, actor.OrganizationID, t)
}

// UpdateRecord merges the incoming field map over the stored payload. A key
// present with an empty value is an explicit clear; absent keys keep their
// stored value. For student records the sanitizer purges the assignment
// block when the placement changes.
func (s *RecordService) UpdateRecord(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateRecordRequest) (*models.SchoolRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.OrganizationID != actor.OrganizationID {
		return nil, apperrors.ErrRecordNotFound
	}
	if !s.authz.CanWriteRecordType(actor.Roles, rec.Type) {
		return nil, apperrors.NewForbiddenError("insufficient permissions for this record type")
	}

	data, err := records.Sanitize(rec.Type, req.Data, rec.Data)
	if err != nil {
		return nil, err
	}
	s.stampAssignment(actor, data)

	rec.Data = data
	if status := normalize.Trim(req.Status); status != "" {
		rec.Status = status
	}
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.maybeNotify(ctx, rec)
	return rec, nil
}

// DeleteRecord removes a record. For company-like records the deletion
// cascades to the matching company organization, its users and its
// contracts. Cascade steps are best-effort: a failing step is logged and
// the remaining steps still run.
func (s *RecordService) DeleteRecord(ctx context.Context, actor Actor, id uuid.UUID) error {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.OrganizationID != actor.OrganizationID {
		return apperrors.ErrRecordNotFound
	}
	if !s.authz.CanWriteRecordType(actor.Roles, rec.Type) {
		return apperrors.NewForbiddenError("insufficient permissions for this record type")
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}
	if rec.Type.IsCompanyLike() {
		s.cascadeCompanyDelete(ctx, rec)
	}
	return nil
}

// stampAssignment fills the audit fields of a freshly seeded assignment.
// The sanitizer owns the purge semantics; this only adds who assigned and
// when, and never overwrites values carried over from the stored payload.
func (s *RecordService) stampAssignment(actor Actor, data models.RecordData) {
	d, ok := data.(*models.StudentData)
	if !ok || d.Placement == "" {
		return
	}
	if d.AssignmentStatus != "" && d.AssignmentAssignedAt == "" {
		d.AssignmentAssignedAt = helpers.NowRFC3339()
	}
	if d.AssignmentStatus != "" && d.AssignedByUserID == "" {
		d.AssignedByUserID = actor.UserID.String()
		d.AssignedByUserName = actor.Name
	}
}

// maybeNotify runs the assign-side notification for student records with a
// placement that has not been delivered to the company yet. Failures never
// surface to the caller; the dispatcher records the outcome on the record.
func (s *RecordService) maybeNotify(ctx context.Context, rec *models.SchoolRecord) {
	if s.notifier == nil || rec.Type != models.RecordTypeStudent {
		return
	}
	d, ok := rec.Data.(*models.StudentData)
	if !ok || d.Placement == "" || d.CompanyNotified == models.NotificationDelivered {
		return
	}
	state := s.notifier.NotifyCompanyAssigned(ctx, rec)
	s.logger.Info().
		Str("record_id", rec.ID.String()).
		Str("placement", d.Placement).
		Str("state", string(state)).
		Msg("Company assignment notification attempted")
}

// provisionCompany makes sure a company organization and a company login
// exist for a newly created company record. Both steps are best-effort:
// the record is already stored and a provisioning failure only logs.
func (s *RecordService) provisionCompany(ctx context.Context, rec *models.SchoolRecord) {
	d, ok := rec.Data.(*models.CompanyData)
	if !ok || d.Business == "" {
		return
	}

	org, err := s.organizations.FindByName(ctx, d.Business)
	if err != nil && !errors.Is(err, apperrors.ErrOrganizationNotFound) {
		s.logger.Error().Err(err).Str("business", d.Business).Msg("Company organization lookup failed")
		return
	}
	if org == nil || errors.Is(err, apperrors.ErrOrganizationNotFound) {
		org = &models.Organization{
			ID:           uuid.New(),
			Name:         d.Business,
			Kind:         models.OrganizationCompany,
			ContactEmail: d.ContactEmail,
			Phone:        d.ContactPhone,
			City:         d.City,
		}
		if err := s.organizations.Create(ctx, org); err != nil {
			s.logger.Error().Err(err).Str("business", d.Business).Msg("Company organization creation failed")
			return
		}
	}

	if d.ContactEmail == "" {
		return
	}
	hash, err := auth.HashPassword(helpers.RandomPassword(16))
	if err != nil {
		s.logger.Error().Err(err).Msg("Company account password hashing failed")
		return
	}
	user := &models.User{
		ID:             uuid.New(),
		Email:          normalize.Lower(d.ContactEmail),
		Name:           d.ContactPerson,
		PasswordHash:   hash,
		Roles:          []string{models.RoleCompany},
		OrganizationID: org.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return
		}
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("Company account creation failed")
	}
}

// cascadeCompanyDelete removes the organization, users and contracts bound
// to a deleted company record. Each step logs and continues on failure so a
// half-removed company never blocks the record deletion that triggered it.
func (s *RecordService) cascadeCompanyDelete(ctx context.Context, rec *models.SchoolRecord) {
	d, ok := rec.Data.(*models.CompanyData)
	if !ok || d.Business == "" {
		return
	}
	org, err := s.organizations.FindByName(ctx, d.Business)
	if err != nil {
		if !errors.Is(err, apperrors.ErrOrganizationNotFound) {
			s.logger.Error().Err(err).Str("business", d.Business).Msg("Cascade lookup failed")
		}
		return
	}

	if n, err := s.users.DeleteByOrganization(ctx, org.ID); err != nil {
		s.logger.Error().Err(err).Str("organization_id", org.ID.String()).Msg("Cascade user deletion failed")
	} else if n > 0 {
		s.logger.Info().Int64("count", n).Str("organization_id", org.ID.String()).Msg("Cascade removed company users")
	}
	if n, err := s.contracts.DeleteByOrganization(ctx, org.ID); err != nil {
		s.logger.Error().Err(err).Str("organization_id", org.ID.String()).Msg("Cascade contract deletion failed")
	} else if n > 0 {
		s.logger.Info().Int64("count", n).Str("organization_id", org.ID.String()).Msg("Cascade removed company contracts")
	}
	if err := s.organizations.Delete(ctx, org.ID); err != nil {
		s.logger.Error().Err(err).Str("organization_id", org.ID.String()).Msg("Cascade organization deletion failed")
	}
}
