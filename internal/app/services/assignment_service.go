package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appauth "github.com/liahub/liahub-backend/internal/app/auth"
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
	"github.com/liahub/liahub-backend/internal/pkg/helpers"
	"github.com/liahub/liahub-backend/internal/pkg/normalize"
)

// AssignmentService is the pending -> confirmed | rejected state machine.
// Transitions go through a single conditional update in the store, so two
// racing decisions can never both win: the loser sees zero rows touched and
// is classified against the state the winner left behind.
type AssignmentService struct {
	records  RecordStore
	authz    *appauth.AuthorizationService
	notifier SchoolNotifier
	logger   zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	recordStore RecordStore,
	authz *appauth.AuthorizationService,
	notifier SchoolNotifier,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		records:  recordStore,
		authz:    authz,
		notifier: notifier,
		logger:   logger.With().Str("service", "assignment").Logger(),
	}
}

// Confirm transitions a pending assignment to confirmed and stamps the
// decision audit fields plus the derived verification. Re-confirming an
// assignment the same company already confirmed is a no-op success.
func (s *AssignmentService) Confirm(ctx context.Context, actor Actor, recordID uuid.UUID) (*dto.AssignmentResponse, error) {
	return s.decide(ctx, actor, recordID, models.AssignmentConfirmed, "")
}

// Reject transitions a pending assignment to rejected. A non-empty reason
// is mandatory.
func (s *AssignmentService) Reject(ctx context.Context, actor Actor, recordID uuid.UUID, reason string) (*dto.AssignmentResponse, error) {
	reason = normalize.Trim(reason)
	if reason == "" {
		return nil, apperrors.ErrDecisionReasonRequired
	}
	return s.decide(ctx, actor, recordID, models.AssignmentRejected, reason)
}

func (s *AssignmentService) decide(ctx context.Context, actor Actor, recordID uuid.UUID, status models.AssignmentStatus, reason string) (*dto.AssignmentResponse, error) {
	if !s.authz.CanDecideAssignment(actor.Roles) {
		return nil, apperrors.NewForbiddenError("only company accounts can decide assignments")
	}

	now := helpers.NowRFC3339()
	patch := map[string]any{
		"assignmentStatus":      string(status),
		"companyDecisionAt":     now,
		"companyDecisionBy":     actor.UserID.String(),
		"companyDecisionByName": actor.Name,
		"companyDecisionReason": reason,
	}
	if status == models.AssignmentConfirmed {
		patch["verified"] = true
		patch["verifiedAt"] = now
	} else {
		patch["verified"] = false
		patch["verifiedAt"] = ""
	}

	applied, err := s.records.ApplyAssignmentDecision(ctx, recordID, actor.OrganizationID, patch)
	if err != nil {
		return nil, err
	}
	if !applied {
		return s.classifyMiss(ctx, actor, recordID, status)
	}

	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("record_id", recordID.String()).
		Str("status", string(status)).
		Str("company_id", actor.OrganizationID.String()).
		Msg("Assignment decided")

	if s.notifier != nil {
		s.notifier.NotifySchoolDecision(ctx, rec, status, reason)
	}
	return assignmentResponse(rec, false), nil
}

// classifyMiss explains a conditional update that touched no row: the
// record is gone, the assignment belongs to another company, the decision
// already happened, or the same confirm is being replayed.
func (s *AssignmentService) classifyMiss(ctx context.Context, actor Actor, recordID uuid.UUID, wanted models.AssignmentStatus) (*dto.AssignmentResponse, error) {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	d, ok := rec.Data.(*models.StudentData)
	if !ok || d.AssignedCompanyID == "" {
		return nil, apperrors.ErrAssignmentNotFound
	}
	if !normalize.SameFold(d.AssignedCompanyID, actor.OrganizationID.String()) {
		return nil, apperrors.ErrAssignmentNotOwned
	}
	if d.AssignmentStatus == wanted {
		// Replaying the decision already taken. Confirm is explicitly
		// idempotent; a repeated reject answers the same way without
		// rewriting the stored reason.
		return assignmentResponse(rec, wanted == models.AssignmentConfirmed), nil
	}
	return nil, apperrors.ErrAssignmentAlreadySet
}

func assignmentResponse(rec *models.SchoolRecord, alreadyConfirmed bool) *dto.AssignmentResponse {
	d := rec.Data.(*models.StudentData)
	return &dto.AssignmentResponse{
		RecordID:         rec.ID.String(),
		Placement:        d.Placement,
		Status:           d.AssignmentStatus,
		DecisionAt:       d.CompanyDecisionAt,
		DecisionByName:   d.CompanyDecisionByName,
		DecisionReason:   d.CompanyDecisionReason,
		Verified:         d.Verified,
		AlreadyConfirmed: alreadyConfirmed,
	}
}
