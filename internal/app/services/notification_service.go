package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
	"github.com/liahub/liahub-backend/internal/pkg/email"
	"github.com/liahub/liahub-backend/internal/pkg/helpers"
	"github.com/liahub/liahub-backend/internal/pkg/validation"
)

// Delivery channel labels stamped into companyNotificationMethod.
const (
	methodEmail = "email"
	methodInApp = "in-app"
	methodBoth  = "email+in-app"
)

// NotificationService fans student/assignment events out to email and
// in-app notifications. Every send is best-effort: per-recipient failures
// are logged, the overall outcome is recorded on the student record, and
// nothing here ever fails the record write that triggered it.
type NotificationService struct {
	records       RecordStore
	organizations OrganizationStore
	users         UserStore
	notifications NotificationStore
	email         email.EmailService
	logger        zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	recordStore RecordStore,
	organizationStore OrganizationStore,
	userStore UserStore,
	notificationStore NotificationStore,
	emailService email.EmailService,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		records:       recordStore,
		organizations: organizationStore,
		users:         userStore,
		notifications: notificationStore,
		email:         emailService,
		logger:        logger.With().Str("service", "notification").Logger(),
	}
}

// NotifyCompanyAssigned tells the placement company about a newly assigned
// student. Recipients are the company's login accounts, falling back to the
// organization contact address when no accounts exist. The tri-state
// outcome is merged onto the record so retries skip records already
// delivered.
func (s *NotificationService) NotifyCompanyAssigned(ctx context.Context, rec *models.SchoolRecord) models.NotificationState {
	d, ok := rec.Data.(*models.StudentData)
	if !ok {
		return models.NotificationNotAttempted
	}
	if d.Placement == "" || d.CompanyNotified == models.NotificationDelivered {
		return d.CompanyNotified
	}

	recipients, err := s.users.ListCompanyUsersByOrganizationName(ctx, d.Placement)
	if err != nil {
		s.logger.Error().Err(err).Str("placement", d.Placement).Msg("Company recipient lookup failed")
	}

	emailed := 0
	for _, u := range recipients {
		if err := s.email.SendPlacementEmail(u.Email, d.Placement, d.Name, d.Programme); err != nil {
			s.logger.Warn().Err(err).Str("email", u.Email).Msg("Placement email failed")
			continue
		}
		emailed++
	}
	if len(recipients) == 0 {
		// No login accounts yet: fall back to the contact address on the
		// company organization, if one exists.
		if org, orgErr := s.organizations.FindByName(ctx, d.Placement); orgErr == nil && validation.IsEmail(org.ContactEmail) {
			if err := s.email.SendPlacementEmail(org.ContactEmail, d.Placement, d.Name, d.Programme); err != nil {
				s.logger.Warn().Err(err).Str("email", org.ContactEmail).Msg("Placement email failed")
			} else {
				emailed++
			}
		} else if orgErr != nil && !errors.Is(orgErr, apperrors.ErrOrganizationNotFound) {
			s.logger.Error().Err(orgErr).Str("placement", d.Placement).Msg("Placement organization lookup failed")
		}
	}

	inApp := 0
	for _, u := range recipients {
		n := &models.Notification{
			ID:       uuid.New(),
			UserID:   u.ID,
			RecordID: rec.ID,
			Kind:     models.NotificationKindAssignment,
			Title:    "New student assignment",
			Body:     fmt.Sprintf("%s has been assigned to %s for placement.", d.Name, d.Placement),
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.logger.Warn().Err(err).Str("user_id", u.ID.String()).Msg("In-app notification insert failed")
			continue
		}
		inApp++
	}

	state := models.NotificationFailed
	method := ""
	switch {
	case emailed > 0 && inApp > 0:
		state, method = models.NotificationDelivered, methodBoth
	case emailed > 0:
		state, method = models.NotificationDelivered, methodEmail
	case inApp > 0:
		state, method = models.NotificationDelivered, methodInApp
	}

	patch := map[string]any{
		"companyNotified":       string(state),
		"companyNotificationAt": helpers.NowRFC3339(),
	}
	if method != "" {
		patch["companyNotificationMethod"] = method
	}
	if err := s.records.SetNotificationState(ctx, rec.ID, patch); err != nil {
		s.logger.Error().Err(err).Str("record_id", rec.ID.String()).Msg("Notification state update failed")
	} else {
		d.CompanyNotified = state
		d.CompanyNotificationMethod = method
	}
	return state
}

// NotifySchoolDecision tells the school's admins and education managers
// about a company's confirm or reject decision. Failures are logged per
// recipient; no state is recorded beyond the decision fields already on
// the record.
func (s *NotificationService) NotifySchoolDecision(ctx context.Context, rec *models.SchoolRecord, status models.AssignmentStatus, reason string) {
	d, ok := rec.Data.(*models.StudentData)
	if !ok {
		return
	}

	staff, err := s.users.ListByOrganizationWithRoles(ctx, rec.OrganizationID, models.SchoolDecisionRoles)
	if err != nil {
		s.logger.Error().Err(err).Str("organization_id", rec.OrganizationID.String()).Msg("School recipient lookup failed")
		return
	}

	title := fmt.Sprintf("Placement %s", status)
	body := fmt.Sprintf("%s %s the placement of %s.", d.Placement, status, d.Name)
	if reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, reason)
	}

	for _, u := range staff {
		if err := s.email.SendDecisionEmail(u.Email, d.Name, string(status), reason); err != nil {
			s.logger.Warn().Err(err).Str("email", u.Email).Msg("Decision email failed")
		}
		n := &models.Notification{
			ID:       uuid.New(),
			UserID:   u.ID,
			RecordID: rec.ID,
			Kind:     models.NotificationKindDecision,
			Title:    title,
			Body:     body,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.logger.Warn().Err(err).Str("user_id", u.ID.String()).Msg("In-app notification insert failed")
		}
	}
}

// ListForUser returns the caller's in-app notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, actor Actor) ([]*models.Notification, error) {
	return s.notifications.ListByUser(ctx, actor.UserID)
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, id, actor.UserID)
}

// RetryFailedCompanyNotifications re-runs the assign-side dispatch for
// student records whose last attempt failed. The sweep job calls this on a
// timer.
func (s *NotificationService) RetryFailedCompanyNotifications(ctx context.Context) (int, error) {
	recs, err := s.records.ListFailedCompanyNotifications(ctx)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for _, rec := range recs {
		if s.NotifyCompanyAssigned(ctx, rec) == models.NotificationDelivered {
			delivered++
		}
	}
	return delivered, nil
}
