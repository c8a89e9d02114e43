package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/liahub/liahub-backend/internal/app/auth"
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
)

func pendingStudent(schoolID, companyID uuid.UUID) *models.SchoolRecord {
	return &models.SchoolRecord{
		ID:             uuid.New(),
		OrganizationID: schoolID,
		Type:           models.RecordTypeStudent,
		Status:         "active",
		Data: &models.StudentData{
			RosterData: models.RosterData{
				Name:      "Maja Andersson",
				Email:     "maja@school.se",
				Programme: "Systemutveckling",
			},
			Placement:         "Nordic Soft AB",
			AssignedCompanyID: companyID.String(),
			AssignmentStatus:  models.AssignmentPending,
		},
	}
}

func companyActor(companyID uuid.UUID) Actor {
	return Actor{
		UserID:         uuid.New(),
		Name:           "Erik Lund",
		Roles:          []string{models.RoleCompany},
		OrganizationID: companyID,
	}
}

func newAssignmentService(store *fakeRecordStore, notifier *fakeSchoolNotifier) *AssignmentService {
	return NewAssignmentService(store, auth.NewAuthorizationService(), notifier, testLogger)
}

func TestConfirmPendingAssignment(t *testing.T) {
	schoolID, companyID := uuid.New(), uuid.New()
	rec := pendingStudent(schoolID, companyID)
	store := newFakeRecordStore(rec)
	notifier := &fakeSchoolNotifier{}
	svc := newAssignmentService(store, notifier)

	resp, err := svc.Confirm(context.Background(), companyActor(companyID), rec.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if resp.Status != models.AssignmentConfirmed {
		t.Errorf("status = %q, want confirmed", resp.Status)
	}
	if !resp.Verified {
		t.Error("confirmed assignment should be verified")
	}
	if resp.AlreadyConfirmed {
		t.Error("first confirm should not report AlreadyConfirmed")
	}
	d := store.records[rec.ID].Data.(*models.StudentData)
	if d.CompanyDecisionAt == "" || d.CompanyDecisionByName != "Erik Lund" {
		t.Errorf("decision audit fields not stamped: %+v", d)
	}
	if d.VerifiedAt == "" {
		t.Error("verifiedAt not stamped")
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != models.AssignmentConfirmed {
		t.Errorf("school notifier calls = %v, want one confirmed", notifier.calls)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	schoolID, companyID := uuid.New(), uuid.New()
	rec := pendingStudent(schoolID, companyID)
	svc := newAssignmentService(newFakeRecordStore(rec), &fakeSchoolNotifier{})

	_, err := svc.Reject(context.Background(), companyActor(companyID), rec.ID, "   ")
	if !errors.Is(err, apperrors.ErrDecisionReasonRequired) {
		t.Fatalf("err = %v, want ErrDecisionReasonRequired", err)
	}
}

func TestRejectPendingAssignment(t *testing.T) {
	schoolID, companyID := uuid.New(), uuid.New()
	rec := pendingStudent(schoolID, companyID)
	store := newFakeRecordStore(rec)
	svc := newAssignmentService(store, &fakeSchoolNotifier{})

	resp, err := svc.Reject(context.Background(), companyActor(companyID), rec.ID, "Capacity full")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if resp.Status != models.AssignmentRejected {
		t.Errorf("status = %q, want rejected", resp.Status)
	}
	if resp.Verified {
		t.Error("rejected assignment must not be verified")
	}
	if resp.DecisionReason != "Capacity full" {
		t.Errorf("reason = %q", resp.DecisionReason)
	}
}

func TestConfirmAfterRejectConflicts(t *testing.T) {
	schoolID, companyID := uuid.New(), uuid.New()
	rec := pendingStudent(schoolID, companyID)
	svc := newAssignmentService(newFakeRecordStore(rec), &fakeSchoolNotifier{})
	actor := companyActor(companyID)

	if _, err := svc.Reject(context.Background(), actor, rec.ID, "No supervisor available"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	_, err := svc.Confirm(context.Background(), actor, rec.ID)
	if !errors.Is(err, apperrors.ErrAssignmentAlreadySet) {
		t.Fatalf("err = %v, want ErrAssignmentAlreadySet", err)
	}
}

func TestRejectAfterConfirmConflicts(t *testing.T) {
	schoolID, companyID := uuid.New(), uuid.New()
	rec := pendingStudent(schoolID, companyID)
	svc := newAssignmentService(newFakeRecordStore(rec), &fakeSchoolNotifier{})
	actor := companyActor(companyID)

	if _, err := svc.Confirm(context.Background(), actor, rec.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	_, err := svc.Reject(context.Background(), actor, rec.ID, "Changed our mind")
	if !errors.Is(err, apperrors.ErrAssignmentAlreadySet) {
		t.Fatalf("err = %v, want ErrAssignmentAlreadySet", err)
	}
}

func TestConfirmIsIdempotent(t *testing.T) {
	schoolID, companyID := uuid.New(), uuid.New()
	rec := pendingStudent(schoolID, companyID)
	store := newFakeRecordStore(rec)
	notifier := &fakeSchoolNotifier{}
	svc := newAssignmentService(store, notifier)
	actor := companyActor(companyID)

	first, err := svc.Confirm(context.Background(), actor, rec.ID)
	if err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	second, err := svc.Confirm(context.Background(), actor, rec.ID)
	if err != nil {
		t.Fatalf("second Confirm: %v", err)
	}
	if !second.AlreadyConfirmed {
		t.Error("replayed confirm should report AlreadyConfirmed")
	}
	if second.DecisionAt != first.DecisionAt {
		t.Errorf("replay rewrote decision timestamp: %q != %q", second.DecisionAt, first.DecisionAt)
	}
	if len(notifier.calls) != 1 {
		t.Errorf("school notified %d times, want 1", len(notifier.calls))
	}
}

func TestDecideByWrongCompany(t *testing.T) {
	schoolID, companyID := uuid.New(), uuid.New()
	rec := pendingStudent(schoolID, companyID)
	svc := newAssignmentService(newFakeRecordStore(rec), &fakeSchoolNotifier{})

	_, err := svc.Confirm(context.Background(), companyActor(uuid.New()), rec.ID)
	if !errors.Is(err, apperrors.ErrAssignmentNotOwned) {
		t.Fatalf("err = %v, want ErrAssignmentNotOwned", err)
	}
}

func TestDecideWithoutAssignment(t *testing.T) {
	schoolID := uuid.New()
	rec := &models.SchoolRecord{
		ID:             uuid.New(),
		OrganizationID: schoolID,
		Type:           models.RecordTypeStudent,
		Status:         "active",
		Data: &models.StudentData{
			RosterData: models.RosterData{Name: "Unplaced Student", Email: "u@school.se"},
		},
	}
	svc := newAssignmentService(newFakeRecordStore(rec), &fakeSchoolNotifier{})

	_, err := svc.Confirm(context.Background(), companyActor(uuid.New()), rec.ID)
	if !errors.Is(err, apperrors.ErrAssignmentNotFound) {
		t.Fatalf("err = %v, want ErrAssignmentNotFound", err)
	}
}

func TestDecideRequiresCompanyRole(t *testing.T) {
	schoolID, companyID := uuid.New(), uuid.New()
	rec := pendingStudent(schoolID, companyID)
	svc := newAssignmentService(newFakeRecordStore(rec), &fakeSchoolNotifier{})

	actor := Actor{UserID: uuid.New(), Roles: []string{models.RoleAdmin}, OrganizationID: companyID}
	_, err := svc.Confirm(context.Background(), actor, rec.ID)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestDecideMissingRecord(t *testing.T) {
	svc := newAssignmentService(newFakeRecordStore(), &fakeSchoolNotifier{})

	_, err := svc.Confirm(context.Background(), companyActor(uuid.New()), uuid.New())
	if !errors.Is(err, apperrors.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}
