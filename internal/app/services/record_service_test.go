package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/liahub/liahub-backend/internal/app/auth"
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
)

type recordServiceEnv struct {
	svc      *RecordService
	records  *fakeRecordStore
	orgs     *fakeOrganizationStore
	users    *fakeUserStore
	contracts *fakeContractStore
	notifier *fakeCompanyNotifier
}

func newRecordServiceEnv() *recordServiceEnv {
	env := &recordServiceEnv{
		records:   newFakeRecordStore(),
		orgs:      newFakeOrganizationStore(),
		users:     &fakeUserStore{orgNames: map[uuid.UUID]string{}},
		contracts: &fakeContractStore{},
		notifier:  &fakeCompanyNotifier{},
	}
	env.svc = NewRecordService(
		env.records, env.orgs, env.users, env.contracts,
		auth.NewAuthorizationService(), env.notifier, testLogger,
	)
	return env
}

func TestCreateStudentTriggersCompanyNotification(t *testing.T) {
	env := newRecordServiceEnv()
	actor := adminActor(uuid.New())

	rec, err := env.svc.CreateRecord(context.Background(), actor, dto.CreateRecordRequest{
		Type: models.RecordTypeStudent,
		Data: map[string]string{
			"name":      "Maja Andersson",
			"email":     "maja@school.se",
			"placement": "Nordic Soft AB",
		},
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.Status != "active" {
		t.Errorf("status = %q, want the default", rec.Status)
	}
	if len(env.notifier.calls) != 1 {
		t.Fatalf("notifier calls = %d, want 1", len(env.notifier.calls))
	}
}

func TestCreateStudentWithoutPlacementDoesNotNotify(t *testing.T) {
	env := newRecordServiceEnv()

	_, err := env.svc.CreateRecord(context.Background(), adminActor(uuid.New()), dto.CreateRecordRequest{
		Type: models.RecordTypeStudent,
		Data: map[string]string{"name": "Sara Ek", "email": "sara@school.se"},
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if len(env.notifier.calls) != 0 {
		t.Errorf("notifier calls = %d, want 0", len(env.notifier.calls))
	}
}

func TestCreateRecordRejectsUnknownType(t *testing.T) {
	env := newRecordServiceEnv()

	_, err := env.svc.CreateRecord(context.Background(), adminActor(uuid.New()), dto.CreateRecordRequest{
		Type: "alumni",
		Data: map[string]string{"name": "X"},
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}

func TestCreateCompanyRecordProvisionsOrganizationAndAccount(t *testing.T) {
	env := newRecordServiceEnv()

	_, err := env.svc.CreateRecord(context.Background(), adminActor(uuid.New()), dto.CreateRecordRequest{
		Type: models.RecordTypeCompany,
		Data: map[string]string{
			"business":      "Nordic Soft AB",
			"contactPerson": "Erik Lund",
			"contactEmail":  "erik@nordicsoft.se",
		},
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	org, err := env.orgs.FindByName(context.Background(), "Nordic Soft AB")
	if err != nil {
		t.Fatalf("company organization not provisioned: %v", err)
	}
	if org.Kind != models.OrganizationCompany {
		t.Errorf("kind = %q", org.Kind)
	}
	if len(env.users.users) != 1 {
		t.Fatalf("users = %d, want 1 company account", len(env.users.users))
	}
	u := env.users.users[0]
	if u.Email != "erik@nordicsoft.se" || !u.HasRole(models.RoleCompany) {
		t.Errorf("provisioned account = %+v", u)
	}
	if u.OrganizationID != org.ID {
		t.Error("account not bound to the company organization")
	}
	if u.PasswordHash == "" {
		t.Error("account has no password hash")
	}
}

func TestCompanyWriteIsAdminOnly(t *testing.T) {
	env := newRecordServiceEnv()
	actor := Actor{
		UserID:         uuid.New(),
		Roles:          []string{models.RoleEducationManager},
		OrganizationID: uuid.New(),
	}

	_, err := env.svc.CreateRecord(context.Background(), actor, dto.CreateRecordRequest{
		Type: models.RecordTypeCompany,
		Data: map[string]string{"business": "Nordic Soft AB"},
	})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestUpdateChangingPlacementPurgesAssignment(t *testing.T) {
	env := newRecordServiceEnv()
	actor := adminActor(uuid.New())
	companyID := uuid.New()

	rec := pendingStudent(actor.OrganizationID, companyID)
	d := rec.Data.(*models.StudentData)
	d.AssignmentStatus = models.AssignmentConfirmed
	d.Verified = true
	if err := env.records.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := env.svc.UpdateRecord(context.Background(), actor, rec.ID, dto.UpdateRecordRequest{
		Data: map[string]string{"placement": "Other Firm AB"},
	})
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	ud := updated.Data.(*models.StudentData)
	if ud.AssignmentStatus != "" || ud.AssignedCompanyID != "" || ud.Verified {
		t.Errorf("assignment block not purged: %+v", ud)
	}
	if ud.Name != "Maja Andersson" {
		t.Errorf("roster fields lost on update: %+v", ud)
	}
	// New placement with no delivered notification triggers the dispatcher.
	if len(env.notifier.calls) != 1 {
		t.Errorf("notifier calls = %d, want 1", len(env.notifier.calls))
	}
}

func TestUpdateOutsideOrganizationIsHidden(t *testing.T) {
	env := newRecordServiceEnv()
	owner := adminActor(uuid.New())
	rec := pendingStudent(owner.OrganizationID, uuid.New())
	if err := env.records.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	stranger := adminActor(uuid.New())
	_, err := env.svc.UpdateRecord(context.Background(), stranger, rec.ID, dto.UpdateRecordRequest{
		Data: map[string]string{"name": "X"},
	})
	if !errors.Is(err, apperrors.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestDeleteCompanyRecordCascades(t *testing.T) {
	env := newRecordServiceEnv()
	actor := adminActor(uuid.New())

	org := &models.Organization{ID: uuid.New(), Name: "Nordic Soft AB", Kind: models.OrganizationCompany}
	if err := env.orgs.Create(context.Background(), org); err != nil {
		t.Fatalf("seed org: %v", err)
	}
	env.users.users = append(env.users.users, &models.User{
		ID: uuid.New(), Email: "erik@nordicsoft.se", Roles: []string{models.RoleCompany}, OrganizationID: org.ID,
	})

	rec := &models.SchoolRecord{
		ID:             uuid.New(),
		OrganizationID: actor.OrganizationID,
		Type:           models.RecordTypeCompany,
		Status:         "active",
		Data:           &models.CompanyData{Business: "Nordic Soft AB", Kind: models.RecordTypeCompany},
	}
	if err := env.records.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	if err := env.svc.DeleteRecord(context.Background(), actor, rec.ID); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if _, ok := env.records.records[rec.ID]; ok {
		t.Error("record still stored")
	}
	if len(env.users.deleted) != 1 {
		t.Errorf("cascade deleted %d users, want 1", len(env.users.deleted))
	}
	if len(env.contracts.deleted) != 1 {
		t.Errorf("cascade deleted contracts for %d organizations, want 1", len(env.contracts.deleted))
	}
	if _, err := env.orgs.FindByName(context.Background(), "Nordic Soft AB"); !errors.Is(err, apperrors.ErrOrganizationNotFound) {
		t.Error("company organization still stored")
	}
}

func TestDeleteCascadeSurvivesUserDeletionFailure(t *testing.T) {
	env := newRecordServiceEnv()
	actor := adminActor(uuid.New())

	org := &models.Organization{ID: uuid.New(), Name: "Nordic Soft AB", Kind: models.OrganizationCompany}
	if err := env.orgs.Create(context.Background(), org); err != nil {
		t.Fatalf("seed org: %v", err)
	}
	env.users.deleteErr = errors.New("users table locked")

	rec := &models.SchoolRecord{
		ID:             uuid.New(),
		OrganizationID: actor.OrganizationID,
		Type:           models.RecordTypeCompany,
		Status:         "active",
		Data:           &models.CompanyData{Business: "Nordic Soft AB", Kind: models.RecordTypeCompany},
	}
	if err := env.records.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	if err := env.svc.DeleteRecord(context.Background(), actor, rec.ID); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	// The organization deletion still proceeds past the failing user step.
	if _, err := env.orgs.FindByName(context.Background(), "Nordic Soft AB"); !errors.Is(err, apperrors.ErrOrganizationNotFound) {
		t.Error("organization deletion did not proceed after user deletion failure")
	}
}

func TestDeleteStudentDoesNotCascade(t *testing.T) {
	env := newRecordServiceEnv()
	actor := adminActor(uuid.New())
	rec := pendingStudent(actor.OrganizationID, uuid.New())
	if err := env.records.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := env.svc.DeleteRecord(context.Background(), actor, rec.ID); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if len(env.contracts.deleted) != 0 || len(env.users.deleted) != 0 {
		t.Error("student deletion must not cascade")
	}
}

func TestListRecordsFiltersByType(t *testing.T) {
	env := newRecordServiceEnv()
	actor := adminActor(uuid.New())
	student := pendingStudent(actor.OrganizationID, uuid.New())
	company := &models.SchoolRecord{
		ID:             uuid.New(),
		OrganizationID: actor.OrganizationID,
		Type:           models.RecordTypeCompany,
		Status:         "active",
		Data:           &models.CompanyData{Business: "Nordic Soft AB", Kind: models.RecordTypeCompany},
	}
	for _, rec := range []*models.SchoolRecord{student, company} {
		if err := env.records.Create(context.Background(), rec); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	recs, err := env.svc.ListRecords(context.Background(), actor, models.RecordTypeStudent)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != student.ID {
		t.Errorf("filtered list = %d records", len(recs))
	}

	all, err := env.svc.ListRecords(context.Background(), actor, "")
	if err != nil {
		t.Fatalf("ListRecords all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unfiltered list = %d records, want 2", len(all))
	}
}
