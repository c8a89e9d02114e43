package records

import (
	"errors"
	"testing"

	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
)

func confirmedStudent() *models.StudentData {
	return &models.StudentData{
		RosterData: models.RosterData{
			Name:      "Kim Lee",
			Email:     "kim@school.se",
			Programme: "Backend",
			Cohort:    "24/03/05",
		},
		Placement:                 "Acme AB",
		AssignedCompanyID:         "8c5e0a52-0acd-4c28-b69e-1f5a6e6a3a01",
		AssignmentStatus:          models.AssignmentConfirmed,
		AssignmentAssignedAt:      "2024-04-01T09:00:00Z",
		AssignedByUserID:          "d1b7c7ce-9d3e-41ff-8f0e-2a22f8f8b001",
		AssignedByUserName:        "Eva Svensson",
		CompanyNotified:           models.NotificationDelivered,
		CompanyNotificationAt:     "2024-04-01T09:00:05Z",
		CompanyNotificationMethod: "email+in-app",
		CompanyDecisionAt:         "2024-04-02T10:00:00Z",
		CompanyDecisionBy:         "aa17b3de-63b1-4ce9-9f71-6a7ccf00c001",
		CompanyDecisionByName:     "Acme HR",
		CompanyDecisionReason:     "",
		Verified:                  true,
		VerifiedAt:                "2024-04-02T10:00:00Z",
	}
}

func TestStudentPlacementChangePurgesAssignment(t *testing.T) {
	prev := confirmedStudent()
	out, err := Sanitize(models.RecordTypeStudent, map[string]string{"placement": "Globex"}, prev)
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}
	d := out.(*models.StudentData)
	if d.Placement != "Globex" {
		t.Fatalf("expected new placement, got %q", d.Placement)
	}
	if d.AssignmentStatus != "" || d.AssignedCompanyID != "" || d.CompanyDecisionAt != "" ||
		d.CompanyNotified != models.NotificationNotAttempted || d.Verified || d.VerifiedAt != "" ||
		d.CompanyNotificationMethod != "" || d.CompanyDecisionByName != "" {
		t.Fatalf("assignment block not purged: %+v", d)
	}
	if d.Name != "Kim Lee" || d.Email != "kim@school.se" {
		t.Fatalf("roster fields must survive a placement change: %+v", d)
	}
}

func TestStudentPlacementClearedPurgesAssignment(t *testing.T) {
	out, err := Sanitize(models.RecordTypeStudent, map[string]string{"placement": ""}, confirmedStudent())
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}
	d := out.(*models.StudentData)
	if d.Placement != "" || d.AssignmentStatus != "" || d.Verified {
		t.Fatalf("cleared placement must purge the block: %+v", d)
	}
}

func TestStudentPlacementUnchangedKeepsAssignment(t *testing.T) {
	// Same company, different case and whitespace: not a change.
	out, err := Sanitize(models.RecordTypeStudent, map[string]string{"placement": "  acme ab "}, confirmedStudent())
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}
	d := out.(*models.StudentData)
	if d.AssignmentStatus != models.AssignmentConfirmed {
		t.Fatalf("unchanged placement must keep the decision, got %q", d.AssignmentStatus)
	}
	if d.CompanyNotified != models.NotificationDelivered || !d.Verified {
		t.Fatalf("unchanged placement must keep notification and verification: %+v", d)
	}
}

func TestStudentAssignmentStatusOnlyAcceptsCanonicalValues(t *testing.T) {
	prev := confirmedStudent()
	out, _ := Sanitize(models.RecordTypeStudent, map[string]string{
		"placement":        "Acme AB",
		"assignmentStatus": "banana",
	}, prev)
	if got := out.(*models.StudentData).AssignmentStatus; got != models.AssignmentConfirmed {
		t.Fatalf("bogus status must fall back to previous, got %q", got)
	}

	out, _ = Sanitize(models.RecordTypeStudent, map[string]string{
		"placement":        "Acme AB",
		"assignmentStatus": "REJECTED",
	}, prev)
	if got := out.(*models.StudentData).AssignmentStatus; got != models.AssignmentRejected {
		t.Fatalf("canonical status must be lower-cased and accepted, got %q", got)
	}
}

func TestStudentFreshPlacementSeedsPendingAssignment(t *testing.T) {
	out, err := Sanitize(models.RecordTypeStudent, map[string]string{
		"name":              "Kim Lee",
		"placement":         "Globex",
		"assignedCompanyId": "0b6f3bb2-22a5-45cf-bd2f-07e2b43c9a10",
	}, nil)
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}
	d := out.(*models.StudentData)
	if d.AssignmentStatus != models.AssignmentPending {
		t.Fatalf("assigning a company must start the lifecycle at pending, got %q", d.AssignmentStatus)
	}
}

func TestStudentLegacyNotifiedBoolean(t *testing.T) {
	out, _ := Sanitize(models.RecordTypeStudent, map[string]string{
		"placement":       "Acme AB",
		"companyNotified": "true",
	}, confirmedStudent())
	if got := out.(*models.StudentData).CompanyNotified; got != models.NotificationDelivered {
		t.Fatalf("legacy true must map to delivered, got %q", got)
	}
}

func TestCohortAndSynonymsOnRoster(t *testing.T) {
	out, err := Sanitize(models.RecordTypeAllStudent, map[string]string{
		"name":    "Ada Lovelace",
		"email":   "ada@x.com",
		"date":    "2024-03-05",
		"program": "Backend",
		"note":    "transfer",
	}, nil)
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}
	d := out.(*models.AllStudentData)
	if d.Cohort != "24/03/05" {
		t.Fatalf("cohort not normalized, got %q", d.Cohort)
	}
	if d.Programme != "Backend" || d.Notes != "transfer" {
		t.Fatalf("legacy synonyms not honored: %+v", d)
	}
}

func TestMyStudentCarriesEducationManager(t *testing.T) {
	out, err := Sanitize(models.RecordTypeMyStudent, map[string]string{
		"name":               "Kim Lee",
		"educationManagerId": "f7e9a54c-2f4f-4a43-9f1a-0ddc04f3a001",
	}, nil)
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}
	if out.(*models.MyStudentData).EducationManagerID == "" {
		t.Fatal("education manager ownership lost")
	}
}

func TestLiahubCompanyRequiresProgram(t *testing.T) {
	_, err := Sanitize(models.RecordTypeLiahubCompany, map[string]string{
		"business": "Acme AB",
	}, nil)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}

	out, err := Sanitize(models.RecordTypeLiahubCompany, map[string]string{
		"business":      "Acme AB",
		"program":       "Backend",
		"takesStudents": "yes",
		"contractSent":  "nej",
	}, nil)
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}
	d := out.(*models.LiahubCompanyData)
	if d.TakesStudents != "JA" || d.ContractSent != "NEJ" {
		t.Fatalf("JA/NEJ flags not normalized: %+v", d)
	}
}

func TestLeaderShape(t *testing.T) {
	out, err := Sanitize(models.RecordTypeEducationManager, map[string]string{
		"name":      "Eva Svensson",
		"email":     "eva@school.se",
		"programme": "Backend",
		"title":     "Utbildningsledare",
	}, nil)
	if err != nil {
		t.Fatalf("sanitize failed: %v", err)
	}
	d := out.(*models.LeaderData)
	if d.DataType() != models.RecordTypeEducationManager {
		t.Fatalf("leader kind lost, got %q", d.DataType())
	}
	if d.Programme != "Backend" || d.Title != "Utbildningsledare" {
		t.Fatalf("leader fields dropped: %+v", d)
	}
}

func TestSanitizeRejectsUnknownType(t *testing.T) {
	if _, err := Sanitize(models.RecordType("martian"), map[string]string{}, nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation failure for unknown type, got %v", err)
	}
}
