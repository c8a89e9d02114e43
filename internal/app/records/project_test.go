package records

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/liahub/liahub-backend/internal/app/models"
)

func TestProjectStudentRowDerivesVerified(t *testing.T) {
	rec := &models.SchoolRecord{
		ID:        uuid.New(),
		Type:      models.RecordTypeStudent,
		Status:    "active",
		CreatedAt: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC),
		Data: &models.StudentData{
			RosterData:       models.RosterData{Name: "Kim Lee", Email: "kim@school.se"},
			Placement:        "Acme AB",
			AssignmentStatus: models.AssignmentConfirmed,
		},
	}

	row := ProjectRow(rec)
	if row["verified"] != "true" {
		t.Fatalf("confirmed assignment must project as verified, got %q", row["verified"])
	}
	if row["id"] == "" || row["status"] != "active" || row["createdAt"] == "" || row["updatedAt"] == "" {
		t.Fatalf("base columns missing: %v", row)
	}
	if row["placement"] != "Acme AB" || row["assignmentStatus"] != "confirmed" {
		t.Fatalf("placement columns missing: %v", row)
	}

	rec.Data.(*models.StudentData).AssignmentStatus = models.AssignmentPending
	if row := ProjectRow(rec); row["verified"] != "false" {
		t.Fatalf("pending unverified student must project false, got %q", row["verified"])
	}

	rec.Data.(*models.StudentData).Verified = true
	if row := ProjectRow(rec); row["verified"] != "true" {
		t.Fatal("stored verified flag must win regardless of status")
	}
}

func TestProjectCompanyRow(t *testing.T) {
	rec := &models.SchoolRecord{
		ID:     uuid.New(),
		Type:   models.RecordTypeLiahubCompany,
		Status: "active",
		Data: &models.LiahubCompanyData{
			Business:      "Acme AB",
			Program:       "Backend",
			TakesStudents: "JA",
		},
	}
	row := ProjectRow(rec)
	if row["business"] != "Acme AB" || row["program"] != "Backend" || row["takesStudents"] != "JA" {
		t.Fatalf("company columns missing: %v", row)
	}
}

func TestMapRowTranslatesLegacyHeaders(t *testing.T) {
	headers := []string{"Studerande Namn", "Studerande mejladress (skola)", "Date", "Program"}
	row := []string{"Kim Lee", "kim@school.se", "2024-03-05", "Backend"}

	mapped := MapRow(models.RecordTypeStudent, headers, row)
	if mapped["name"] != "Kim Lee" || mapped["email"] != "kim@school.se" {
		t.Fatalf("legacy Swedish headers not mapped: %v", mapped)
	}
	if mapped["cohort"] != "2024-03-05" || mapped["programme"] != "Backend" {
		t.Fatalf("cohort/programme headers not mapped: %v", mapped)
	}
}

func TestMapRowFirstHeaderWins(t *testing.T) {
	headers := []string{"E-post", "Email"}
	row := []string{"first@x.com", "second@x.com"}
	mapped := MapRow(models.RecordTypeStudent, headers, row)
	if mapped["email"] != "first@x.com" {
		t.Fatalf("duplicate header must not overwrite, got %q", mapped["email"])
	}
}

func TestNaturalKeys(t *testing.T) {
	withEmail := NaturalKeyFromFields(models.RecordTypeStudent, map[string]string{
		"email": " Ada@X.com ", "name": "Ada", "placement": "Acme",
	})
	if withEmail != "email:ada@x.com" {
		t.Fatalf("student key must use lowered email, got %q", withEmail)
	}

	withoutEmail := NaturalKeyFromFields(models.RecordTypeStudent, map[string]string{
		"name": "Ada", "placement": "Acme",
	})
	if withoutEmail != "name:ada|acme" {
		t.Fatalf("student fallback key wrong: %q", withoutEmail)
	}

	a := NaturalKeyFromFields(models.RecordTypeLiahubCompany, map[string]string{
		"business": "Acme", "orgNumber": "556677-8899", "contactEmail": "hr@acme.se",
	})
	b := NaturalKeyFromFields(models.RecordTypeLiahubCompany, map[string]string{
		"business": "Acme", "orgNumber": "111111-2222", "contactEmail": "hr@acme.se",
	})
	if a == b {
		t.Fatal("companies with different org numbers must not collide")
	}

	stored := NaturalKey(&models.StudentData{RosterData: models.RosterData{Name: "Ada", Email: "ada@x.com"}})
	if stored != withEmail {
		t.Fatalf("stored and row keys must agree, %q vs %q", stored, withEmail)
	}
}
