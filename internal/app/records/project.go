package records

import (
	"time"

	"github.com/liahub/liahub-backend/internal/app/models"
)

// ProjectRow flattens a stored record into the row shape consumed by the
// dashboard tables. Student verification is derived, not stored: a row is
// verified when the flag is set or the assignment is confirmed.
func ProjectRow(rec *models.SchoolRecord) map[string]string {
	row := map[string]string{
		"id":        rec.ID.String(),
		"type":      string(rec.Type),
		"status":    rec.Status,
		"createdAt": rec.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt": rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
	switch d := rec.Data.(type) {
	case *models.StudentData:
		projectRoster(row, d.RosterData)
		row["placement"] = d.Placement
		setIf(row, "assignedCompanyId", d.AssignedCompanyID)
		setIf(row, "assignmentStatus", string(d.AssignmentStatus))
		setIf(row, "assignmentAssignedAt", d.AssignmentAssignedAt)
		setIf(row, "assignedByUserId", d.AssignedByUserID)
		setIf(row, "assignedByUserName", d.AssignedByUserName)
		setIf(row, "companyNotified", string(d.CompanyNotified))
		setIf(row, "companyNotificationAt", d.CompanyNotificationAt)
		setIf(row, "companyNotificationMethod", d.CompanyNotificationMethod)
		setIf(row, "companyDecisionAt", d.CompanyDecisionAt)
		setIf(row, "companyDecisionBy", d.CompanyDecisionBy)
		setIf(row, "companyDecisionByName", d.CompanyDecisionByName)
		setIf(row, "companyDecisionReason", d.CompanyDecisionReason)
		row["verified"] = boolString(d.Verified || d.AssignmentStatus == models.AssignmentConfirmed)
		setIf(row, "verifiedAt", d.VerifiedAt)
	case *models.AllStudentData:
		projectRoster(row, d.RosterData)
	case *models.MyStudentData:
		projectRoster(row, d.RosterData)
		setIf(row, "educationManagerId", d.EducationManagerID)
	case *models.LeaderData:
		row["name"] = d.Name
		row["email"] = d.Email
		setIf(row, "phone", d.Phone)
		setIf(row, "title", d.Title)
		setIf(row, "programme", d.Programme)
		setIf(row, "notes", d.Notes)
	case *models.CompanyData:
		row["business"] = d.Business
		setIf(row, "orgNumber", d.OrgNumber)
		setIf(row, "contactPerson", d.ContactPerson)
		setIf(row, "contactEmail", d.ContactEmail)
		setIf(row, "contactPhone", d.ContactPhone)
		setIf(row, "city", d.City)
		setIf(row, "website", d.Website)
		setIf(row, "notes", d.Notes)
	case *models.LiahubCompanyData:
		row["business"] = d.Business
		row["program"] = d.Program
		setIf(row, "orgNumber", d.OrgNumber)
		setIf(row, "contactPerson", d.ContactPerson)
		setIf(row, "contactEmail", d.ContactEmail)
		setIf(row, "contactPhone", d.ContactPhone)
		setIf(row, "city", d.City)
		setIf(row, "website", d.Website)
		setIf(row, "nextStep", d.NextStep)
		setIf(row, "nextContactDate", d.NextContactDate)
		setIf(row, "takesStudents", d.TakesStudents)
		setIf(row, "contractSent", d.ContractSent)
		setIf(row, "notes", d.Notes)
	}
	return row
}

func projectRoster(row map[string]string, d models.RosterData) {
	row["name"] = d.Name
	row["email"] = d.Email
	setIf(row, "phone", d.Phone)
	setIf(row, "programme", d.Programme)
	setIf(row, "cohort", d.Cohort)
	setIf(row, "city", d.City)
	setIf(row, "notes", d.Notes)
}

func setIf(row map[string]string, key, value string) {
	if value != "" {
		row[key] = value
	}
}
