// Package records holds the pure domain logic for school records: the
// per-type sanitizing constructors, the dashboard row projector, the
// spreadsheet column dictionaries and the duplicate-detection keys. Nothing
// in this package touches the database.
package records

import (
	"fmt"
	"strconv"

	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
	"github.com/liahub/liahub-backend/internal/pkg/normalize"
)

// field resolves a canonical field from the incoming map, falling back to
// the previous value when none of the key spellings is present. A present
// key with an empty value is an explicit clear.
func field(in map[string]string, prev string, keys ...string) string {
	for _, k := range keys {
		if v, ok := in[k]; ok {
			return normalize.Trim(v)
		}
	}
	return prev
}

func present(in map[string]string, key string) (string, bool) {
	v, ok := in[key]
	return normalize.Trim(v), ok
}

// Sanitize builds the canonical typed payload for a record of the given
// type from loosely-typed incoming fields, merging over the existing payload
// on update. It is the only code path permitted to construct record data.
func Sanitize(t models.RecordType, incoming map[string]string, existing models.RecordData) (models.RecordData, error) {
	switch t {
	case models.RecordTypeStudent:
		prev, _ := existing.(*models.StudentData)
		return sanitizeStudent(incoming, prev)
	case models.RecordTypeAllStudent:
		prev, _ := existing.(*models.AllStudentData)
		if prev == nil {
			prev = &models.AllStudentData{}
		}
		return &models.AllStudentData{RosterData: sanitizeRoster(incoming, prev.RosterData)}, nil
	case models.RecordTypeMyStudent:
		prev, _ := existing.(*models.MyStudentData)
		if prev == nil {
			prev = &models.MyStudentData{}
		}
		return &models.MyStudentData{
			RosterData:         sanitizeRoster(incoming, prev.RosterData),
			EducationManagerID: field(incoming, prev.EducationManagerID, "educationManagerId"),
		}, nil
	case models.RecordTypeTeacher, models.RecordTypeEducationManager, models.RecordTypeAdmin:
		prev, _ := existing.(*models.LeaderData)
		return sanitizeLeader(t, incoming, prev), nil
	case models.RecordTypeCompany, models.RecordTypeLeadCompany:
		prev, _ := existing.(*models.CompanyData)
		return sanitizeCompany(t, incoming, prev), nil
	case models.RecordTypeLiahubCompany:
		prev, _ := existing.(*models.LiahubCompanyData)
		return sanitizeLiahubCompany(incoming, prev)
	}
	return nil, fmt.Errorf("%w: unknown record type %q", apperrors.ErrValidationFailed, t)
}

func sanitizeRoster(in map[string]string, prev models.RosterData) models.RosterData {
	return models.RosterData{
		Name:      field(in, prev.Name, "name"),
		Email:     field(in, prev.Email, "email"),
		Phone:     field(in, prev.Phone, "phone"),
		Programme: field(in, prev.Programme, "programme", "program"),
		Cohort:    normalize.CohortDate(field(in, prev.Cohort, "cohort", "date")),
		City:      field(in, prev.City, "city"),
		Notes:     field(in, prev.Notes, "notes", "note"),
	}
}

// sanitizeStudent enforces the placement invariant: an empty or changed
// placement purges the entire assignment, notification and decision block.
// An unchanged placement preserves the block unless a field is explicitly
// overridden.
func sanitizeStudent(in map[string]string, prev *models.StudentData) (*models.StudentData, error) {
	if prev == nil {
		prev = &models.StudentData{}
	}
	d := &models.StudentData{RosterData: sanitizeRoster(in, prev.RosterData)}
	d.Placement = field(in, prev.Placement, "placement")

	placementKept := d.Placement != "" && normalize.SameFold(d.Placement, prev.Placement)
	if !placementKept {
		d.ClearAssignment()
		if d.Placement != "" {
			// A fresh placement may seed a new assignment in the same save.
			// Decision and notification state never survive the change.
			d.AssignedCompanyID = normalize.Trim(in["assignedCompanyId"])
			d.AssignmentAssignedAt = normalize.Trim(in["assignmentAssignedAt"])
			d.AssignedByUserID = normalize.Trim(in["assignedByUserId"])
			d.AssignedByUserName = normalize.Trim(in["assignedByUserName"])
			if status, ok := models.ParseAssignmentStatus(normalize.Lower(in["assignmentStatus"])); ok {
				d.AssignmentStatus = status
			} else if d.AssignedCompanyID != "" {
				d.AssignmentStatus = models.AssignmentPending
			}
		}
		return d, nil
	}

	d.AssignedCompanyID = field(in, prev.AssignedCompanyID, "assignedCompanyId")
	d.AssignmentAssignedAt = field(in, prev.AssignmentAssignedAt, "assignmentAssignedAt")
	d.AssignedByUserID = field(in, prev.AssignedByUserID, "assignedByUserId")
	d.AssignedByUserName = field(in, prev.AssignedByUserName, "assignedByUserName")

	d.AssignmentStatus = prev.AssignmentStatus
	if raw, ok := present(in, "assignmentStatus"); ok {
		if status, valid := models.ParseAssignmentStatus(normalize.Lower(raw)); valid {
			d.AssignmentStatus = status
		}
	}

	d.CompanyNotified = prev.CompanyNotified
	if raw, ok := present(in, "companyNotified"); ok {
		d.CompanyNotified = parseNotificationState(raw, prev.CompanyNotified)
	}
	d.CompanyNotificationAt = field(in, prev.CompanyNotificationAt, "companyNotificationAt")
	d.CompanyNotificationMethod = field(in, prev.CompanyNotificationMethod, "companyNotificationMethod")

	d.CompanyDecisionAt = field(in, prev.CompanyDecisionAt, "companyDecisionAt")
	d.CompanyDecisionBy = field(in, prev.CompanyDecisionBy, "companyDecisionBy")
	d.CompanyDecisionByName = field(in, prev.CompanyDecisionByName, "companyDecisionByName")
	d.CompanyDecisionReason = field(in, prev.CompanyDecisionReason, "companyDecisionReason")

	d.Verified = prev.Verified
	if raw, ok := present(in, "verified"); ok {
		d.Verified = normalize.Lower(raw) == "true"
	}
	d.VerifiedAt = field(in, prev.VerifiedAt, "verifiedAt")
	return d, nil
}

// parseNotificationState accepts the tri-state values plus the legacy
// boolean spelling found on older rows.
func parseNotificationState(raw string, prev models.NotificationState) models.NotificationState {
	switch normalize.Lower(raw) {
	case "":
		return models.NotificationNotAttempted
	case "delivered", "true":
		return models.NotificationDelivered
	case "failed", "false":
		return models.NotificationFailed
	}
	return prev
}

func sanitizeLeader(kind models.RecordType, in map[string]string, prev *models.LeaderData) *models.LeaderData {
	if prev == nil {
		prev = &models.LeaderData{}
	}
	return &models.LeaderData{
		Name:      field(in, prev.Name, "name"),
		Email:     field(in, prev.Email, "email"),
		Phone:     field(in, prev.Phone, "phone"),
		Title:     field(in, prev.Title, "title"),
		Programme: field(in, prev.Programme, "programme", "program"),
		Notes:     field(in, prev.Notes, "notes", "note"),
		Kind:      kind,
	}
}

func sanitizeCompany(kind models.RecordType, in map[string]string, prev *models.CompanyData) *models.CompanyData {
	if prev == nil {
		prev = &models.CompanyData{}
	}
	return &models.CompanyData{
		Business:      field(in, prev.Business, "business", "company"),
		OrgNumber:     field(in, prev.OrgNumber, "orgNumber"),
		ContactPerson: field(in, prev.ContactPerson, "contactPerson"),
		ContactEmail:  field(in, prev.ContactEmail, "contactEmail"),
		ContactPhone:  field(in, prev.ContactPhone, "contactPhone"),
		City:          field(in, prev.City, "city"),
		Website:       field(in, prev.Website, "website"),
		Notes:         field(in, prev.Notes, "notes", "note"),
		Kind:          kind,
	}
}

func sanitizeLiahubCompany(in map[string]string, prev *models.LiahubCompanyData) (*models.LiahubCompanyData, error) {
	if prev == nil {
		prev = &models.LiahubCompanyData{}
	}
	d := &models.LiahubCompanyData{
		Business:        field(in, prev.Business, "business", "company"),
		OrgNumber:       field(in, prev.OrgNumber, "orgNumber"),
		ContactPerson:   field(in, prev.ContactPerson, "contactPerson"),
		ContactEmail:    field(in, prev.ContactEmail, "contactEmail"),
		ContactPhone:    field(in, prev.ContactPhone, "contactPhone"),
		Program:         field(in, prev.Program, "program", "programme"),
		City:            field(in, prev.City, "city"),
		Website:         field(in, prev.Website, "website"),
		NextStep:        field(in, prev.NextStep, "nextStep"),
		NextContactDate: normalize.CohortDate(field(in, prev.NextContactDate, "nextContactDate")),
		TakesStudents:   normalize.YesNo(field(in, prev.TakesStudents, "takesStudents")),
		ContractSent:    normalize.YesNo(field(in, prev.ContractSent, "contractSent")),
		Notes:           field(in, prev.Notes, "notes", "note"),
	}
	if d.Program == "" {
		return nil, fmt.Errorf("%w: liahub company requires a program", apperrors.ErrValidationFailed)
	}
	return d, nil
}

// boolString is used when projecting derived booleans into flat rows.
func boolString(v bool) string {
	return strconv.FormatBool(v)
}
