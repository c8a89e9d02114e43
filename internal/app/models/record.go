package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordType discriminates the shape of a school record's data payload.
// The set is closed; record types are not user-extensible.
type RecordType string

const (
	RecordTypeStudent          RecordType = "student"
	RecordTypeAllStudent       RecordType = "all_student"
	RecordTypeMyStudent        RecordType = "my_student"
	RecordTypeTeacher          RecordType = "teacher"
	RecordTypeEducationManager RecordType = "education_manager"
	RecordTypeAdmin            RecordType = "admin"
	RecordTypeCompany          RecordType = "company"
	RecordTypeLeadCompany      RecordType = "lead_company"
	RecordTypeLiahubCompany    RecordType = "liahub_company"
)

// AllRecordTypes lists every valid record type.
var AllRecordTypes = []RecordType{
	RecordTypeStudent,
	RecordTypeAllStudent,
	RecordTypeMyStudent,
	RecordTypeTeacher,
	RecordTypeEducationManager,
	RecordTypeAdmin,
	RecordTypeCompany,
	RecordTypeLeadCompany,
	RecordTypeLiahubCompany,
}

// IsValid reports whether t is one of the known record types.
func (t RecordType) IsValid() bool {
	for _, known := range AllRecordTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsCompanyLike reports whether the record represents a company entity.
// Deleting a company-like record cascades to its organization and users.
func (t RecordType) IsCompanyLike() bool {
	return t == RecordTypeCompany || t == RecordTypeLeadCompany
}

// AssignmentStatus is the lifecycle state of a student's placement decision.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentRejected  AssignmentStatus = "rejected"
)

// ParseAssignmentStatus canonicalizes a raw status value. The ok result is
// false for anything outside the three known states.
func ParseAssignmentStatus(raw string) (AssignmentStatus, bool) {
	switch AssignmentStatus(raw) {
	case AssignmentPending, AssignmentConfirmed, AssignmentRejected:
		return AssignmentStatus(raw), true
	}
	return "", false
}

// NotificationState tracks the company-notification side effect on a student
// record. The empty state means no attempt was made yet; a failed attempt is
// recorded so a later save or the sweep job can retry without re-sending to
// records already delivered.
type NotificationState string

const (
	NotificationNotAttempted NotificationState = ""
	NotificationFailed       NotificationState = "failed"
	NotificationDelivered    NotificationState = "delivered"
)

// RecordData is the tagged union of per-type record payloads. The sanitizer
// constructors in internal/app/records are the only code path that builds
// these values.
type RecordData interface {
	DataType() RecordType
}

// RosterData holds the fields shared by every student-shaped record.
type RosterData struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Programme string `json:"programme,omitempty"`
	Cohort    string `json:"cohort,omitempty"`
	City      string `json:"city,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// StudentData is the payload of a "student" record: roster fields plus the
// placement/assignment block. Whenever Placement is cleared or changed the
// whole assignment block must be purged together.
type StudentData struct {
	RosterData

	Placement                 string            `json:"placement,omitempty"`
	AssignedCompanyID         string            `json:"assignedCompanyId,omitempty"`
	AssignmentStatus          AssignmentStatus  `json:"assignmentStatus,omitempty"`
	AssignmentAssignedAt      string            `json:"assignmentAssignedAt,omitempty"`
	AssignedByUserID          string            `json:"assignedByUserId,omitempty"`
	AssignedByUserName        string            `json:"assignedByUserName,omitempty"`
	CompanyNotified           NotificationState `json:"companyNotified,omitempty"`
	CompanyNotificationAt     string            `json:"companyNotificationAt,omitempty"`
	CompanyNotificationMethod string            `json:"companyNotificationMethod,omitempty"`
	CompanyDecisionAt         string            `json:"companyDecisionAt,omitempty"`
	CompanyDecisionBy         string            `json:"companyDecisionBy,omitempty"`
	CompanyDecisionByName     string            `json:"companyDecisionByName,omitempty"`
	CompanyDecisionReason     string            `json:"companyDecisionReason,omitempty"`
	Verified                  bool              `json:"verified,omitempty"`
	VerifiedAt                string            `json:"verifiedAt,omitempty"`
}

func (d *StudentData) DataType() RecordType { return RecordTypeStudent }

// ClearAssignment purges every placement-decision and notification field.
func (d *StudentData) ClearAssignment() {
	d.AssignedCompanyID = ""
	d.AssignmentStatus = ""
	d.AssignmentAssignedAt = ""
	d.AssignedByUserID = ""
	d.AssignedByUserName = ""
	d.CompanyNotified = NotificationNotAttempted
	d.CompanyNotificationAt = ""
	d.CompanyNotificationMethod = ""
	d.CompanyDecisionAt = ""
	d.CompanyDecisionBy = ""
	d.CompanyDecisionByName = ""
	d.CompanyDecisionReason = ""
	d.Verified = false
	d.VerifiedAt = ""
}

// AllStudentData is the master-roster payload. It never carries placement
// fields.
type AllStudentData struct {
	RosterData
}

func (d *AllStudentData) DataType() RecordType { return RecordTypeAllStudent }

// MyStudentData is a roster row owned by a specific education manager.
type MyStudentData struct {
	RosterData

	EducationManagerID string `json:"educationManagerId,omitempty"`
}

func (d *MyStudentData) DataType() RecordType { return RecordTypeMyStudent }

// LeaderData is the minimal contact/programme shape shared by teacher,
// education_manager and admin records.
type LeaderData struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Title     string `json:"title,omitempty"`
	Programme string `json:"programme,omitempty"`
	Notes     string `json:"notes,omitempty"`

	// kind is one of teacher, education_manager, admin.
	Kind RecordType `json:"-"`
}

func (d *LeaderData) DataType() RecordType { return d.Kind }

// CompanyData is the payload for company and lead_company records.
type CompanyData struct {
	Business      string `json:"business"`
	OrgNumber     string `json:"orgNumber,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`
	ContactEmail  string `json:"contactEmail,omitempty"`
	ContactPhone  string `json:"contactPhone,omitempty"`
	City          string `json:"city,omitempty"`
	Website       string `json:"website,omitempty"`
	Notes         string `json:"notes,omitempty"`

	// kind is company or lead_company.
	Kind RecordType `json:"-"`
}

func (d *CompanyData) DataType() RecordType { return d.Kind }

// LiahubCompanyData is the payload for liahub_company records. Program is
// mandatory; the JA/NEJ flags are normalized on the way in.
type LiahubCompanyData struct {
	Business        string `json:"business"`
	OrgNumber       string `json:"orgNumber,omitempty"`
	ContactPerson   string `json:"contactPerson,omitempty"`
	ContactEmail    string `json:"contactEmail,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty"`
	Program         string `json:"program"`
	City            string `json:"city,omitempty"`
	Website         string `json:"website,omitempty"`
	NextStep        string `json:"nextStep,omitempty"`
	NextContactDate string `json:"nextContactDate,omitempty"`
	TakesStudents   string `json:"takesStudents,omitempty"`
	ContractSent    string `json:"contractSent,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

func (d *LiahubCompanyData) DataType() RecordType { return RecordTypeLiahubCompany }

// SchoolRecord is one stored entity of a fixed type within a school's data.
type SchoolRecord struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	Type           RecordType `json:"type"`
	Status         string     `json:"status"`
	Data           RecordData `json:"data"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// DecodeRecordData unmarshals a stored JSON payload into the concrete data
// struct for the given record type.
func DecodeRecordData(t RecordType, raw []byte) (RecordData, error) {
	switch t {
	case RecordTypeStudent:
		var d StudentData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d, nil
	case RecordTypeAllStudent:
		var d AllStudentData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d, nil
	case RecordTypeMyStudent:
		var d MyStudentData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d, nil
	case RecordTypeTeacher, RecordTypeEducationManager, RecordTypeAdmin:
		var d LeaderData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		d.Kind = t
		return &d, nil
	case RecordTypeCompany, RecordTypeLeadCompany:
		var d CompanyData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		d.Kind = t
		return &d, nil
	case RecordTypeLiahubCompany:
		var d LiahubCompanyData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return &d, nil
	}
	return nil, fmt.Errorf("unknown record type %q", t)
}
