package records

import (
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/normalize"
)

// Natural keys detect duplicates during bulk import. The key varies by
// record type: students dedup on email when present, otherwise on
// name+placement; company-like records dedup on business+orgNumber+
// contactEmail, so two companies sharing a name but carrying different
// registration numbers are distinct.

func studentKey(email, name, placement string) string {
	if e := normalize.Lower(email); e != "" {
		return "email:" + e
	}
	return "name:" + normalize.Lower(name) + "|" + normalize.Lower(placement)
}

func companyKey(business, orgNumber, contactEmail string) string {
	return "company:" + normalize.Lower(business) + "|" + normalize.Lower(orgNumber) + "|" + normalize.Lower(contactEmail)
}

// NaturalKey computes the duplicate-detection key for a stored payload.
func NaturalKey(data models.RecordData) string {
	switch d := data.(type) {
	case *models.StudentData:
		return studentKey(d.Email, d.Name, d.Placement)
	case *models.AllStudentData:
		return studentKey(d.Email, d.Name, "")
	case *models.MyStudentData:
		return studentKey(d.Email, d.Name, "")
	case *models.LeaderData:
		return studentKey(d.Email, d.Name, "")
	case *models.CompanyData:
		return companyKey(d.Business, d.OrgNumber, d.ContactEmail)
	case *models.LiahubCompanyData:
		return companyKey(d.Business, d.OrgNumber, d.ContactEmail)
	}
	return ""
}

// NaturalKeyFromFields computes the same key from a mapped-but-unsanitized
// import row so incoming rows can be checked against each other before any
// record is created.
func NaturalKeyFromFields(t models.RecordType, fields map[string]string) string {
	switch t {
	case models.RecordTypeStudent:
		return studentKey(fields["email"], fields["name"], fields["placement"])
	case models.RecordTypeAllStudent, models.RecordTypeMyStudent,
		models.RecordTypeTeacher, models.RecordTypeEducationManager, models.RecordTypeAdmin:
		return studentKey(fields["email"], fields["name"], "")
	case models.RecordTypeCompany, models.RecordTypeLeadCompany, models.RecordTypeLiahubCompany:
		return companyKey(fields["business"], fields["orgNumber"], fields["contactEmail"])
	}
	return ""
}
