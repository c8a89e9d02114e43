package records

import (
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/normalize"
)

// Column dictionaries map spreadsheet header text (lower-cased, trimmed) to
// canonical field names. The duplicate and legacy spellings are part of the
// import contract and must stay as they are; schools keep re-uploading old
// sheet templates.

var studentColumns = map[string]string{
	"studerande namn":               "name",
	"student name":                  "name",
	"namn":                          "name",
	"name":                          "name",
	"studerande mejladress (skola)": "email",
	"studerande mejladress":         "email",
	"mejladress":                    "email",
	"e-post":                        "email",
	"email":                         "email",
	"mejl":                          "email",
	"telefon":                       "phone",
	"telefonnummer":                 "phone",
	"phone":                         "phone",
	"utbildning":                    "programme",
	"programme":                     "programme",
	"program":                       "programme",
	"date":                          "cohort",
	"datum":                         "cohort",
	"kull":                          "cohort",
	"cohort":                        "cohort",
	"lia-plats":                     "placement",
	"lia plats":                     "placement",
	"placement":                     "placement",
	"praktikplats":                  "placement",
	"ort":                           "city",
	"stad":                          "city",
	"city":                          "city",
	"anteckningar":                  "notes",
	"notes":                         "notes",
	"note":                          "notes",
	"status":                        "status",
}

var myStudentColumns = mergeColumns(studentColumns, map[string]string{
	"utbildningsledare":    "educationManagerId",
	"education manager id": "educationManagerId",
})

var leaderColumns = map[string]string{
	"namn":          "name",
	"name":          "name",
	"mejladress":    "email",
	"e-post":        "email",
	"email":         "email",
	"telefon":       "phone",
	"phone":         "phone",
	"titel":         "title",
	"title":         "title",
	"utbildning":    "programme",
	"programme":     "programme",
	"program":       "programme",
	"anteckningar":  "notes",
	"notes":         "notes",
	"note":          "notes",
}

var companyColumns = map[string]string{
	"företag":              "business",
	"företagsnamn":         "business",
	"business":             "business",
	"company":              "business",
	"organisationsnummer":  "orgNumber",
	"org nr":               "orgNumber",
	"org number":           "orgNumber",
	"org.nr":               "orgNumber",
	"orgnumber":            "orgNumber",
	"kontaktperson":        "contactPerson",
	"contact person":       "contactPerson",
	"kontakt mejl":         "contactEmail",
	"kontaktmejl":          "contactEmail",
	"contact email":        "contactEmail",
	"mejladress":           "contactEmail",
	"email":                "contactEmail",
	"kontakt telefon":      "contactPhone",
	"telefon":              "contactPhone",
	"phone":                "contactPhone",
	"ort":                  "city",
	"city":                 "city",
	"hemsida":              "website",
	"website":              "website",
	"anteckningar":         "notes",
	"notes":                "notes",
	"note":                 "notes",
}

var liahubCompanyColumns = mergeColumns(companyColumns, map[string]string{
	"utbildning":           "program",
	"program":              "program",
	"programme":            "program",
	"nästa steg":           "nextStep",
	"next step":            "nextStep",
	"nästa kontakt":        "nextContactDate",
	"next contact":         "nextContactDate",
	"tar emot studerande":  "takesStudents",
	"tar emot lia":         "takesStudents",
	"takes students":       "takesStudents",
	"avtal skickat":        "contractSent",
	"contract sent":        "contractSent",
})

func mergeColumns(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// ColumnMap returns the header dictionary for a record type, or nil when the
// type has no spreadsheet import.
func ColumnMap(t models.RecordType) map[string]string {
	switch t {
	case models.RecordTypeStudent, models.RecordTypeAllStudent:
		return studentColumns
	case models.RecordTypeMyStudent:
		return myStudentColumns
	case models.RecordTypeTeacher, models.RecordTypeEducationManager, models.RecordTypeAdmin:
		return leaderColumns
	case models.RecordTypeCompany, models.RecordTypeLeadCompany:
		return companyColumns
	case models.RecordTypeLiahubCompany:
		return liahubCompanyColumns
	}
	return nil
}

// MapRow translates one spreadsheet row into canonical fields using the
// header row. Unrecognized headers are dropped; later duplicate headers do
// not overwrite a value already set.
func MapRow(t models.RecordType, headers []string, row []string) map[string]string {
	dict := ColumnMap(t)
	mapped := make(map[string]string, len(headers))
	for i, header := range headers {
		if i >= len(row) {
			break
		}
		canonical, ok := dict[normalize.Lower(header)]
		if !ok {
			continue
		}
		if existing, taken := mapped[canonical]; taken && existing != "" {
			continue
		}
		mapped[canonical] = normalize.Trim(row[i])
	}
	return mapped
}
