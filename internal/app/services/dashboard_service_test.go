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

type dashboardEnv struct {
	svc     *DashboardService
	records *fakeRecordStore
	orgs    *fakeOrganizationStore
}

func newDashboardEnv() *dashboardEnv {
	env := &dashboardEnv{
		records: newFakeRecordStore(),
		orgs:    newFakeOrganizationStore(),
	}
	env.svc = NewDashboardService(env.records, env.orgs, auth.NewAuthorizationService(), testLogger)
	return env
}

func (env *dashboardEnv) seedStudent(orgID uuid.UUID, name, programme, placement string) *models.SchoolRecord {
	rec := &models.SchoolRecord{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Type:           models.RecordTypeStudent,
		Status:         "active",
		Data: &models.StudentData{
			RosterData: models.RosterData{Name: name, Email: name + "@school.se", Programme: programme},
			Placement:  placement,
		},
	}
	_ = env.records.Create(context.Background(), rec)
	return rec
}

func TestSchoolDashboardBucketsByType(t *testing.T) {
	env := newDashboardEnv()
	orgID := uuid.New()
	env.seedStudent(orgID, "maja", "Systemutveckling", "")
	_ = env.records.Create(context.Background(), &models.SchoolRecord{
		ID: uuid.New(), OrganizationID: orgID, Type: models.RecordTypeTeacher, Status: "active",
		Data: &models.LeaderData{Name: "Lars Berg", Email: "lars@school.se", Kind: models.RecordTypeTeacher},
	})
	_ = env.records.Create(context.Background(), &models.SchoolRecord{
		ID: uuid.New(), OrganizationID: orgID, Type: models.RecordTypeCompany, Status: "active",
		Data: &models.CompanyData{Business: "Nordic Soft AB", Kind: models.RecordTypeCompany},
	})
	// A record from another school never shows up.
	env.seedStudent(uuid.New(), "other", "Nätverk", "")

	view, err := env.svc.SchoolDashboard(context.Background(), adminActor(orgID))
	if err != nil {
		t.Fatalf("SchoolDashboard: %v", err)
	}
	if len(view.Students) != 1 || len(view.Teachers) != 1 || len(view.Companies) != 1 {
		t.Errorf("buckets: students=%d teachers=%d companies=%d", len(view.Students), len(view.Teachers), len(view.Companies))
	}
	if len(view.AllStudents) != 0 || len(view.Admins) != 0 {
		t.Error("empty buckets must stay empty")
	}
}

func TestSchoolDashboardProgrammeScoping(t *testing.T) {
	env := newDashboardEnv()
	orgID := uuid.New()
	env.seedStudent(orgID, "maja", "Systemutveckling", "")
	env.seedStudent(orgID, "sara", "Nätverk", "")
	_ = env.records.Create(context.Background(), &models.SchoolRecord{
		ID: uuid.New(), OrganizationID: orgID, Type: models.RecordTypeLiahubCompany, Status: "active",
		Data: &models.LiahubCompanyData{Business: "Nordic Soft AB", Program: "Nätverk"},
	})

	manager := Actor{
		UserID:         uuid.New(),
		Roles:          []string{models.RoleEducationManager},
		OrganizationID: orgID,
		Programmes:     []string{"systemutveckling"},
	}
	view, err := env.svc.SchoolDashboard(context.Background(), manager)
	if err != nil {
		t.Fatalf("SchoolDashboard: %v", err)
	}
	if len(view.Students) != 1 || view.Students[0]["name"] != "maja" {
		t.Errorf("scoped students = %v", view.Students)
	}
	if len(view.LiahubCompanies) != 0 {
		t.Error("liahub companies outside the manager's programmes must be hidden")
	}

	// A manager with no configured programmes sees everything.
	manager.Programmes = nil
	view, err = env.svc.SchoolDashboard(context.Background(), manager)
	if err != nil {
		t.Fatalf("SchoolDashboard: %v", err)
	}
	if len(view.Students) != 2 || len(view.LiahubCompanies) != 1 {
		t.Errorf("unscoped view: students=%d liahub=%d", len(view.Students), len(view.LiahubCompanies))
	}
}

func TestSchoolDashboardMyStudentOwnership(t *testing.T) {
	env := newDashboardEnv()
	orgID := uuid.New()
	mine := uuid.New()
	for _, owner := range []uuid.UUID{mine, uuid.New()} {
		_ = env.records.Create(context.Background(), &models.SchoolRecord{
			ID: uuid.New(), OrganizationID: orgID, Type: models.RecordTypeMyStudent, Status: "active",
			Data: &models.MyStudentData{
				RosterData:         models.RosterData{Name: "Student", Email: "s@school.se"},
				EducationManagerID: owner.String(),
			},
		})
	}

	manager := Actor{UserID: mine, Roles: []string{models.RoleEducationManager}, OrganizationID: orgID}
	view, err := env.svc.SchoolDashboard(context.Background(), manager)
	if err != nil {
		t.Fatalf("SchoolDashboard: %v", err)
	}
	if len(view.MyStudents) != 1 {
		t.Errorf("my students = %d, want only the owned row", len(view.MyStudents))
	}

	// Admins see every my_student row regardless of ownership.
	view, err = env.svc.SchoolDashboard(context.Background(), adminActor(orgID))
	if err != nil {
		t.Fatalf("SchoolDashboard: %v", err)
	}
	if len(view.MyStudents) != 2 {
		t.Errorf("admin my students = %d, want 2", len(view.MyStudents))
	}
}

func TestSchoolDashboardEnrichesPlacement(t *testing.T) {
	env := newDashboardEnv()
	orgID := uuid.New()
	env.seedStudent(orgID, "maja", "Systemutveckling", "Nordic Soft AB")
	_ = env.orgs.Create(context.Background(), &models.Organization{
		ID:           uuid.New(),
		Name:         " nordic soft ab ",
		Kind:         models.OrganizationCompany,
		City:         "Göteborg",
		ContactEmail: "info@nordicsoft.se",
		Metadata:     models.OrganizationMetadata{ContractSigned: true},
	})

	view, err := env.svc.SchoolDashboard(context.Background(), adminActor(orgID))
	if err != nil {
		t.Fatalf("SchoolDashboard: %v", err)
	}
	row := view.Students[0]
	if row["placementCity"] != "Göteborg" || row["placementContactEmail"] != "info@nordicsoft.se" {
		t.Errorf("enrichment missing: %v", row)
	}
	if row["placementVerified"] != "true" {
		t.Errorf("placementVerified = %q", row["placementVerified"])
	}
}

func TestSchoolDashboardRequiresStaffRole(t *testing.T) {
	env := newDashboardEnv()
	actor := Actor{UserID: uuid.New(), Roles: []string{models.RoleStudent}, OrganizationID: uuid.New()}

	_, err := env.svc.SchoolDashboard(context.Background(), actor)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestStudentDashboardForCompany(t *testing.T) {
	env := newDashboardEnv()
	org := &models.Organization{
		ID:       uuid.New(),
		Name:     "Nordic Soft AB",
		Kind:     models.OrganizationCompany,
		Metadata: models.OrganizationMetadata{ContractSigned: true},
	}
	_ = env.orgs.Create(context.Background(), org)
	schoolID := uuid.New()
	env.seedStudent(schoolID, "maja", "Systemutveckling", "Nordic Soft AB")
	env.seedStudent(schoolID, "sara", "Nätverk", "Other Firm AB")

	actor := Actor{UserID: uuid.New(), Roles: []string{models.RoleCompany}, OrganizationID: org.ID}
	view, err := env.svc.StudentDashboard(context.Background(), actor)
	if err != nil {
		t.Fatalf("StudentDashboard: %v", err)
	}
	if len(view.Students) != 1 || view.Students[0]["name"] != "maja" {
		t.Errorf("company view students = %v", view.Students)
	}
	if view.Company == nil || !view.Company.ContractSigned {
		t.Errorf("company profile = %+v", view.Company)
	}
}

func TestStudentDashboardForStudent(t *testing.T) {
	env := newDashboardEnv()
	schoolID := uuid.New()
	env.seedStudent(schoolID, "maja", "Systemutveckling", "")

	actor := Actor{
		UserID:         uuid.New(),
		Email:          "maja@school.se",
		Roles:          []string{models.RoleStudent},
		OrganizationID: schoolID,
	}
	view, err := env.svc.StudentDashboard(context.Background(), actor)
	if err != nil {
		t.Fatalf("StudentDashboard: %v", err)
	}
	if len(view.Students) != 1 || view.Students[0]["name"] != "maja" {
		t.Errorf("student view = %v", view.Students)
	}
	if view.Company != nil {
		t.Error("student view must not carry a company profile")
	}

	// A student without a record gets an empty view, not an error.
	actor.Email = "nobody@school.se"
	view, err = env.svc.StudentDashboard(context.Background(), actor)
	if err != nil {
		t.Fatalf("StudentDashboard: %v", err)
	}
	if len(view.Students) != 0 {
		t.Errorf("unexpected rows: %v", view.Students)
	}
}
