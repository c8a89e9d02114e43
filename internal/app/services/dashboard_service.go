package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appauth "github.com/liahub/liahub-backend/internal/app/auth"
	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/app/models/dto"
	"github.com/liahub/liahub-backend/internal/app/records"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
	"github.com/liahub/liahub-backend/internal/pkg/normalize"
)

// DashboardService builds the read views: the table-per-type school view
// for staff and the placement view for students and companies. Rows are
// projections of stored records enriched with the live company
// organization data, so contact details edited on the organization win
// over stale copies in record payloads.
type DashboardService struct {
	records       RecordStore
	organizations OrganizationStore
	authz         *appauth.AuthorizationService
	logger        zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	recordStore RecordStore,
	organizationStore OrganizationStore,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		records:       recordStore,
		organizations: organizationStore,
		authz:         authz,
		logger:        logger.With().Str("service", "dashboard").Logger(),
	}
}

// SchoolDashboard assembles the staff view over the caller's organization.
// Education managers with configured programmes see student and liahub
// company rows filtered to those programmes, and my_student rows they own;
// admins and managers without programmes see everything.
func (s *DashboardService) SchoolDashboard(ctx context.Context, actor Actor) (*dto.SchoolDashboard, error) {
	if !s.authz.CanViewSchoolDashboard(actor.Roles) {
		return nil, apperrors.NewForbiddenError("insufficient permissions for the school dashboard")
	}

	recs, err := s.records.ListByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	companyMeta, err := s.companyMetadata(ctx)
	if err != nil {
		// The dashboard still renders without the enrichment.
		s.logger.Error().Err(err).Msg("Company metadata lookup failed")
		companyMeta = map[string]*models.Organization{}
	}

	scoped := s.authz.ProgrammeScoped(actor.Roles, actor.Programmes)
	programmes := map[string]bool{}
	for _, p := range actor.Programmes {
		programmes[normalize.Lower(p)] = true
	}
	ownScoped := models.HasRole(actor.Roles, models.RoleEducationManager) && !s.authz.IsAdmin(actor.Roles)

	view := &dto.SchoolDashboard{
		Students:          []dto.DashboardRow{},
		AllStudents:       []dto.DashboardRow{},
		MyStudents:        []dto.DashboardRow{},
		Teachers:          []dto.DashboardRow{},
		EducationManagers: []dto.DashboardRow{},
		Admins:            []dto.DashboardRow{},
		LiahubCompanies:   []dto.DashboardRow{},
		Companies:         []dto.DashboardRow{},
	}
	for _, rec := range recs {
		row := records.ProjectRow(rec)
		switch rec.Type {
		case models.RecordTypeStudent:
			if scoped && !programmes[normalize.Lower(row["programme"])] {
				continue
			}
			s.enrichPlacement(row, companyMeta)
			view.Students = append(view.Students, row)
		case models.RecordTypeAllStudent:
			view.AllStudents = append(view.AllStudents, row)
		case models.RecordTypeMyStudent:
			if ownScoped && row["educationManagerId"] != actor.UserID.String() {
				continue
			}
			view.MyStudents = append(view.MyStudents, row)
		case models.RecordTypeTeacher:
			view.Teachers = append(view.Teachers, row)
		case models.RecordTypeEducationManager:
			view.EducationManagers = append(view.EducationManagers, row)
		case models.RecordTypeAdmin:
			view.Admins = append(view.Admins, row)
		case models.RecordTypeLiahubCompany:
			if scoped && !programmes[normalize.Lower(row["program"])] {
				continue
			}
			view.LiahubCompanies = append(view.LiahubCompanies, row)
		case models.RecordTypeCompany, models.RecordTypeLeadCompany:
			view.Companies = append(view.Companies, row)
		}
	}
	return view, nil
}

// StudentDashboard assembles the placement view. Company callers get the
// students placed with them plus their own organization profile; student
// callers get their own record row.
func (s *DashboardService) StudentDashboard(ctx context.Context, actor Actor) (*dto.StudentDashboard, error) {
	if !s.authz.CanViewStudentDashboard(actor.Roles) {
		return nil, apperrors.NewForbiddenError("insufficient permissions for the student dashboard")
	}

	if models.HasRole(actor.Roles, models.RoleCompany) {
		return s.companyView(ctx, actor)
	}
	return s.studentView(ctx, actor)
}

func (s *DashboardService) companyView(ctx context.Context, actor Actor) (*dto.StudentDashboard, error) {
	org, err := s.organizations.GetByID(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	recs, err := s.records.ListStudentsForCompany(ctx, org.ID, org.Name)
	if err != nil {
		return nil, err
	}
	view := &dto.StudentDashboard{
		Students: make([]dto.DashboardRow, 0, len(recs)),
		Company: &dto.CompanyProfile{
			ID:             org.ID.String(),
			Name:           org.Name,
			ContactEmail:   org.ContactEmail,
			Phone:          org.Phone,
			City:           org.City,
			ContractSigned: org.ContractVerified(),
		},
	}
	for _, rec := range recs {
		view.Students = append(view.Students, records.ProjectRow(rec))
	}
	return view, nil
}

func (s *DashboardService) studentView(ctx context.Context, actor Actor) (*dto.StudentDashboard, error) {
	view := &dto.StudentDashboard{Students: []dto.DashboardRow{}}
	rec, err := s.records.FindStudentByEmail(ctx, actor.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrRecordNotFound) {
			return view, nil
		}
		return nil, err
	}
	row := records.ProjectRow(rec)
	if meta, metaErr := s.companyMetadata(ctx); metaErr == nil {
		s.enrichPlacement(row, meta)
	}
	view.Students = append(view.Students, row)
	return view, nil
}

// companyMetadata indexes company organizations by normalized name for the
// placement enrichment.
func (s *DashboardService) companyMetadata(ctx context.Context) (map[string]*models.Organization, error) {
	orgs, err := s.organizations.ListByKind(ctx, models.OrganizationCompany)
	if err != nil {
		return nil, err
	}
	meta := make(map[string]*models.Organization, len(orgs))
	for _, org := range orgs {
		meta[normalize.Lower(normalize.Trim(org.Name))] = org
	}
	return meta, nil
}

// enrichPlacement overlays live organization contact data onto a student
// row whose placement matches a known company.
func (s *DashboardService) enrichPlacement(row dto.DashboardRow, meta map[string]*models.Organization) {
	placement := normalize.Lower(normalize.Trim(row["placement"]))
	if placement == "" {
		return
	}
	org, ok := meta[placement]
	if !ok {
		return
	}
	if org.City != "" {
		row["placementCity"] = org.City
	}
	if org.ContactEmail != "" {
		row["placementContactEmail"] = org.ContactEmail
	}
	if org.Phone != "" {
		row["placementContactPhone"] = org.Phone
	}
	if org.ContractVerified() {
		row["placementVerified"] = "true"
	}
}
