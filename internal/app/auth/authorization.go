// Package auth centralizes the role capability checks that would otherwise
// be scattered as ad hoc role-string comparisons across handlers. The
// sanitizing record service, the assignment state machine and the dashboard
// aggregator all consult the same service.
package auth

import (
	"github.com/liahub/liahub-backend/internal/app/models"
)

// AuthorizationService answers capability questions for a set of roles.
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService.
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// IsAdmin reports whether the roles include the school admin role.
func (s *AuthorizationService) IsAdmin(roles []string) bool {
	return models.HasRole(roles, models.RoleAdmin)
}

// CanWriteRecordType reports whether the roles may create, update or delete
// records of the given type. Company-like types are admin-only; the staff
// record types are open to admins and education managers.
func (s *AuthorizationService) CanWriteRecordType(roles []string, t models.RecordType) bool {
	switch t {
	case models.RecordTypeCompany, models.RecordTypeLeadCompany, models.RecordTypeLiahubCompany:
		return models.HasRole(roles, models.RoleAdmin)
	case models.RecordTypeStudent, models.RecordTypeAllStudent, models.RecordTypeMyStudent,
		models.RecordTypeTeacher, models.RecordTypeEducationManager, models.RecordTypeAdmin:
		return models.HasRole(roles, models.RoleAdmin) || models.HasRole(roles, models.RoleEducationManager)
	}
	return false
}

// CanImportRecordType mirrors CanWriteRecordType; bulk import is just a
// different entry into the same write path.
func (s *AuthorizationService) CanImportRecordType(roles []string, t models.RecordType) bool {
	return s.CanWriteRecordType(roles, t)
}

// CanDecideAssignment reports whether the roles may confirm or reject a
// placement. Ownership of the specific assignment is checked separately by
// the state machine.
func (s *AuthorizationService) CanDecideAssignment(roles []string) bool {
	return models.HasRole(roles, models.RoleCompany)
}

// CanViewSchoolDashboard reports whether the roles may read the school view.
func (s *AuthorizationService) CanViewSchoolDashboard(roles []string) bool {
	return models.HasRole(roles, models.RoleAdmin) ||
		models.HasRole(roles, models.RoleEducationManager) ||
		models.HasRole(roles, models.RoleTeacher)
}

// CanViewStudentDashboard reports whether the roles may read the
// student/company view.
func (s *AuthorizationService) CanViewStudentDashboard(roles []string) bool {
	return models.HasRole(roles, models.RoleStudent) || models.HasRole(roles, models.RoleCompany)
}

// ProgrammeScoped reports whether the dashboard must be narrowed to the
// caller's configured programmes: education managers are scoped unless they
// are also admins. Scoping is opt-in; a manager with no configured
// programmes sees everything.
func (s *AuthorizationService) ProgrammeScoped(roles []string, programmes []string) bool {
	if !models.HasRole(roles, models.RoleEducationManager) || models.HasRole(roles, models.RoleAdmin) {
		return false
	}
	return len(programmes) > 0
}
