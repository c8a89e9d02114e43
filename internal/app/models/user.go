package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names carried in the users.roles column and in JWT claims.
const (
	RoleStudent          = "student"
	RoleTeacher          = "teacher"
	RoleEducationManager = "education_manager"
	RoleAdmin            = "admin"
	RoleCompany          = "company"
)

// SchoolDecisionRoles are the school-side roles notified when a company
// confirms or rejects a placement.
var SchoolDecisionRoles = []string{RoleAdmin, RoleEducationManager}

// User is an account in the platform. Aside from company-account
// provisioning, this service consumes users read-only; authentication and
// session issuance live in an external collaborator.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	PasswordHash   string     `json:"-"`
	Roles          []string   `json:"roles"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	Programmes     []string   `json:"programmes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	return HasRole(u.Roles, role)
}

// HasRole reports whether a role list contains the given role.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
