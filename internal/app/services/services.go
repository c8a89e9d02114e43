// Package services contains the business logic of the record engine: the
// sanitizing record service, the assignment state machine, the notification
// dispatcher, the bulk importer and the dashboard aggregator.
//
// Services depend on narrow store interfaces rather than concrete
// repositories so the core logic is unit-testable without a live database
// or SMTP server.
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/liahub/liahub-backend/internal/app/models"
)

// Actor identifies the authenticated caller of a service operation, built
// from the validated token claims.
type Actor struct {
	UserID         uuid.UUID
	Name           string
	Email          string
	Roles          []string
	OrganizationID uuid.UUID
	Programmes     []string
}

// RecordStore is the persistence surface the services need for school
// records.
type RecordStore interface {
	Create(ctx context.Context, rec *models.SchoolRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SchoolRecord, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, types ...models.RecordType) ([]*models.SchoolRecord, error)
	Update(ctx context.Context, rec *models.SchoolRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	ApplyAssignmentDecision(ctx context.Context, recordID, companyID uuid.UUID, patch map[string]any) (bool, error)
	SetNotificationState(ctx context.Context, recordID uuid.UUID, patch map[string]any) error
	ListFailedCompanyNotifications(ctx context.Context) ([]*models.SchoolRecord, error)
	ListStudentsForCompany(ctx context.Context, companyID uuid.UUID, companyName string) ([]*models.SchoolRecord, error)
	FindStudentByEmail(ctx context.Context, email string) (*models.SchoolRecord, error)
}

// OrganizationStore is the persistence surface for organizations.
type OrganizationStore interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	FindByName(ctx context.Context, name string) (*models.Organization, error)
	ListByKind(ctx context.Context, kind models.OrganizationKind) ([]*models.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore is the persistence surface for users.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByOrganizationWithRoles(ctx context.Context, orgID uuid.UUID, roles []string) ([]*models.User, error)
	ListCompanyUsersByOrganizationName(ctx context.Context, name string) ([]*models.User, error)
	DeleteByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error)
}

// NotificationStore is the persistence surface for in-app notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// ContractStore is the narrow contracts surface used by the company
// deletion cascade.
type ContractStore interface {
	DeleteByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error)
}

// CompanyNotifier triggers the assign-side notification fan-out. The
// record and import services call it best-effort after a student save.
type CompanyNotifier interface {
	NotifyCompanyAssigned(ctx context.Context, rec *models.SchoolRecord) models.NotificationState
}

// SchoolNotifier triggers the decision-side notification fan-out toward
// the school after a confirm/reject transition.
type SchoolNotifier interface {
	NotifySchoolDecision(ctx context.Context, rec *models.SchoolRecord, status models.AssignmentStatus, reason string)
}
