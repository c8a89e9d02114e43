package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances.
type Repositories struct {
	RecordRepository       *RecordRepository
	OrganizationRepository *OrganizationRepository
	UserRepository         *UserRepository
	NotificationRepository *NotificationRepository
	ContractRepository     *ContractRepository
}

// NewRepositories initializes all repositories.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		RecordRepository:       NewRecordRepository(db),
		OrganizationRepository: NewOrganizationRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ContractRepository:     NewContractRepository(db),
	}
}
