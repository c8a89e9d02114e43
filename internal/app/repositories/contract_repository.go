package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContractRepository is the narrow view of the contracts subsystem this
// service needs: cascade deletion when a company record is removed.
type ContractRepository struct {
	db *pgxpool.Pool
}

// NewContractRepository creates a new contract repository.
func NewContractRepository(db *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{db: db}
}

// DeleteByOrganization removes all contracts of an organization, returning
// the number deleted.
func (r *ContractRepository) DeleteByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM contracts WHERE organization_id = $1`, orgID)
	if err != nil {
		return 0, fmt.Errorf("error deleting organization contracts: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
