package pgsql

import (
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RequisitionRepo: NewRequisitionRepository(dbPool),
		BudgetRepo:      NewBudgetRepository(dbPool),
		TreasuryRepo:    NewTreasuryRepository(dbPool),
		ActionRepo:      NewActionRecordRepository(dbPool),
		SettingRepo:     NewWorkflowSettingRepository(dbPool),
		AppSettingRepo:  NewAppSettingRepository(dbPool),
		OrgServiceRepo:  NewOrgServiceRepository(dbPool),
	}
}
