package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager runs a function inside one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise,
// so a failed workflow application writes nothing.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service constructors cleaner.
type RepositoryProvider struct {
	RequisitionRepo RequisitionRepositoryWithTx
	BudgetRepo      BudgetRepositoryWithTx
	TreasuryRepo    TreasuryRepositoryWithTx
	ActionRepo      ActionRecordRepositoryFacade
	SettingRepo     WorkflowSettingRepositoryFacade
	AppSettingRepo  AppSettingRepositoryFacade
	OrgServiceRepo  OrgServiceRepositoryFacade
}
