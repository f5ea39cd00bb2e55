package repositories

import (
	"context"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RequisitionReader defines read operations for requisition data.
type RequisitionReader interface {
	// FindRequisitionByID retrieves a requisition without its line items.
	FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error)

	// FindLineItems retrieves the line items of a requisition.
	FindLineItems(ctx context.Context, requisitionID string) ([]domain.LineItem, error)

	// ListStalledRequisitions returns requisitions sitting at the given level
	// whose last update is older than cutoff and whose status is not in
	// excludedStatuses. Used by the escalation sweep.
	ListStalledRequisitions(ctx context.Context, level domain.Level, cutoff time.Time, excludedStatuses []domain.Status) ([]domain.Requisition, error)

	// ListUnimpactedSettled returns requisitions in the given statuses whose
	// budgetImpacted flag is still false. Used by the reconciliation backfill.
	ListUnimpactedSettled(ctx context.Context, statuses []domain.Status) ([]domain.Requisition, error)
}

// RequisitionWriter defines write operations executed outside the workflow engine.
type RequisitionWriter interface {
	// SaveRequisition persists a new requisition together with its line items.
	SaveRequisition(ctx context.Context, requisition domain.Requisition, items []domain.LineItem) error
}

// RequisitionTransactionSupport defines the operations the workflow engine
// runs inside its single per-application transaction.
type RequisitionTransactionSupport interface {
	// FindRequisitionForUpdate selects and row-locks a requisition within tx.
	FindRequisitionForUpdate(ctx context.Context, tx pgx.Tx, requisitionID string) (*domain.Requisition, error)

	// FindLineItemsInTx retrieves line items within tx.
	FindLineItemsInTx(ctx context.Context, tx pgx.Tx, requisitionID string) ([]domain.LineItem, error)

	// UpdateTransitionInTx writes the post-transition requisition state
	// guarded by the expected version. Returns apperrors.ErrStaleState when
	// the version no longer matches.
	UpdateTransitionInTx(ctx context.Context, tx pgx.Tx, requisition domain.Requisition, expectedVersion int64) error

	// ReplaceLineItemsInTx deletes and reinserts the line items of a
	// requisition within tx.
	ReplaceLineItemsInTx(ctx context.Context, tx pgx.Tx, requisitionID string, items []domain.LineItem) error

	// UpdateAmountsInTx rewrites the per-currency amount totals after a
	// line-item edit. The caller holds the row lock.
	UpdateAmountsInTx(ctx context.Context, tx pgx.Tx, requisitionID string, amountUSD, amountCDF *decimal.Decimal, userID string, now time.Time) error
}

// RequisitionRepositoryFacade combines all requisition repository interfaces.
type RequisitionRepositoryFacade interface {
	RequisitionReader
	RequisitionWriter
	RequisitionTransactionSupport
}

// RequisitionRepositoryWithTx extends the facade with transaction capabilities.
type RequisitionRepositoryWithTx interface {
	RequisitionRepositoryFacade
	TransactionManager
}
