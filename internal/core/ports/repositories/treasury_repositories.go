package repositories

import (
	"context"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TreasuryReader defines read operations for treasury data.
type TreasuryReader interface {
	// ListFunds retrieves all fund balances.
	ListFunds(ctx context.Context) ([]domain.Fund, error)

	// ListFundMovements retrieves movements, newest first, up to limit.
	ListFundMovements(ctx context.Context, limit int) ([]domain.FundMovement, error)

	// FindPaymentByRequisitionID retrieves the payment recorded for a
	// requisition, or apperrors.ErrNotFound when none exists.
	FindPaymentByRequisitionID(ctx context.Context, requisitionID string) (*domain.Payment, error)
}

// TreasuryTransactionSupport defines the ledger operations participating in a
// database transaction (the workflow engine's settle, or a replenishment).
type TreasuryTransactionSupport interface {
	// FindFundsForUpdate selects and row-locks the funds for the given
	// currencies within tx, keyed by currency.
	FindFundsForUpdate(ctx context.Context, tx pgx.Tx, currencies []string) (map[string]domain.Fund, error)

	// UpdateFundBalanceInTx sets a fund's available balance within tx.
	UpdateFundBalanceInTx(ctx context.Context, tx pgx.Tx, currency string, available decimal.Decimal, userID string, now time.Time) error

	// InsertFundMovementInTx appends a movement row within tx.
	InsertFundMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.FundMovement) error

	// FindPaymentForUpdateInTx retrieves (and locks) the payment row for a
	// requisition within tx, or apperrors.ErrNotFound when none exists.
	FindPaymentForUpdateInTx(ctx context.Context, tx pgx.Tx, requisitionID string) (*domain.Payment, error)

	// InsertPaymentInTx inserts the payment row within tx. The insert is a
	// no-op when a payment already exists for the requisition; the returned
	// bool reports whether a row was actually written.
	InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) (bool, error)
}

// TreasuryRepositoryFacade combines all treasury repository interfaces.
type TreasuryRepositoryFacade interface {
	TreasuryReader
	TreasuryTransactionSupport
}

// TreasuryRepositoryWithTx extends the facade with transaction capabilities.
type TreasuryRepositoryWithTx interface {
	TreasuryRepositoryFacade
	TransactionManager
}
