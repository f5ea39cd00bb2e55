package services

import (
	"context"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TreasurySvcFacade is the multi-currency treasury ledger.
type TreasurySvcFacade interface {
	// GetFunds returns all fund balances.
	GetFunds(ctx context.Context) ([]domain.Fund, error)

	// ListMovements returns fund movements, newest first.
	ListMovements(ctx context.Context, limit int) ([]domain.FundMovement, error)

	// Ravitaillement replenishes a fund: validates currency and amount,
	// appends an IN movement and increments the balance atomically.
	Ravitaillement(ctx context.Context, currency string, amount decimal.Decimal, description, userID string) (*domain.Fund, error)

	// SettleInTx debits every populated currency amount of the requisition
	// and records the payment, all-or-nothing, within the caller's
	// transaction. A shortfall on any currency aborts with
	// apperrors.ErrInsufficientFunds before any debit. An already-recorded
	// payment makes the whole call a logged no-op.
	SettleInTx(ctx context.Context, tx pgx.Tx, requisition *domain.Requisition, payerID, comment string) error

	// GetPayment returns the payment recorded for a requisition.
	GetPayment(ctx context.Context, requisitionID string) (*domain.Payment, error)
}
