package services

import (
	"context"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BudgetSvcFacade is the monthly budget ledger.
type BudgetSvcFacade interface {
	// Check reports whether amount fits the remaining budget of the
	// (description, month) line. Amounts in CDF are normalized to USD first.
	// A missing line yields allowed=false with a distinguishing reason, not
	// an error.
	Check(ctx context.Context, description string, amount decimal.Decimal, currency, month string) (*domain.BudgetCheckResult, error)

	// CommitLineItemInTx consumes a line item's total against its budget line
	// within the caller's transaction. A missing budget line is a logged
	// no-op. When enforce is true, an over-budget amount aborts with
	// apperrors.ErrBudgetExceeded.
	CommitLineItemInTx(ctx context.Context, tx pgx.Tx, item domain.LineItem, month, userID string, enforce bool) error

	// ListLines lists budget lines, optionally restricted to one month.
	ListLines(ctx context.Context, month string) ([]domain.BudgetLine, error)

	// CreateLine registers a new monthly allocation.
	CreateLine(ctx context.Context, line domain.BudgetLine, userID string) (*domain.BudgetLine, error)

	// Reconcile backfills budget consumption for settled requisitions whose
	// budgetImpacted flag is still false. Idempotent; returns the number of
	// requisitions fixed.
	Reconcile(ctx context.Context) (int, error)
}
