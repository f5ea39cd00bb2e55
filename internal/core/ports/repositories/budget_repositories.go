package repositories

import (
	"context"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BudgetLineReader defines read operations for budget line data.
type BudgetLineReader interface {
	// FindBudgetLine retrieves a budget line by its (description, month) key.
	FindBudgetLine(ctx context.Context, description, month string) (*domain.BudgetLine, error)

	// ListBudgetLines retrieves all budget lines for a month. An empty month
	// lists every line.
	ListBudgetLines(ctx context.Context, month string) ([]domain.BudgetLine, error)
}

// BudgetLineWriter defines write operations for budget line reference data.
type BudgetLineWriter interface {
	// SaveBudgetLine persists a new budget line.
	SaveBudgetLine(ctx context.Context, line domain.BudgetLine) error
}

// BudgetTransactionSupport defines the ledger operations participating in the
// workflow engine's transaction.
type BudgetTransactionSupport interface {
	// FindBudgetLineForUpdate selects and row-locks a budget line within tx.
	FindBudgetLineForUpdate(ctx context.Context, tx pgx.Tx, description, month string) (*domain.BudgetLine, error)

	// IncrementConsumedInTx adds amount to the line's consumed total within tx.
	// Consumed is monotonic: amount must be positive.
	IncrementConsumedInTx(ctx context.Context, tx pgx.Tx, budgetLineID string, amount decimal.Decimal, userID string, now time.Time) error
}

// BudgetRepositoryFacade combines all budget repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetLineReader
	BudgetLineWriter
	BudgetTransactionSupport
}

// BudgetRepositoryWithTx extends the facade with transaction capabilities.
type BudgetRepositoryWithTx interface {
	BudgetRepositoryFacade
	TransactionManager
}
