package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/ASOFES/R-quisitions-sub001/internal/middleware"
	"github.com/ASOFES/R-quisitions-sub001/internal/utils/money"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SettingKeyUsdCdfRate is the app setting holding the number of CDF per USD,
// used to normalize CDF amounts before they hit the USD-denominated budget.
const SettingKeyUsdCdfRate = "usd_cdf_rate"

const (
	// BudgetReasonNoLine distinguishes a missing budget line from an
	// over-budget amount in check results.
	BudgetReasonNoLine = "NO_BUDGET_LINE"

	// BudgetReasonExceeded marks an amount larger than the remaining budget.
	BudgetReasonExceeded = "BUDGET_EXCEEDED"
)

// budgetService is the monthly budget ledger. Consumed totals only ever grow.
type budgetService struct {
	budgetRepo      portsrepo.BudgetRepositoryWithTx
	requisitionRepo portsrepo.RequisitionRepositoryWithTx
	appSettingRepo  portsrepo.AppSettingRepositoryFacade
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryWithTx, requisitionRepo portsrepo.RequisitionRepositoryWithTx, appSettingRepo portsrepo.AppSettingRepositoryFacade) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:      budgetRepo,
		requisitionRepo: requisitionRepo,
		appSettingRepo:  appSettingRepo,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// normalizeAmount converts an amount into USD, fetching the exchange rate
// setting only when the currency requires it.
func (s *budgetService) normalizeAmount(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	if currency == domain.CurrencyUSD {
		return amount, nil
	}
	rate, err := s.appSettingRepo.GetDecimalSetting(ctx, SettingKeyUsdCdfRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load exchange rate setting: %w", err)
	}
	return money.NormalizeToUSD(amount, currency, rate)
}

// Check reports whether amount fits the remaining budget of the
// (description, month) line. A missing line is not an error: the caller
// decides whether to warn or block.
func (s *budgetService) Check(ctx context.Context, description string, amount decimal.Decimal, currency, month string) (*domain.BudgetCheckResult, error) {
	normalized, err := s.normalizeAmount(ctx, amount, currency)
	if err != nil {
		return nil, err
	}

	line, err := s.budgetRepo.FindBudgetLine(ctx, description, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.BudgetCheckResult{Allowed: false, Remaining: decimal.Zero, Reason: BudgetReasonNoLine}, nil
		}
		return nil, err
	}

	remaining := line.Remaining()
	if normalized.GreaterThan(remaining) {
		return &domain.BudgetCheckResult{Allowed: false, Remaining: remaining, Reason: BudgetReasonExceeded}, nil
	}
	return &domain.BudgetCheckResult{Allowed: true, Remaining: remaining}, nil
}

// CommitLineItemInTx consumes a line item's total against its budget line
// within the caller's transaction. A line item whose description has no
// budget line is logged and skipped rather than failing the transition.
func (s *budgetService) CommitLineItemInTx(ctx context.Context, tx pgx.Tx, item domain.LineItem, month, userID string, enforce bool) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	normalized, err := s.normalizeAmount(ctx, item.Total, item.Currency)
	if err != nil {
		return err
	}

	line, err := s.budgetRepo.FindBudgetLineForUpdate(ctx, tx, item.Description, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No budget line for line item, skipping consumption",
				slog.String("description", item.Description),
				slog.String("month", month),
			)
			return nil
		}
		return err
	}

	if enforce && normalized.GreaterThan(line.Remaining()) {
		return fmt.Errorf("%w: line %q month %s needs %s but only %s remains",
			apperrors.ErrBudgetExceeded, item.Description, month, normalized.String(), line.Remaining().String())
	}

	return s.budgetRepo.IncrementConsumedInTx(ctx, tx, line.BudgetLineID, normalized, userID, time.Now().UTC())
}

// ListLines lists budget lines, optionally restricted to one month.
func (s *budgetService) ListLines(ctx context.Context, month string) ([]domain.BudgetLine, error) {
	return s.budgetRepo.ListBudgetLines(ctx, month)
}

// CreateLine registers a new monthly allocation.
func (s *budgetService) CreateLine(ctx context.Context, line domain.BudgetLine, userID string) (*domain.BudgetLine, error) {
	if line.Description == "" {
		return nil, fmt.Errorf("%w: budget line description is required", apperrors.ErrValidation)
	}
	if _, err := time.Parse("2006-01", line.Month); err != nil {
		return nil, fmt.Errorf("%w: month must use the YYYY-MM format", apperrors.ErrValidation)
	}
	if line.Allocated.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: allocated amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	line.BudgetLineID = uuid.NewString()
	line.Consumed = decimal.Zero
	line.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := s.budgetRepo.SaveBudgetLine(ctx, line); err != nil {
		return nil, err
	}
	return &line, nil
}

// Reconcile backfills budget consumption for settled requisitions whose
// budgetImpacted flag is still false, e.g. after a payment that bypassed the
// normal commit. Each requisition is fixed in its own transaction so one
// failure does not abort the sweep.
func (s *budgetService) Reconcile(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	settledStatuses := []domain.Status{domain.StatusValidated, domain.StatusPaid, domain.StatusDone}
	stale, err := s.requisitionRepo.ListUnimpactedSettled(ctx, settledStatuses)
	if err != nil {
		return 0, fmt.Errorf("failed to list requisitions pending reconciliation: %w", err)
	}

	fixed := 0
	for _, requisition := range stale {
		err := s.requisitionRepo.WithTx(ctx, func(tx pgx.Tx) error {
			locked, err := s.requisitionRepo.FindRequisitionForUpdate(ctx, tx, requisition.RequisitionID)
			if err != nil {
				return err
			}
			if locked.BudgetImpacted {
				return nil // Another writer got here first.
			}

			items, err := s.requisitionRepo.FindLineItemsInTx(ctx, tx, locked.RequisitionID)
			if err != nil {
				return err
			}

			month := locked.CreatedAt.Format("2006-01")
			for _, item := range items {
				if err := s.CommitLineItemInTx(ctx, tx, item, month, "system", false); err != nil {
					return err
				}
			}

			locked.BudgetImpacted = true
			locked.LastUpdatedAt = time.Now().UTC()
			locked.LastUpdatedBy = "system"
			return s.requisitionRepo.UpdateTransitionInTx(ctx, tx, *locked, locked.Version)
		})
		if err != nil {
			logger.Error("Failed to reconcile requisition budget",
				slog.String("requisition_id", requisition.RequisitionID),
				slog.String("error", err.Error()),
			)
			continue
		}
		fixed++
	}

	if fixed > 0 {
		logger.Info("Budget reconciliation completed", slog.Int("fixed", fixed))
	}
	return fixed, nil
}
