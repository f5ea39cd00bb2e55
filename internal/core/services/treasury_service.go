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
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// treasuryService is the multi-currency treasury ledger. Fund balances are
// mutated only through movements, and a settlement touches every currency of
// its requisition or none of them.
type treasuryService struct {
	treasuryRepo portsrepo.TreasuryRepositoryWithTx
}

// NewTreasuryService creates a new TreasuryService.
func NewTreasuryService(treasuryRepo portsrepo.TreasuryRepositoryWithTx) portssvc.TreasurySvcFacade {
	return &treasuryService{treasuryRepo: treasuryRepo}
}

var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

// GetFunds returns all fund balances.
func (s *treasuryService) GetFunds(ctx context.Context) ([]domain.Fund, error) {
	return s.treasuryRepo.ListFunds(ctx)
}

// ListMovements returns fund movements, newest first.
func (s *treasuryService) ListMovements(ctx context.Context, limit int) ([]domain.FundMovement, error) {
	return s.treasuryRepo.ListFundMovements(ctx, limit)
}

// Ravitaillement replenishes a fund: one IN movement plus the matching
// balance increment, committed atomically.
func (s *treasuryService) Ravitaillement(ctx context.Context, currency string, amount decimal.Decimal, description, userID string) (*domain.Fund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if currency != domain.CurrencyUSD && currency != domain.CurrencyCDF {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, currency)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: replenishment amount must be positive", apperrors.ErrValidation)
	}

	var updated domain.Fund
	err := s.treasuryRepo.WithTx(ctx, func(tx pgx.Tx) error {
		funds, err := s.treasuryRepo.FindFundsForUpdate(ctx, tx, []string{currency})
		if err != nil {
			return err
		}
		fund := funds[currency]

		now := time.Now().UTC()
		newBalance := fund.Available.Add(amount)
		if err := s.treasuryRepo.UpdateFundBalanceInTx(ctx, tx, currency, newBalance, userID, now); err != nil {
			return err
		}

		movement := domain.FundMovement{
			MovementID:  uuid.NewString(),
			Type:        domain.MovementIn,
			Amount:      amount,
			Currency:    currency,
			Description: description,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := s.treasuryRepo.InsertFundMovementInTx(ctx, tx, movement); err != nil {
			return err
		}

		updated = fund
		updated.Available = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Fund replenished",
		slog.String("currency", currency),
		slog.String("amount", amount.String()),
	)
	return &updated, nil
}

// SettleInTx debits every populated currency amount of the requisition and
// records the payment within the caller's transaction. Balances are verified
// for all currencies before the first debit, so a shortfall on one currency
// leaves every fund untouched. An already-recorded payment makes the whole
// call a no-op.
func (s *treasuryService) SettleInTx(ctx context.Context, tx pgx.Tx, requisition *domain.Requisition, payerID, comment string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	_, err := s.treasuryRepo.FindPaymentForUpdateInTx(ctx, tx, requisition.RequisitionID)
	if err == nil {
		logger.Warn("Payment already recorded, skipping settlement",
			slog.String("requisition_id", requisition.RequisitionID),
		)
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	type debit struct {
		currency string
		amount   decimal.Decimal
	}
	debits := []debit{}
	if requisition.AmountUSD != nil && requisition.AmountUSD.GreaterThan(decimal.Zero) {
		debits = append(debits, debit{currency: domain.CurrencyUSD, amount: *requisition.AmountUSD})
	}
	if requisition.AmountCDF != nil && requisition.AmountCDF.GreaterThan(decimal.Zero) {
		debits = append(debits, debit{currency: domain.CurrencyCDF, amount: *requisition.AmountCDF})
	}
	if len(debits) == 0 {
		return fmt.Errorf("%w: requisition %s has no amount to settle", apperrors.ErrValidation, requisition.RequisitionID)
	}

	currencies := make([]string, len(debits))
	for i, d := range debits {
		currencies[i] = d.currency
	}
	funds, err := s.treasuryRepo.FindFundsForUpdate(ctx, tx, currencies)
	if err != nil {
		return err
	}

	for _, d := range debits {
		fund := funds[d.currency]
		if fund.Available.LessThan(d.amount) {
			return fmt.Errorf("%w: fund %s holds %s but settlement needs %s",
				apperrors.ErrInsufficientFunds, d.currency, fund.Available.String(), d.amount.String())
		}
	}

	now := time.Now().UTC()
	for _, d := range debits {
		fund := funds[d.currency]
		newBalance := fund.Available.Sub(d.amount)
		if err := s.treasuryRepo.UpdateFundBalanceInTx(ctx, tx, d.currency, newBalance, payerID, now); err != nil {
			return err
		}

		movement := domain.FundMovement{
			MovementID:  uuid.NewString(),
			Type:        domain.MovementOut,
			Amount:      d.amount,
			Currency:    d.currency,
			Description: "Settlement of requisition " + requisition.Number,
			CreatedAt:   now,
			CreatedBy:   payerID,
		}
		if err := s.treasuryRepo.InsertFundMovementInTx(ctx, tx, movement); err != nil {
			return err
		}
	}

	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		RequisitionID: requisition.RequisitionID,
		AmountUSD:     requisition.AmountUSD,
		AmountCDF:     requisition.AmountCDF,
		Comment:       comment,
		PaidBy:        payerID,
		CreatedAt:     now,
	}
	inserted, err := s.treasuryRepo.InsertPaymentInTx(ctx, tx, payment)
	if err != nil {
		return err
	}
	if !inserted {
		// The row lock above makes this unreachable in practice; abort so the
		// debits roll back rather than double-charging the funds.
		return fmt.Errorf("%w: payment already exists for requisition %s", apperrors.ErrDuplicate, requisition.RequisitionID)
	}

	logger.Info("Requisition settled",
		slog.String("requisition_id", requisition.RequisitionID),
		slog.String("number", requisition.Number),
	)
	return nil
}

// GetPayment returns the payment recorded for a requisition.
func (s *treasuryService) GetPayment(ctx context.Context, requisitionID string) (*domain.Payment, error) {
	return s.treasuryRepo.FindPaymentByRequisitionID(ctx, requisitionID)
}
