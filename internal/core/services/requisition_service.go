package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/ASOFES/R-quisitions-sub001/internal/dto"
	"github.com/ASOFES/R-quisitions-sub001/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// requisitionService handles requisition intake and reads. Everything past
// draft editing belongs to the workflow engine.
type requisitionService struct {
	requisitionRepo portsrepo.RequisitionRepositoryWithTx
	orgServiceRepo  portsrepo.OrgServiceRepositoryFacade
}

// NewRequisitionService creates a new RequisitionService.
func NewRequisitionService(requisitionRepo portsrepo.RequisitionRepositoryWithTx, orgServiceRepo portsrepo.OrgServiceRepositoryFacade) portssvc.RequisitionSvcFacade {
	return &requisitionService{
		requisitionRepo: requisitionRepo,
		orgServiceRepo:  orgServiceRepo,
	}
}

var _ portssvc.RequisitionSvcFacade = (*requisitionService)(nil)

// newRequisitionNumber builds the human-facing business number, e.g.
// REQ-202601-1a2b3c. Uniqueness comes from the UUID fragment; the month
// segment exists for people, not the database.
func newRequisitionNumber(now time.Time) string {
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("REQ-%s-%s", now.Format("200601"), fragment)
}

// buildLineItems converts request lines to domain lines, computing totals.
func buildLineItems(requisitionID string, lines []dto.LineItemRequest) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, len(lines))
	for i, line := range lines {
		if line.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: unit price must be positive for line %q", apperrors.ErrValidation, line.Description)
		}
		items[i] = domain.LineItem{
			LineItemID:    uuid.NewString(),
			RequisitionID: requisitionID,
			Description:   line.Description,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			Total:         line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Currency:      line.Currency,
		}
	}
	return items, nil
}

// sumByCurrency aggregates line totals into the two per-currency amount
// fields; a currency without lines stays nil.
func sumByCurrency(items []domain.LineItem) (amountUSD, amountCDF *decimal.Decimal) {
	for _, item := range items {
		switch item.Currency {
		case domain.CurrencyUSD:
			if amountUSD == nil {
				zero := decimal.Zero
				amountUSD = &zero
			}
			sum := amountUSD.Add(item.Total)
			amountUSD = &sum
		case domain.CurrencyCDF:
			if amountCDF == nil {
				zero := decimal.Zero
				amountCDF = &zero
			}
			sum := amountCDF.Add(item.Total)
			amountCDF = &sum
		}
	}
	return amountUSD, amountCDF
}

// CreateRequisition persists a draft requisition with its line items.
func (s *requisitionService) CreateRequisition(ctx context.Context, req dto.CreateRequisitionRequest, issuerID string) (*domain.Requisition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The service must exist before a requisition can point at it.
	if _, err := s.orgServiceRepo.FindServiceByID(ctx, req.ServiceID); err != nil {
		return nil, fmt.Errorf("failed to resolve service %s: %w", req.ServiceID, err)
	}

	now := time.Now().UTC()
	requisitionID := uuid.NewString()

	items, err := buildLineItems(requisitionID, req.LineItems)
	if err != nil {
		return nil, err
	}
	amountUSD, amountCDF := sumByCurrency(items)

	requisition := domain.Requisition{
		RequisitionID: requisitionID,
		Number:        newRequisitionNumber(now),
		AmountUSD:     amountUSD,
		AmountCDF:     amountCDF,
		Level:         domain.LevelIssuer,
		Status:        domain.StatusDraft,
		IssuerID:      issuerID,
		ServiceID:     req.ServiceID,
		Version:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     issuerID,
			LastUpdatedAt: now,
			LastUpdatedBy: issuerID,
		},
	}

	if err := s.requisitionRepo.SaveRequisition(ctx, requisition, items); err != nil {
		logger.Error("Failed to save requisition", slog.String("error", err.Error()))
		return nil, err
	}

	requisition.LineItems = items
	logger.Info("Requisition created",
		slog.String("requisition_id", requisitionID),
		slog.String("number", requisition.Number),
	)
	return &requisition, nil
}

// GetRequisition retrieves a requisition with its line items.
func (s *requisitionService) GetRequisition(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	items, err := s.requisitionRepo.FindLineItems(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	requisition.LineItems = items
	return requisition, nil
}

// ReplaceLineItems swaps the full line-item set while the requisition is
// still with its issuer. Amount totals are recomputed from the new lines.
func (s *requisitionService) ReplaceLineItems(ctx context.Context, requisitionID string, req dto.ReplaceLineItemsRequest, userID string) ([]domain.LineItem, error) {
	var items []domain.LineItem
	err := s.requisitionRepo.WithTx(ctx, func(tx pgx.Tx) error {
		requisition, err := s.requisitionRepo.FindRequisitionForUpdate(ctx, tx, requisitionID)
		if err != nil {
			return err
		}
		if requisition.Level != domain.LevelIssuer {
			return fmt.Errorf("%w: line items are editable only while the requisition is with its issuer", apperrors.ErrInvalidState)
		}

		items, err = buildLineItems(requisitionID, req.LineItems)
		if err != nil {
			return err
		}

		if err := s.requisitionRepo.ReplaceLineItemsInTx(ctx, tx, requisitionID, items); err != nil {
			return err
		}

		amountUSD, amountCDF := sumByCurrency(items)
		return s.requisitionRepo.UpdateAmountsInTx(ctx, tx, requisitionID, amountUSD, amountCDF, userID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
