package services

import (
	"context"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/ASOFES/R-quisitions-sub001/internal/dto"
)

// RequisitionSvcFacade covers requisition intake and reads. All lifecycle
// mutations beyond line-item editing go through WorkflowSvcFacade.
type RequisitionSvcFacade interface {
	// CreateRequisition persists a draft requisition with its line items.
	CreateRequisition(ctx context.Context, req dto.CreateRequisitionRequest, issuerID string) (*domain.Requisition, error)

	// GetRequisition retrieves a requisition with its line items.
	GetRequisition(ctx context.Context, requisitionID string) (*domain.Requisition, error)

	// ReplaceLineItems swaps the full line-item set while the requisition is
	// still at an editable level.
	ReplaceLineItems(ctx context.Context, requisitionID string, req dto.ReplaceLineItemsRequest, userID string) ([]domain.LineItem, error)
}
