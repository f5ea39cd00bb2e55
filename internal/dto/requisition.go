package dto

import (
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one purchase line in a create/replace payload.
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	Currency    string          `json:"currency" binding:"required,oneof=USD CDF"`
}

// CreateRequisitionRequest creates a draft requisition with its line items.
type CreateRequisitionRequest struct {
	ServiceID string            `json:"serviceID" binding:"required"`
	LineItems []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// ReplaceLineItemsRequest swaps the full line-item set of an editable requisition.
type ReplaceLineItemsRequest struct {
	LineItems []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// ApplyActionRequest applies one workflow action to a requisition.
type ApplyActionRequest struct {
	Action      string `json:"action" binding:"required,oneof=APPROVE REQUEST_CHANGES REJECT"`
	Comment     string `json:"comment"`
	PaymentMode string `json:"paymentMode"`
}

// ApplyActionResponse reports the transition that took place.
type ApplyActionResponse struct {
	FromLevel string `json:"fromLevel"`
	ToLevel   string `json:"toLevel"`
}

// LineItemResponse is the API representation of a line item.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
}

// RequisitionResponse is the API representation of a requisition.
type RequisitionResponse struct {
	RequisitionID  string             `json:"requisitionID"`
	Number         string             `json:"number"`
	AmountUSD      *decimal.Decimal   `json:"amountUSD,omitempty"`
	AmountCDF      *decimal.Decimal   `json:"amountCDF,omitempty"`
	Level          string             `json:"level"`
	Status         string             `json:"status"`
	IssuerID       string             `json:"issuerID"`
	ServiceID      string             `json:"serviceID"`
	ReturnLevel    *string            `json:"returnLevel,omitempty"`
	BudgetImpacted bool               `json:"budgetImpacted"`
	PaymentMode    string             `json:"paymentMode,omitempty"`
	LineItems      []LineItemResponse `json:"lineItems,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
}

// ToRequisitionResponse maps a domain requisition to its API form.
func ToRequisitionResponse(d *domain.Requisition) RequisitionResponse {
	resp := RequisitionResponse{
		RequisitionID:  d.RequisitionID,
		Number:         d.Number,
		AmountUSD:      d.AmountUSD,
		AmountCDF:      d.AmountCDF,
		Level:          string(d.Level),
		Status:         string(d.Status),
		IssuerID:       d.IssuerID,
		ServiceID:      d.ServiceID,
		BudgetImpacted: d.BudgetImpacted,
		PaymentMode:    d.PaymentMode,
		CreatedAt:      d.CreatedAt,
		LastUpdatedAt:  d.LastUpdatedAt,
	}
	if d.ReturnLevel != nil {
		rl := string(*d.ReturnLevel)
		resp.ReturnLevel = &rl
	}
	for _, item := range d.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			LineItemID:  item.LineItemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			Currency:    item.Currency,
		})
	}
	return resp
}

// ActionRecordResponse is the API representation of one audit entry.
type ActionRecordResponse struct {
	ActorID   string    `json:"actorID"`
	Action    string    `json:"action"`
	FromLevel string    `json:"fromLevel"`
	ToLevel   string    `json:"toLevel"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToActionRecordResponses maps domain audit entries to their API form.
func ToActionRecordResponses(records []domain.ActionRecord) []ActionRecordResponse {
	out := make([]ActionRecordResponse, len(records))
	for i, r := range records {
		out[i] = ActionRecordResponse{
			ActorID:   r.ActorID,
			Action:    string(r.Action),
			FromLevel: string(r.FromLevel),
			ToLevel:   string(r.ToLevel),
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}
