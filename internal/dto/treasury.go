package dto

import (
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RavitaillementRequest replenishes one treasury fund.
type RavitaillementRequest struct {
	Currency    string          `json:"currency" binding:"required,oneof=USD CDF"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// FundResponse is the API representation of a fund balance.
type FundResponse struct {
	Currency  string          `json:"currency"`
	Available decimal.Decimal `json:"available"`
}

// ToFundResponses maps domain funds to their API form.
func ToFundResponses(funds []domain.Fund) []FundResponse {
	out := make([]FundResponse, len(funds))
	for i, f := range funds {
		out[i] = FundResponse{Currency: f.Currency, Available: f.Available}
	}
	return out
}

// FundMovementResponse is the API representation of one treasury movement.
type FundMovementResponse struct {
	MovementID  string          `json:"movementID"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToFundMovementResponses maps domain movements to their API form.
func ToFundMovementResponses(movements []domain.FundMovement) []FundMovementResponse {
	out := make([]FundMovementResponse, len(movements))
	for i, m := range movements {
		out[i] = FundMovementResponse{
			MovementID:  m.MovementID,
			Type:        string(m.Type),
			Amount:      m.Amount,
			Currency:    m.Currency,
			Description: m.Description,
			CreatedAt:   m.CreatedAt,
		}
	}
	return out
}

// PaymentResponse is the API representation of a settlement receipt.
type PaymentResponse struct {
	PaymentID     string           `json:"paymentID"`
	RequisitionID string           `json:"requisitionID"`
	AmountUSD     *decimal.Decimal `json:"amountUSD,omitempty"`
	AmountCDF     *decimal.Decimal `json:"amountCDF,omitempty"`
	Comment       string           `json:"comment,omitempty"`
	PaidBy        string           `json:"paidBy"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ToPaymentResponse maps a domain payment to its API form.
func ToPaymentResponse(d *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     d.PaymentID,
		RequisitionID: d.RequisitionID,
		AmountUSD:     d.AmountUSD,
		AmountCDF:     d.AmountCDF,
		Comment:       d.Comment,
		PaidBy:        d.PaidBy,
		CreatedAt:     d.CreatedAt,
	}
}
