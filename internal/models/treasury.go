package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund mirrors the funds table. One row per currency.
type Fund struct {
	Currency  string          `json:"currency"`
	Available decimal.Decimal `json:"available"`
	AuditFields
}

// FundMovement mirrors the append-only fund_movements table.
type FundMovement struct {
	MovementID  string          `json:"movementID"`
	Type        string          `json:"type"` // IN or OUT
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// Payment mirrors the payments table. Unique on requisition_id.
type Payment struct {
	PaymentID     string           `json:"paymentID"`
	RequisitionID string           `json:"requisitionID"`
	AmountUSD     *decimal.Decimal `json:"amountUSD"`
	AmountCDF     *decimal.Decimal `json:"amountCDF"`
	Comment       string           `json:"comment"`
	PaidBy        string           `json:"paidBy"`
	CreatedAt     time.Time        `json:"createdAt"`
}
