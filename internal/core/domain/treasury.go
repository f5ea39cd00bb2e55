package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund is the treasury balance for one currency. Available must never be
// debited below zero.
type Fund struct {
	Currency  string          `json:"currency"` // Primary Key
	Available decimal.Decimal `json:"available"`
	AuditFields
}

// MovementType indicates the direction of a fund movement.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// FundMovement is one append-only treasury ledger entry.
type FundMovement struct {
	MovementID  string          `json:"movementID"`
	Type        MovementType    `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// Payment records the settlement of one requisition. At most one row exists
// per requisition for its whole lifetime.
type Payment struct {
	PaymentID     string           `json:"paymentID"`
	RequisitionID string           `json:"requisitionID"` // Unique
	AmountUSD     *decimal.Decimal `json:"amountUSD"`
	AmountCDF     *decimal.Decimal `json:"amountCDF"`
	Comment       string           `json:"comment"`
	PaidBy        string           `json:"paidBy"`
	CreatedAt     time.Time        `json:"createdAt"`
}
