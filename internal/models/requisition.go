package models

import "github.com/shopspring/decimal"

// Requisition mirrors the requisitions table.
type Requisition struct {
	RequisitionID  string           `json:"requisitionID"` // Primary Key (UUID)
	Number         string           `json:"number"`        // Unique business number
	AmountUSD      *decimal.Decimal `json:"amountUSD"`     // Nullable
	AmountCDF      *decimal.Decimal `json:"amountCDF"`     // Nullable
	Level          string           `json:"level"`
	Status         string           `json:"status"`
	IssuerID       string           `json:"issuerID"`
	ServiceID      string           `json:"serviceID"`
	ReturnLevel    *string          `json:"returnLevel"` // Nullable
	BudgetImpacted bool             `json:"budgetImpacted"`
	PaymentMode    *string          `json:"paymentMode"` // Nullable
	Version        int64            `json:"version"`
	AuditFields
}

// LineItem mirrors the line_items table.
type LineItem struct {
	LineItemID    string          `json:"lineItemID"`
	RequisitionID string          `json:"requisitionID"` // FK -> Requisition
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
}
