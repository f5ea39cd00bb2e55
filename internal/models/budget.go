package models

import "github.com/shopspring/decimal"

// BudgetLine mirrors the budget_lines table. Unique on (description, month).
type BudgetLine struct {
	BudgetLineID   string          `json:"budgetLineID"`
	Description    string          `json:"description"`
	Month          string          `json:"month"` // "2006-01"
	Allocated      decimal.Decimal `json:"allocated"`
	Consumed       decimal.Decimal `json:"consumed"`
	Classification string          `json:"classification"`
	AuditFields
}
