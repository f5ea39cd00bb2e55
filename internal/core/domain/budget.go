package domain

import "github.com/shopspring/decimal"

// BudgetLine is a monthly spending allocation, keyed by (Description, Month).
// Consumed is monotonic: ledger commits only ever increase it.
type BudgetLine struct {
	BudgetLineID   string          `json:"budgetLineID"`
	Description    string          `json:"description"` // Join key with LineItem.Description
	Month          string          `json:"month"`       // "2006-01" format
	Allocated      decimal.Decimal `json:"allocated"`
	Consumed       decimal.Decimal `json:"consumed"`
	Classification string          `json:"classification"`
	AuditFields
}

// Remaining returns the budget still available on the line.
func (b BudgetLine) Remaining() decimal.Decimal {
	return b.Allocated.Sub(b.Consumed)
}

// BudgetCheckResult is the outcome of a remaining-budget check. A missing
// line is reported distinctly from an over-budget amount so callers can warn
// instead of hard-blocking.
type BudgetCheckResult struct {
	Allowed   bool            `json:"allowed"`
	Remaining decimal.Decimal `json:"remaining"`
	Reason    string          `json:"reason,omitempty"`
}
