package dto

import (
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetLineRequest registers a monthly allocation.
type CreateBudgetLineRequest struct {
	Description    string          `json:"description" binding:"required"`
	Month          string          `json:"month" binding:"required,len=7"` // "2006-01"
	Allocated      decimal.Decimal `json:"allocated" binding:"required"`
	Classification string          `json:"classification"`
}

// BudgetCheckRequest asks whether an amount fits a budget line.
type BudgetCheckRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required,oneof=USD CDF"`
	Month       string          `json:"month" binding:"required,len=7"`
}

// BudgetLineResponse is the API representation of a budget line.
type BudgetLineResponse struct {
	BudgetLineID   string          `json:"budgetLineID"`
	Description    string          `json:"description"`
	Month          string          `json:"month"`
	Allocated      decimal.Decimal `json:"allocated"`
	Consumed       decimal.Decimal `json:"consumed"`
	Remaining      decimal.Decimal `json:"remaining"`
	Classification string          `json:"classification,omitempty"`
}

// ToBudgetLineResponse maps a domain budget line to its API form.
func ToBudgetLineResponse(d domain.BudgetLine) BudgetLineResponse {
	return BudgetLineResponse{
		BudgetLineID:   d.BudgetLineID,
		Description:    d.Description,
		Month:          d.Month,
		Allocated:      d.Allocated,
		Consumed:       d.Consumed,
		Remaining:      d.Remaining(),
		Classification: d.Classification,
	}
}
