package domain

import "github.com/shopspring/decimal"

// Level identifies the current step of the approval pipeline. It is distinct
// from Status: Level says who must act next, Status says where the
// requisition is in its coarse lifecycle.
type Level string

const (
	LevelIssuer             Level = "ISSUER"
	LevelServiceApproval    Level = "SERVICE_APPROVAL"
	LevelAnalyst            Level = "ANALYST"
	LevelChallenger         Level = "CHALLENGER"
	LevelFinanceGM          Level = "FINANCE_GM"
	LevelBordereauAlignment Level = "BORDEREAU_ALIGNMENT"
	LevelPayment            Level = "PAYMENT"
	LevelDone               Level = "DONE" // terminal marker, nobody acts here
)

// Status is the coarse lifecycle flag of a requisition.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusInReview        Status = "IN_REVIEW"
	StatusNeedsCorrection Status = "NEEDS_CORRECTION"
	StatusValidated       Status = "VALIDATED"
	StatusPaid            Status = "PAID"
	StatusRejected        Status = "REJECTED"
	StatusCancelled       Status = "CANCELLED"
	StatusDone            Status = "DONE"
)

// Action is a workflow action an actor can apply to a requisition.
type Action string

const (
	ActionApprove        Action = "APPROVE"
	ActionRequestChanges Action = "REQUEST_CHANGES"
	ActionReject         Action = "REJECT"
)

// Role identifies the capacity in which an actor applies an action.
type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleSupervisor Role = "SUPERVISOR"
	RoleAnalyst    Role = "ANALYST"
	RoleChallenger Role = "CHALLENGER"
	RoleFinanceGM  Role = "FINANCE_GM"
	RoleBordereau  Role = "BORDEREAU"
	RoleAccountant Role = "ACCOUNTANT" // acts at LevelPayment
	RoleSystem     Role = "SYSTEM"     // escalation scheduler
)

// RoleForLevel returns the canonical role acting at a pipeline level.
// The accountant role acts at the payment level; there is no separate
// accountant level.
func RoleForLevel(level Level) Role {
	switch level {
	case LevelIssuer:
		return RoleEmployee
	case LevelServiceApproval:
		return RoleSupervisor
	case LevelAnalyst:
		return RoleAnalyst
	case LevelChallenger:
		return RoleChallenger
	case LevelFinanceGM:
		return RoleFinanceGM
	case LevelBordereauAlignment:
		return RoleBordereau
	case LevelPayment:
		return RoleAccountant
	default:
		return RoleSystem
	}
}

// IsTerminal reports whether the requisition can no longer accept actions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusRejected, StatusCancelled, StatusDone:
		return true
	}
	return false
}

// Requisition is a purchase/expense request moving through the approval
// pipeline. It has exactly one (Level, Status) pair at any instant, mutated
// only by the workflow engine.
type Requisition struct {
	RequisitionID  string           `json:"requisitionID"` // Primary Key (UUID)
	Number         string           `json:"number"`        // Business number, e.g. REQ-202501-000042
	AmountUSD      *decimal.Decimal `json:"amountUSD"`     // Nullable
	AmountCDF      *decimal.Decimal `json:"amountCDF"`     // Nullable
	Level          Level            `json:"level"`
	Status         Status           `json:"status"`
	IssuerID       string           `json:"issuerID"`
	ServiceID      string           `json:"serviceID"`
	ReturnLevel    *Level           `json:"returnLevel"` // Resume point after correction
	BudgetImpacted bool             `json:"budgetImpacted"`
	PaymentMode    string           `json:"paymentMode"` // Empty until bordereau alignment
	Version        int64            `json:"version"`     // Optimistic concurrency guard
	LineItems      []LineItem       `json:"lineItems,omitempty"`
	AuditFields
}

// LineItem is a single purchase line owned by one requisition. Description
// doubles as the budget-line join key.
type LineItem struct {
	LineItemID    string          `json:"lineItemID"`
	RequisitionID string          `json:"requisitionID"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Total         decimal.Decimal `json:"total"` // Quantity * UnitPrice
	Currency      string          `json:"currency"`
}
