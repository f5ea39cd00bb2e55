package services

import (
	"context"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
)

// ApplyOptions carries the optional modifiers of a workflow action.
type ApplyOptions struct {
	// Auto marks an application issued by the escalation scheduler rather
	// than a human actor.
	Auto bool

	// PaymentMode, when supplied at the bordereau-alignment level, is
	// persisted on the requisition before it proceeds to payment.
	PaymentMode string
}

// TransitionResult reports the levels a successful application moved between.
type TransitionResult struct {
	FromLevel domain.Level `json:"fromLevel"`
	ToLevel   domain.Level `json:"toLevel"`
}

// WorkflowSvcFacade is the transition engine: the only mutator of a
// requisition's (level, status) pair.
type WorkflowSvcFacade interface {
	// Apply advances (or bounces) a requisition according to the routing
	// table and guard clauses. Every successful call appends exactly one
	// action record; every failure leaves the store untouched.
	Apply(ctx context.Context, requisitionID string, action domain.Action, actorRole domain.Role, actorID, comment string, opts ApplyOptions) (*TransitionResult, error)
}

// WorkflowSettingSvcFacade manages per-level escalation delay configuration.
type WorkflowSettingSvcFacade interface {
	ListSettings(ctx context.Context) ([]domain.WorkflowSetting, error)
	UpsertSetting(ctx context.Context, setting domain.WorkflowSetting, userID string) error
}
