package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/ASOFES/R-quisitions-sub001/internal/middleware"
	"github.com/jackc/pgx/v5"
)

// SystemActorID identifies transitions applied by the escalation scheduler
// rather than a human actor.
const SystemActorID = "system"

// transition is one routing table entry: the destination of an approve from
// a given level.
type transition struct {
	toLevel  domain.Level
	toStatus domain.Status
}

// approveRouting is the fixed pipeline order for plain approvals. Guard
// clauses in decide() may override the issuer entry; levels absent from the
// table reject the action as unsupported.
var approveRouting = map[domain.Level]transition{
	domain.LevelIssuer:             {toLevel: domain.LevelAnalyst, toStatus: domain.StatusInReview},
	domain.LevelServiceApproval:    {toLevel: domain.LevelAnalyst, toStatus: domain.StatusInReview},
	domain.LevelAnalyst:            {toLevel: domain.LevelChallenger, toStatus: domain.StatusInReview},
	domain.LevelChallenger:         {toLevel: domain.LevelFinanceGM, toStatus: domain.StatusInReview},
	domain.LevelFinanceGM:          {toLevel: domain.LevelBordereauAlignment, toStatus: domain.StatusValidated},
	domain.LevelBordereauAlignment: {toLevel: domain.LevelPayment, toStatus: domain.StatusValidated},
	domain.LevelPayment:            {toLevel: domain.LevelDone, toStatus: domain.StatusPaid},
}

// workflowService is the transition engine: the only code path mutating a
// requisition's (level, status) pair. One Apply call is one database
// transaction covering the state write, the ledger postings and the audit
// record.
type workflowService struct {
	requisitionRepo portsrepo.RequisitionRepositoryWithTx
	orgServiceRepo  portsrepo.OrgServiceRepositoryFacade
	budgetSvc       portssvc.BudgetSvcFacade
	treasurySvc     portssvc.TreasurySvcFacade
	auditSvc        portssvc.AuditSvcFacade
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(
	requisitionRepo portsrepo.RequisitionRepositoryWithTx,
	orgServiceRepo portsrepo.OrgServiceRepositoryFacade,
	budgetSvc portssvc.BudgetSvcFacade,
	treasurySvc portssvc.TreasurySvcFacade,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.WorkflowSvcFacade {
	return &workflowService{
		requisitionRepo: requisitionRepo,
		orgServiceRepo:  orgServiceRepo,
		budgetSvc:       budgetSvc,
		treasurySvc:     treasurySvc,
		auditSvc:        auditSvc,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// decide computes the destination (level, status) for an action, applying the
// ordered guard clauses before the routing table. It mutates only the guard
// bookkeeping fields of req (ReturnLevel); level and status writes happen in
// Apply once the whole transition is known to succeed.
func (s *workflowService) decide(ctx context.Context, req *domain.Requisition, action domain.Action, actorRole domain.Role) (transition, error) {
	switch action {
	case domain.ActionReject:
		if req.Level == domain.LevelIssuer {
			// Rejecting one's own draft is a cancellation.
			return transition{toLevel: domain.LevelDone, toStatus: domain.StatusCancelled}, nil
		}
		// A rejection by an approver sends the requisition back to its
		// issuer for correction, remembering where to resume.
		rl := req.Level
		req.ReturnLevel = &rl
		return transition{toLevel: domain.LevelIssuer, toStatus: domain.StatusNeedsCorrection}, nil

	case domain.ActionRequestChanges:
		if req.Level == domain.LevelIssuer {
			return transition{}, fmt.Errorf("%w: issuer cannot request changes on own requisition", apperrors.ErrUnsupportedTransition)
		}
		rl := req.Level
		req.ReturnLevel = &rl
		return transition{toLevel: domain.LevelIssuer, toStatus: domain.StatusNeedsCorrection}, nil

	case domain.ActionApprove:
		if req.Level == domain.LevelIssuer {
			// Post-correction resubmission resumes where the rejection
			// happened. Takes precedence over every other issuer rule.
			if req.ReturnLevel != nil {
				to := *req.ReturnLevel
				req.ReturnLevel = nil
				return transition{toLevel: to, toStatus: domain.StatusInReview}, nil
			}
			// An analyst submitting their own requisition skips the analyst
			// review it would otherwise land on.
			if actorRole == domain.RoleAnalyst {
				return transition{toLevel: domain.LevelChallenger, toStatus: domain.StatusInReview}, nil
			}
			// Delegation: a service with a designated supervisor distinct
			// from the issuer inserts the service-approval step.
			orgService, err := s.orgServiceRepo.FindServiceByID(ctx, req.ServiceID)
			if err != nil {
				return transition{}, fmt.Errorf("failed to resolve issuer service: %w", err)
			}
			if orgService.SupervisorID != "" && orgService.SupervisorID != req.IssuerID {
				return transition{toLevel: domain.LevelServiceApproval, toStatus: domain.StatusInReview}, nil
			}
		}

		entry, ok := approveRouting[req.Level]
		if !ok {
			return transition{}, fmt.Errorf("%w: no route for approve at level %s", apperrors.ErrUnsupportedTransition, req.Level)
		}
		return entry, nil

	default:
		return transition{}, fmt.Errorf("%w: unknown action %q", apperrors.ErrUnsupportedTransition, action)
	}
}

// Apply advances (or bounces) a requisition. The read, the decision, the
// level/status write, any ledger postings and the audit record all commit or
// roll back together.
func (s *workflowService) Apply(ctx context.Context, requisitionID string, action domain.Action, actorRole domain.Role, actorID, comment string, opts portssvc.ApplyOptions) (*portssvc.TransitionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var result *portssvc.TransitionResult
	err := s.requisitionRepo.WithTx(ctx, func(tx pgx.Tx) error {
		req, err := s.requisitionRepo.FindRequisitionForUpdate(ctx, tx, requisitionID)
		if err != nil {
			return err
		}

		if req.Status.IsTerminal() {
			return fmt.Errorf("%w: requisition %s is %s", apperrors.ErrInvalidState, req.Number, req.Status)
		}

		fromLevel := req.Level
		expectedVersion := req.Version

		dest, err := s.decide(ctx, req, action, actorRole)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		month := req.CreatedAt.Format("2006-01")

		// Side effects tied to the level being left.
		if action == domain.ActionApprove {
			switch fromLevel {
			case domain.LevelFinanceGM:
				// The one hard-blocking budget point: over-allocation here
				// aborts the approval.
				if !req.BudgetImpacted {
					items, err := s.requisitionRepo.FindLineItemsInTx(ctx, tx, req.RequisitionID)
					if err != nil {
						return err
					}
					for _, item := range items {
						if err := s.budgetSvc.CommitLineItemInTx(ctx, tx, item, month, actorID, true); err != nil {
							return err
						}
					}
					req.BudgetImpacted = true
				}

			case domain.LevelBordereauAlignment:
				if opts.PaymentMode != "" {
					req.PaymentMode = opts.PaymentMode
				}

			case domain.LevelPayment:
				if err := s.treasurySvc.SettleInTx(ctx, tx, req, actorID, comment); err != nil {
					return err
				}
				// A requisition that reached payment without touching the
				// budget still has to consume it. Lenient: a missing line is
				// skipped, not blocking the payment.
				if !req.BudgetImpacted {
					items, err := s.requisitionRepo.FindLineItemsInTx(ctx, tx, req.RequisitionID)
					if err != nil {
						return err
					}
					for _, item := range items {
						if err := s.budgetSvc.CommitLineItemInTx(ctx, tx, item, month, actorID, false); err != nil {
							return err
						}
					}
					req.BudgetImpacted = true
				}
			}
		}

		req.Level = dest.toLevel
		req.Status = dest.toStatus
		req.LastUpdatedAt = now
		req.LastUpdatedBy = actorID

		if err := s.requisitionRepo.UpdateTransitionInTx(ctx, tx, *req, expectedVersion); err != nil {
			return err
		}

		if err := s.auditSvc.AppendInTx(ctx, tx, req.RequisitionID, actorID, action, fromLevel, dest.toLevel, comment); err != nil {
			return err
		}

		result = &portssvc.TransitionResult{FromLevel: fromLevel, ToLevel: dest.toLevel}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Workflow action applied",
		slog.String("requisition_id", requisitionID),
		slog.String("action", string(action)),
		slog.String("from_level", string(result.FromLevel)),
		slog.String("to_level", string(result.ToLevel)),
		slog.Bool("auto", opts.Auto),
	)
	return result, nil
}
