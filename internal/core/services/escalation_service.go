package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
)

// escalationExcludedStatuses are the lifecycle states a stalled requisition
// is never force-advanced from. Draft and needs-correction sit with the
// issuer; the rest are settled or terminal.
var escalationExcludedStatuses = []domain.Status{
	domain.StatusDraft,
	domain.StatusNeedsCorrection,
	domain.StatusPaid,
	domain.StatusDone,
	domain.StatusCancelled,
	domain.StatusValidated,
}

// EscalationScheduler periodically force-approves requisitions stalled past
// their level's configured delay. The payment level is never swept: money
// movement is never automatic.
type EscalationScheduler struct {
	settingRepo     portsrepo.WorkflowSettingRepositoryFacade
	requisitionRepo portsrepo.RequisitionRepositoryWithTx
	workflowSvc     portssvc.WorkflowSvcFacade
	interval        time.Duration
	logger          *slog.Logger
	stop            chan struct{}
	done            chan struct{}
}

// NewEscalationScheduler creates a scheduler sweeping at the given interval.
func NewEscalationScheduler(
	settingRepo portsrepo.WorkflowSettingRepositoryFacade,
	requisitionRepo portsrepo.RequisitionRepositoryWithTx,
	workflowSvc portssvc.WorkflowSvcFacade,
	interval time.Duration,
	logger *slog.Logger,
) *EscalationScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &EscalationScheduler{
		settingRepo:     settingRepo,
		requisitionRepo: requisitionRepo,
		workflowSvc:     workflowSvc,
		interval:        interval,
		logger:          logger,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately; the loop runs until
// Stop is called or ctx is cancelled.
func (s *EscalationScheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("Escalation scheduler started", slog.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
func (s *EscalationScheduler) Stop() {
	close(s.stop)
	<-s.done
	s.logger.Info("Escalation scheduler stopped")
}

// Sweep runs one escalation pass. Safe to invoke concurrently with the loop:
// per-requisition atomicity inside Apply makes overlapping sweeps harmless,
// the loser of a concurrent application just logs a stale-state error.
func (s *EscalationScheduler) Sweep(ctx context.Context) {
	settings, err := s.settingRepo.ListWorkflowSettings(ctx)
	if err != nil {
		s.logger.Error("Escalation sweep failed to load settings", slog.String("error", err.Error()))
		return
	}

	now := time.Now().UTC()
	for _, setting := range settings {
		if setting.DelayMinutes <= 0 {
			continue
		}
		if setting.Level == domain.LevelPayment {
			// Hard exclusion, regardless of configuration.
			continue
		}

		cutoff := now.Add(-time.Duration(setting.DelayMinutes) * time.Minute)
		stalled, err := s.requisitionRepo.ListStalledRequisitions(ctx, setting.Level, cutoff, escalationExcludedStatuses)
		if err != nil {
			s.logger.Error("Escalation sweep failed to list stalled requisitions",
				slog.String("level", string(setting.Level)),
				slog.String("error", err.Error()),
			)
			continue
		}

		for _, req := range stalled {
			_, err := s.workflowSvc.Apply(ctx, req.RequisitionID, domain.ActionApprove, domain.RoleForLevel(setting.Level), SystemActorID, "auto-escalated", portssvc.ApplyOptions{Auto: true})
			if err != nil {
				s.logger.Error("Auto-escalation failed",
					slog.String("requisition_id", req.RequisitionID),
					slog.String("level", string(setting.Level)),
					slog.String("error", err.Error()),
				)
				continue
			}
			s.logger.Info("Requisition auto-escalated",
				slog.String("requisition_id", req.RequisitionID),
				slog.String("number", req.Number),
				slog.String("from_level", string(setting.Level)),
			)
		}
	}
}
