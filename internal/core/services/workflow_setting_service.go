package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
)

// configurableLevels are the levels accepting an escalation delay. The
// payment level is absent on purpose: it never auto-escalates.
var configurableLevels = map[domain.Level]bool{
	domain.LevelIssuer:             true,
	domain.LevelServiceApproval:    true,
	domain.LevelAnalyst:            true,
	domain.LevelChallenger:         true,
	domain.LevelFinanceGM:          true,
	domain.LevelBordereauAlignment: true,
}

type workflowSettingService struct {
	settingRepo portsrepo.WorkflowSettingRepositoryFacade
}

// NewWorkflowSettingService creates a new WorkflowSettingService.
func NewWorkflowSettingService(settingRepo portsrepo.WorkflowSettingRepositoryFacade) portssvc.WorkflowSettingSvcFacade {
	return &workflowSettingService{settingRepo: settingRepo}
}

var _ portssvc.WorkflowSettingSvcFacade = (*workflowSettingService)(nil)

func (s *workflowSettingService) ListSettings(ctx context.Context) ([]domain.WorkflowSetting, error) {
	return s.settingRepo.ListWorkflowSettings(ctx)
}

func (s *workflowSettingService) UpsertSetting(ctx context.Context, setting domain.WorkflowSetting, userID string) error {
	if !configurableLevels[setting.Level] {
		return fmt.Errorf("%w: level %q does not accept an escalation delay", apperrors.ErrValidation, setting.Level)
	}
	if setting.DelayMinutes < 0 {
		return fmt.Errorf("%w: delay must be zero or positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	setting.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	return s.settingRepo.UpsertWorkflowSetting(ctx, setting)
}
