package services

import (
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The workflow engine composes the ledgers and the
// audit trail, so those are built first.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Audit = NewAuditService(repos.ActionRepo)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.RequisitionRepo, repos.AppSettingRepo)
	container.Treasury = NewTreasuryService(repos.TreasuryRepo)

	container.Workflow = NewWorkflowService(
		repos.RequisitionRepo,
		repos.OrgServiceRepo,
		container.Budget,
		container.Treasury,
		container.Audit,
	)

	container.Requisition = NewRequisitionService(repos.RequisitionRepo, repos.OrgServiceRepo)
	container.WorkflowSetting = NewWorkflowSettingService(repos.SettingRepo)

	return container
}
