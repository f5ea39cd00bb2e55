package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type WorkflowServiceTestSuite struct {
	suite.Suite
	mockRequisitionRepo *MockRequisitionRepository
	mockOrgServiceRepo  *MockOrgServiceRepository
	mockBudgetSvc       *MockBudgetService
	mockTreasurySvc     *MockTreasuryService
	mockAuditSvc        *MockAuditService
	workflowService     portssvc.WorkflowSvcFacade
	ctx                 context.Context
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.mockRequisitionRepo = new(MockRequisitionRepository)
	suite.mockOrgServiceRepo = new(MockOrgServiceRepository)
	suite.mockBudgetSvc = new(MockBudgetService)
	suite.mockTreasurySvc = new(MockTreasuryService)
	suite.mockAuditSvc = new(MockAuditService)
	suite.workflowService = services.NewWorkflowService(
		suite.mockRequisitionRepo,
		suite.mockOrgServiceRepo,
		suite.mockBudgetSvc,
		suite.mockTreasurySvc,
		suite.mockAuditSvc,
	)
	suite.ctx = context.Background()
}

func (suite *WorkflowServiceTestSuite) requisitionAt(level domain.Level, status domain.Status) *domain.Requisition {
	return &domain.Requisition{
		RequisitionID: "req-1",
		Number:        "REQ-202501-abc123",
		Level:         level,
		Status:        status,
		IssuerID:      "user-issuer",
		ServiceID:     "svc-1",
		Version:       3,
	}
}

// expectTransitionWrite captures the requisition handed to UpdateTransitionInTx
// and wires the audit append, completing the happy path.
func (suite *WorkflowServiceTestSuite) expectTransitionWrite(captured *domain.Requisition) {
	suite.mockRequisitionRepo.On("UpdateTransitionInTx", suite.ctx, nil, mock.AnythingOfType("domain.Requisition"), int64(3)).
		Run(func(args mock.Arguments) {
			*captured = args.Get(2).(domain.Requisition)
		}).
		Return(nil).Once()
	suite.mockAuditSvc.On("AppendInTx", suite.ctx, nil, "req-1", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
}

func (suite *WorkflowServiceTestSuite) TestApply_ApproveAtAnalyst_RoutesToChallenger() {
	req := suite.requisitionAt(domain.LevelAnalyst, domain.StatusInReview)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleAnalyst, "user-analyst", "ok", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelAnalyst, result.FromLevel)
	assert.Equal(suite.T(), domain.LevelChallenger, result.ToLevel)
	assert.Equal(suite.T(), domain.LevelChallenger, written.Level)
	assert.Equal(suite.T(), domain.StatusInReview, written.Status)
	assert.Equal(suite.T(), "user-analyst", written.LastUpdatedBy)
	suite.mockRequisitionRepo.AssertExpectations(suite.T())
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestApply_TerminalStatus_InvalidState() {
	req := suite.requisitionAt(domain.LevelDone, domain.StatusPaid)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleAccountant, "user-acct", "", portssvc.ApplyOptions{})

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidState)
	assert.Nil(suite.T(), result)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "UpdateTransitionInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "AppendInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApply_UnknownAction_Unsupported() {
	req := suite.requisitionAt(domain.LevelAnalyst, domain.StatusInReview)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	_, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.Action("ESCALATE"), domain.RoleAnalyst, "user-analyst", "", portssvc.ApplyOptions{})

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnsupportedTransition)
}

func (suite *WorkflowServiceTestSuite) TestApply_RejectAtChallenger_SendsBackWithReturnLevel() {
	req := suite.requisitionAt(domain.LevelChallenger, domain.StatusInReview)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionReject, domain.RoleChallenger, "user-chal", "numbers off", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelIssuer, result.ToLevel)
	assert.Equal(suite.T(), domain.StatusNeedsCorrection, written.Status)
	require.NotNil(suite.T(), written.ReturnLevel)
	assert.Equal(suite.T(), domain.LevelChallenger, *written.ReturnLevel)
}

func (suite *WorkflowServiceTestSuite) TestApply_ResubmitAfterCorrection_ResumesAtReturnLevel() {
	req := suite.requisitionAt(domain.LevelIssuer, domain.StatusNeedsCorrection)
	rl := domain.LevelChallenger
	req.ReturnLevel = &rl
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleEmployee, "user-issuer", "fixed", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelChallenger, result.ToLevel)
	assert.Equal(suite.T(), domain.StatusInReview, written.Status)
	assert.Nil(suite.T(), written.ReturnLevel)
	// The resume point wins even when delegation would otherwise apply, so
	// the service lookup never happens.
	suite.mockOrgServiceRepo.AssertNotCalled(suite.T(), "FindServiceByID", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApply_IssuerIsAnalyst_SkipsAnalystReview() {
	req := suite.requisitionAt(domain.LevelIssuer, domain.StatusDraft)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleAnalyst, "user-issuer", "", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelChallenger, result.ToLevel)
	suite.mockOrgServiceRepo.AssertNotCalled(suite.T(), "FindServiceByID", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApply_SubmitWithDistinctSupervisor_RoutesToServiceApproval() {
	req := suite.requisitionAt(domain.LevelIssuer, domain.StatusDraft)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockOrgServiceRepo.On("FindServiceByID", suite.ctx, "svc-1").
		Return(&domain.OrgService{ServiceID: "svc-1", Name: "Logistics", SupervisorID: "user-super"}, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleEmployee, "user-issuer", "", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelServiceApproval, result.ToLevel)
	assert.Equal(suite.T(), domain.StatusInReview, written.Status)
}

func (suite *WorkflowServiceTestSuite) TestApply_SubmitSupervisorIsIssuer_SkipsServiceApproval() {
	req := suite.requisitionAt(domain.LevelIssuer, domain.StatusDraft)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockOrgServiceRepo.On("FindServiceByID", suite.ctx, "svc-1").
		Return(&domain.OrgService{ServiceID: "svc-1", Name: "Logistics", SupervisorID: "user-issuer"}, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleEmployee, "user-issuer", "", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelAnalyst, result.ToLevel)
}

func (suite *WorkflowServiceTestSuite) TestApply_IssuerRejectsOwnDraft_Cancelled() {
	req := suite.requisitionAt(domain.LevelIssuer, domain.StatusDraft)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionReject, domain.RoleEmployee, "user-issuer", "no longer needed", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelDone, result.ToLevel)
	assert.Equal(suite.T(), domain.StatusCancelled, written.Status)
}

func (suite *WorkflowServiceTestSuite) TestApply_IssuerRequestChanges_Unsupported() {
	req := suite.requisitionAt(domain.LevelIssuer, domain.StatusDraft)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	_, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionRequestChanges, domain.RoleEmployee, "user-issuer", "", portssvc.ApplyOptions{})

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnsupportedTransition)
}

func (suite *WorkflowServiceTestSuite) TestApply_ApproveAtFinanceGM_CommitsBudgetOnce() {
	req := suite.requisitionAt(domain.LevelFinanceGM, domain.StatusInReview)
	items := []domain.LineItem{
		{LineItemID: "li-1", RequisitionID: "req-1", Description: "Fuel", Quantity: 10, UnitPrice: decimal.NewFromInt(5), Total: decimal.NewFromInt(50), Currency: domain.CurrencyUSD},
		{LineItemID: "li-2", RequisitionID: "req-1", Description: "Tires", Quantity: 2, UnitPrice: decimal.NewFromInt(120), Total: decimal.NewFromInt(240), Currency: domain.CurrencyUSD},
	}
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockRequisitionRepo.On("FindLineItemsInTx", suite.ctx, nil, "req-1").Return(items, nil).Once()
	month := req.CreatedAt.Format("2006-01")
	suite.mockBudgetSvc.On("CommitLineItemInTx", suite.ctx, nil, items[0], month, "user-gm", true).Return(nil).Once()
	suite.mockBudgetSvc.On("CommitLineItemInTx", suite.ctx, nil, items[1], month, "user-gm", true).Return(nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleFinanceGM, "user-gm", "validated", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelBordereauAlignment, result.ToLevel)
	assert.Equal(suite.T(), domain.StatusValidated, written.Status)
	assert.True(suite.T(), written.BudgetImpacted)
	suite.mockBudgetSvc.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestApply_ApproveAtFinanceGM_AlreadyImpacted_SkipsBudget() {
	req := suite.requisitionAt(domain.LevelFinanceGM, domain.StatusInReview)
	req.BudgetImpacted = true
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	_, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleFinanceGM, "user-gm", "", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	suite.mockBudgetSvc.AssertNotCalled(suite.T(), "CommitLineItemInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApply_ApproveAtFinanceGM_BudgetExceeded_Aborts() {
	req := suite.requisitionAt(domain.LevelFinanceGM, domain.StatusInReview)
	items := []domain.LineItem{
		{LineItemID: "li-1", RequisitionID: "req-1", Description: "Fuel", Quantity: 1, UnitPrice: decimal.NewFromInt(5000), Total: decimal.NewFromInt(5000), Currency: domain.CurrencyUSD},
	}
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockRequisitionRepo.On("FindLineItemsInTx", suite.ctx, nil, "req-1").Return(items, nil).Once()
	suite.mockBudgetSvc.On("CommitLineItemInTx", suite.ctx, nil, items[0], mock.Anything, "user-gm", true).
		Return(fmt.Errorf("%w: line Fuel", apperrors.ErrBudgetExceeded)).Once()

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleFinanceGM, "user-gm", "", portssvc.ApplyOptions{})

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrBudgetExceeded)
	assert.Nil(suite.T(), result)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "UpdateTransitionInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApply_ApproveAtBordereau_PersistsPaymentMode() {
	req := suite.requisitionAt(domain.LevelBordereauAlignment, domain.StatusValidated)
	req.BudgetImpacted = true
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleBordereau, "user-bord", "", portssvc.ApplyOptions{PaymentMode: "BANK_TRANSFER"})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelPayment, result.ToLevel)
	assert.Equal(suite.T(), "BANK_TRANSFER", written.PaymentMode)
	assert.Equal(suite.T(), domain.StatusValidated, written.Status)
}

func (suite *WorkflowServiceTestSuite) TestApply_ApproveAtPayment_SettlesAndPays() {
	req := suite.requisitionAt(domain.LevelPayment, domain.StatusValidated)
	req.BudgetImpacted = true
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockTreasurySvc.On("SettleInTx", suite.ctx, nil, req, "user-acct", "paid in full").Return(nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleAccountant, "user-acct", "paid in full", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.LevelDone, result.ToLevel)
	assert.Equal(suite.T(), domain.StatusPaid, written.Status)
	suite.mockTreasurySvc.AssertExpectations(suite.T())
	suite.mockBudgetSvc.AssertNotCalled(suite.T(), "CommitLineItemInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApply_ApproveAtPayment_BackfillsBudgetLeniently() {
	req := suite.requisitionAt(domain.LevelPayment, domain.StatusValidated)
	items := []domain.LineItem{
		{LineItemID: "li-1", RequisitionID: "req-1", Description: "Fuel", Quantity: 1, UnitPrice: decimal.NewFromInt(50), Total: decimal.NewFromInt(50), Currency: domain.CurrencyUSD},
	}
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockTreasurySvc.On("SettleInTx", suite.ctx, nil, req, "user-acct", "").Return(nil).Once()
	suite.mockRequisitionRepo.On("FindLineItemsInTx", suite.ctx, nil, "req-1").Return(items, nil).Once()
	suite.mockBudgetSvc.On("CommitLineItemInTx", suite.ctx, nil, items[0], mock.Anything, "user-acct", false).Return(nil).Once()

	var written domain.Requisition
	suite.expectTransitionWrite(&written)

	_, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleAccountant, "user-acct", "", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	assert.True(suite.T(), written.BudgetImpacted)
	suite.mockBudgetSvc.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestApply_ApproveAtPayment_InsufficientFunds_Aborts() {
	req := suite.requisitionAt(domain.LevelPayment, domain.StatusValidated)
	req.BudgetImpacted = true
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockTreasurySvc.On("SettleInTx", suite.ctx, nil, req, "user-acct", "").
		Return(fmt.Errorf("%w: fund USD", apperrors.ErrInsufficientFunds)).Once()

	_, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleAccountant, "user-acct", "", portssvc.ApplyOptions{})

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInsufficientFunds)
	suite.mockRequisitionRepo.AssertNotCalled(suite.T(), "UpdateTransitionInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "AppendInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApply_StaleVersion_Surfaced() {
	req := suite.requisitionAt(domain.LevelAnalyst, domain.StatusInReview)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockRequisitionRepo.On("UpdateTransitionInTx", suite.ctx, nil, mock.AnythingOfType("domain.Requisition"), int64(3)).
		Return(apperrors.ErrStaleState).Once()

	result, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleAnalyst, "user-analyst", "", portssvc.ApplyOptions{})

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrStaleState)
	assert.Nil(suite.T(), result)
	suite.mockAuditSvc.AssertNotCalled(suite.T(), "AppendInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApply_NotFound() {
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "missing").
		Return(nil, apperrors.NewNotFoundError("requisition not found")).Once()

	_, err := suite.workflowService.Apply(suite.ctx, "missing", domain.ActionApprove, domain.RoleAnalyst, "user-analyst", "", portssvc.ApplyOptions{})

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *WorkflowServiceTestSuite) TestApply_AppendsExactlyOneAuditRecord() {
	req := suite.requisitionAt(domain.LevelChallenger, domain.StatusInReview)
	suite.mockRequisitionRepo.On("FindRequisitionForUpdate", suite.ctx, nil, "req-1").Return(req, nil).Once()
	suite.mockRequisitionRepo.On("UpdateTransitionInTx", suite.ctx, nil, mock.AnythingOfType("domain.Requisition"), int64(3)).Return(nil).Once()
	suite.mockAuditSvc.On("AppendInTx", suite.ctx, nil, "req-1", "user-chal", domain.ActionApprove, domain.LevelChallenger, domain.LevelFinanceGM, "looks right").Return(nil).Once()

	_, err := suite.workflowService.Apply(suite.ctx, "req-1", domain.ActionApprove, domain.RoleChallenger, "user-chal", "looks right", portssvc.ApplyOptions{})

	require.NoError(suite.T(), err)
	suite.mockAuditSvc.AssertNumberOfCalls(suite.T(), "AppendInTx", 1)
}

func TestWorkflowService(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
