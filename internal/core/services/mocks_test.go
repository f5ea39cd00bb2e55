package services_test

import (
	"context"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RequisitionRepository ---

type MockRequisitionRepository struct {
	mock.Mock
}

var _ portsrepo.RequisitionRepositoryWithTx = (*MockRequisitionRepository)(nil)

// WithTx runs fn directly; the mocks below ignore the tx argument, so a nil
// transaction stands in for a real one.
func (m *MockRequisitionRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (m *MockRequisitionRepository) FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) FindLineItems(ctx context.Context, requisitionID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockRequisitionRepository) ListStalledRequisitions(ctx context.Context, level domain.Level, cutoff time.Time, excludedStatuses []domain.Status) ([]domain.Requisition, error) {
	args := m.Called(ctx, level, cutoff, excludedStatuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) ListUnimpactedSettled(ctx context.Context, statuses []domain.Status) ([]domain.Requisition, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) SaveRequisition(ctx context.Context, requisition domain.Requisition, items []domain.LineItem) error {
	args := m.Called(ctx, requisition, items)
	return args.Error(0)
}

func (m *MockRequisitionRepository) FindRequisitionForUpdate(ctx context.Context, tx pgx.Tx, requisitionID string) (*domain.Requisition, error) {
	args := m.Called(ctx, tx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Requisition), args.Error(1)
}

func (m *MockRequisitionRepository) FindLineItemsInTx(ctx context.Context, tx pgx.Tx, requisitionID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, tx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockRequisitionRepository) UpdateTransitionInTx(ctx context.Context, tx pgx.Tx, requisition domain.Requisition, expectedVersion int64) error {
	args := m.Called(ctx, tx, requisition, expectedVersion)
	return args.Error(0)
}

func (m *MockRequisitionRepository) ReplaceLineItemsInTx(ctx context.Context, tx pgx.Tx, requisitionID string, items []domain.LineItem) error {
	args := m.Called(ctx, tx, requisitionID, items)
	return args.Error(0)
}

func (m *MockRequisitionRepository) UpdateAmountsInTx(ctx context.Context, tx pgx.Tx, requisitionID string, amountUSD, amountCDF *decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, requisitionID, amountUSD, amountCDF, userID, now)
	return args.Error(0)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepositoryWithTx = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (m *MockBudgetRepository) FindBudgetLine(ctx context.Context, description, month string) (*domain.BudgetLine, error) {
	args := m.Called(ctx, description, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetLines(ctx context.Context, month string) ([]domain.BudgetLine, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudgetLine(ctx context.Context, line domain.BudgetLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindBudgetLineForUpdate(ctx context.Context, tx pgx.Tx, description, month string) (*domain.BudgetLine, error) {
	args := m.Called(ctx, tx, description, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetRepository) IncrementConsumedInTx(ctx context.Context, tx pgx.Tx, budgetLineID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, budgetLineID, amount, userID, now)
	return args.Error(0)
}

// --- Mock TreasuryRepository ---

type MockTreasuryRepository struct {
	mock.Mock
}

var _ portsrepo.TreasuryRepositoryWithTx = (*MockTreasuryRepository)(nil)

func (m *MockTreasuryRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (m *MockTreasuryRepository) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockTreasuryRepository) ListFundMovements(ctx context.Context, limit int) ([]domain.FundMovement, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FundMovement), args.Error(1)
}

func (m *MockTreasuryRepository) FindPaymentByRequisitionID(ctx context.Context, requisitionID string) (*domain.Payment, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockTreasuryRepository) FindFundsForUpdate(ctx context.Context, tx pgx.Tx, currencies []string) (map[string]domain.Fund, error) {
	args := m.Called(ctx, tx, currencies)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Fund), args.Error(1)
}

func (m *MockTreasuryRepository) UpdateFundBalanceInTx(ctx context.Context, tx pgx.Tx, currency string, available decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, currency, available, userID, now)
	return args.Error(0)
}

func (m *MockTreasuryRepository) InsertFundMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.FundMovement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

func (m *MockTreasuryRepository) FindPaymentForUpdateInTx(ctx context.Context, tx pgx.Tx, requisitionID string) (*domain.Payment, error) {
	args := m.Called(ctx, tx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockTreasuryRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) (bool, error) {
	args := m.Called(ctx, tx, payment)
	return args.Bool(0), args.Error(1)
}

// --- Mock ActionRecordRepository ---

type MockActionRecordRepository struct {
	mock.Mock
}

var _ portsrepo.ActionRecordRepositoryFacade = (*MockActionRecordRepository)(nil)

func (m *MockActionRecordRepository) InsertActionRecordInTx(ctx context.Context, tx pgx.Tx, record domain.ActionRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockActionRecordRepository) ListActionRecords(ctx context.Context, requisitionID string) ([]domain.ActionRecord, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActionRecord), args.Error(1)
}

// --- Mock WorkflowSettingRepository ---

type MockWorkflowSettingRepository struct {
	mock.Mock
}

var _ portsrepo.WorkflowSettingRepositoryFacade = (*MockWorkflowSettingRepository)(nil)

func (m *MockWorkflowSettingRepository) ListWorkflowSettings(ctx context.Context) ([]domain.WorkflowSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkflowSetting), args.Error(1)
}

func (m *MockWorkflowSettingRepository) UpsertWorkflowSetting(ctx context.Context, setting domain.WorkflowSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

// --- Mock AppSettingRepository ---

type MockAppSettingRepository struct {
	mock.Mock
}

var _ portsrepo.AppSettingRepositoryFacade = (*MockAppSettingRepository)(nil)

func (m *MockAppSettingRepository) GetDecimalSetting(ctx context.Context, key string) (decimal.Decimal, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAppSettingRepository) SetSetting(ctx context.Context, key, value, userID string) error {
	args := m.Called(ctx, key, value, userID)
	return args.Error(0)
}

// --- Mock OrgServiceRepository ---

type MockOrgServiceRepository struct {
	mock.Mock
}

var _ portsrepo.OrgServiceRepositoryFacade = (*MockOrgServiceRepository)(nil)

func (m *MockOrgServiceRepository) FindServiceByID(ctx context.Context, serviceID string) (*domain.OrgService, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgService), args.Error(1)
}

// --- Mock BudgetService ---

type MockBudgetService struct {
	mock.Mock
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

func (m *MockBudgetService) Check(ctx context.Context, description string, amount decimal.Decimal, currency, month string) (*domain.BudgetCheckResult, error) {
	args := m.Called(ctx, description, amount, currency, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetCheckResult), args.Error(1)
}

func (m *MockBudgetService) CommitLineItemInTx(ctx context.Context, tx pgx.Tx, item domain.LineItem, month, userID string, enforce bool) error {
	args := m.Called(ctx, tx, item, month, userID, enforce)
	return args.Error(0)
}

func (m *MockBudgetService) ListLines(ctx context.Context, month string) ([]domain.BudgetLine, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetService) CreateLine(ctx context.Context, line domain.BudgetLine, userID string) (*domain.BudgetLine, error) {
	args := m.Called(ctx, line, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}

func (m *MockBudgetService) Reconcile(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- Mock TreasuryService ---

type MockTreasuryService struct {
	mock.Mock
}

var _ portssvc.TreasurySvcFacade = (*MockTreasuryService)(nil)

func (m *MockTreasuryService) GetFunds(ctx context.Context) ([]domain.Fund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockTreasuryService) ListMovements(ctx context.Context, limit int) ([]domain.FundMovement, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FundMovement), args.Error(1)
}

func (m *MockTreasuryService) Ravitaillement(ctx context.Context, currency string, amount decimal.Decimal, description, userID string) (*domain.Fund, error) {
	args := m.Called(ctx, currency, amount, description, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockTreasuryService) SettleInTx(ctx context.Context, tx pgx.Tx, requisition *domain.Requisition, payerID, comment string) error {
	args := m.Called(ctx, tx, requisition, payerID, comment)
	return args.Error(0)
}

func (m *MockTreasuryService) GetPayment(ctx context.Context, requisitionID string) (*domain.Payment, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// --- Mock AuditService ---

type MockAuditService struct {
	mock.Mock
}

var _ portssvc.AuditSvcFacade = (*MockAuditService)(nil)

func (m *MockAuditService) AppendInTx(ctx context.Context, tx pgx.Tx, requisitionID, actorID string, action domain.Action, fromLevel, toLevel domain.Level, comment string) error {
	args := m.Called(ctx, tx, requisitionID, actorID, action, fromLevel, toLevel, comment)
	return args.Error(0)
}

func (m *MockAuditService) List(ctx context.Context, requisitionID string) ([]domain.ActionRecord, error) {
	args := m.Called(ctx, requisitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActionRecord), args.Error(1)
}

// --- Mock WorkflowService ---

type MockWorkflowService struct {
	mock.Mock
}

var _ portssvc.WorkflowSvcFacade = (*MockWorkflowService)(nil)

func (m *MockWorkflowService) Apply(ctx context.Context, requisitionID string, action domain.Action, actorRole domain.Role, actorID, comment string, opts portssvc.ApplyOptions) (*portssvc.TransitionResult, error) {
	args := m.Called(ctx, requisitionID, action, actorRole, actorID, comment, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.TransitionResult), args.Error(1)
}
