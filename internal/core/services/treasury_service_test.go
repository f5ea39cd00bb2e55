package services_test

import (
	"context"
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

type TreasuryServiceTestSuite struct {
	suite.Suite
	mockTreasuryRepo *MockTreasuryRepository
	treasuryService  portssvc.TreasurySvcFacade
	ctx              context.Context
}

func (suite *TreasuryServiceTestSuite) SetupTest() {
	suite.mockTreasuryRepo = new(MockTreasuryRepository)
	suite.treasuryService = services.NewTreasuryService(suite.mockTreasuryRepo)
	suite.ctx = context.Background()
}

func (suite *TreasuryServiceTestSuite) dualCurrencyRequisition() *domain.Requisition {
	usd := decimal.NewFromInt(300)
	cdf := decimal.NewFromInt(140000)
	return &domain.Requisition{
		RequisitionID: "req-1",
		Number:        "REQ-202501-abc123",
		AmountUSD:     &usd,
		AmountCDF:     &cdf,
	}
}

func (suite *TreasuryServiceTestSuite) TestSettleInTx_DualCurrency_Success() {
	req := suite.dualCurrencyRequisition()
	suite.mockTreasuryRepo.On("FindPaymentForUpdateInTx", suite.ctx, nil, "req-1").
		Return(nil, apperrors.NewNotFoundError("payment not found")).Once()
	suite.mockTreasuryRepo.On("FindFundsForUpdate", suite.ctx, nil, []string{domain.CurrencyUSD, domain.CurrencyCDF}).
		Return(map[string]domain.Fund{
			domain.CurrencyUSD: {Currency: domain.CurrencyUSD, Available: decimal.NewFromInt(1000)},
			domain.CurrencyCDF: {Currency: domain.CurrencyCDF, Available: decimal.NewFromInt(500000)},
		}, nil).Once()
	suite.mockTreasuryRepo.On("UpdateFundBalanceInTx", suite.ctx, nil, domain.CurrencyUSD, decimalEqual(decimal.NewFromInt(700)), "user-acct", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTreasuryRepo.On("UpdateFundBalanceInTx", suite.ctx, nil, domain.CurrencyCDF, decimalEqual(decimal.NewFromInt(360000)), "user-acct", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTreasuryRepo.On("InsertFundMovementInTx", suite.ctx, nil, mock.MatchedBy(func(m domain.FundMovement) bool {
		return m.Type == domain.MovementOut && m.Currency == domain.CurrencyUSD && m.Amount.Equal(decimal.NewFromInt(300))
	})).Return(nil).Once()
	suite.mockTreasuryRepo.On("InsertFundMovementInTx", suite.ctx, nil, mock.MatchedBy(func(m domain.FundMovement) bool {
		return m.Type == domain.MovementOut && m.Currency == domain.CurrencyCDF && m.Amount.Equal(decimal.NewFromInt(140000))
	})).Return(nil).Once()
	suite.mockTreasuryRepo.On("InsertPaymentInTx", suite.ctx, nil, mock.MatchedBy(func(p domain.Payment) bool {
		return p.RequisitionID == "req-1" && p.PaidBy == "user-acct" && p.Comment == "settled"
	})).Return(true, nil).Once()

	err := suite.treasuryService.SettleInTx(suite.ctx, nil, req, "user-acct", "settled")

	require.NoError(suite.T(), err)
	suite.mockTreasuryRepo.AssertExpectations(suite.T())
}

func (suite *TreasuryServiceTestSuite) TestSettleInTx_ShortfallOnOneCurrency_NoDebits() {
	req := suite.dualCurrencyRequisition()
	suite.mockTreasuryRepo.On("FindPaymentForUpdateInTx", suite.ctx, nil, "req-1").
		Return(nil, apperrors.NewNotFoundError("payment not found")).Once()
	suite.mockTreasuryRepo.On("FindFundsForUpdate", suite.ctx, nil, []string{domain.CurrencyUSD, domain.CurrencyCDF}).
		Return(map[string]domain.Fund{
			domain.CurrencyUSD: {Currency: domain.CurrencyUSD, Available: decimal.NewFromInt(1000)},
			domain.CurrencyCDF: {Currency: domain.CurrencyCDF, Available: decimal.NewFromInt(100000)},
		}, nil).Once()

	err := suite.treasuryService.SettleInTx(suite.ctx, nil, req, "user-acct", "")

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInsufficientFunds)
	suite.mockTreasuryRepo.AssertNotCalled(suite.T(), "UpdateFundBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTreasuryRepo.AssertNotCalled(suite.T(), "InsertFundMovementInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTreasuryRepo.AssertNotCalled(suite.T(), "InsertPaymentInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TreasuryServiceTestSuite) TestSettleInTx_PaymentAlreadyRecorded_NoOp() {
	req := suite.dualCurrencyRequisition()
	existing := &domain.Payment{PaymentID: "pay-1", RequisitionID: "req-1"}
	suite.mockTreasuryRepo.On("FindPaymentForUpdateInTx", suite.ctx, nil, "req-1").Return(existing, nil).Once()

	err := suite.treasuryService.SettleInTx(suite.ctx, nil, req, "user-acct", "")

	require.NoError(suite.T(), err)
	suite.mockTreasuryRepo.AssertNotCalled(suite.T(), "FindFundsForUpdate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTreasuryRepo.AssertNotCalled(suite.T(), "UpdateFundBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TreasuryServiceTestSuite) TestSettleInTx_NoAmounts_Validation() {
	req := &domain.Requisition{RequisitionID: "req-1", Number: "REQ-202501-abc123"}
	suite.mockTreasuryRepo.On("FindPaymentForUpdateInTx", suite.ctx, nil, "req-1").
		Return(nil, apperrors.NewNotFoundError("payment not found")).Once()

	err := suite.treasuryService.SettleInTx(suite.ctx, nil, req, "user-acct", "")

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *TreasuryServiceTestSuite) TestSettleInTx_SingleCurrency_OnlyThatFundTouched() {
	usd := decimal.NewFromInt(50)
	req := &domain.Requisition{RequisitionID: "req-1", Number: "REQ-202501-abc123", AmountUSD: &usd}
	suite.mockTreasuryRepo.On("FindPaymentForUpdateInTx", suite.ctx, nil, "req-1").
		Return(nil, apperrors.NewNotFoundError("payment not found")).Once()
	suite.mockTreasuryRepo.On("FindFundsForUpdate", suite.ctx, nil, []string{domain.CurrencyUSD}).
		Return(map[string]domain.Fund{
			domain.CurrencyUSD: {Currency: domain.CurrencyUSD, Available: decimal.NewFromInt(60)},
		}, nil).Once()
	suite.mockTreasuryRepo.On("UpdateFundBalanceInTx", suite.ctx, nil, domain.CurrencyUSD, decimalEqual(decimal.NewFromInt(10)), "user-acct", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTreasuryRepo.On("InsertFundMovementInTx", suite.ctx, nil, mock.AnythingOfType("domain.FundMovement")).Return(nil).Once()
	suite.mockTreasuryRepo.On("InsertPaymentInTx", suite.ctx, nil, mock.AnythingOfType("domain.Payment")).Return(true, nil).Once()

	err := suite.treasuryService.SettleInTx(suite.ctx, nil, req, "user-acct", "")

	require.NoError(suite.T(), err)
	suite.mockTreasuryRepo.AssertNumberOfCalls(suite.T(), "UpdateFundBalanceInTx", 1)
}

func (suite *TreasuryServiceTestSuite) TestRavitaillement_Success() {
	suite.mockTreasuryRepo.On("FindFundsForUpdate", suite.ctx, nil, []string{domain.CurrencyUSD}).
		Return(map[string]domain.Fund{
			domain.CurrencyUSD: {Currency: domain.CurrencyUSD, Available: decimal.NewFromInt(100)},
		}, nil).Once()
	suite.mockTreasuryRepo.On("UpdateFundBalanceInTx", suite.ctx, nil, domain.CurrencyUSD, decimalEqual(decimal.NewFromInt(350)), "user-admin", mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTreasuryRepo.On("InsertFundMovementInTx", suite.ctx, nil, mock.MatchedBy(func(m domain.FundMovement) bool {
		return m.Type == domain.MovementIn && m.Amount.Equal(decimal.NewFromInt(250)) && m.Description == "monthly top-up"
	})).Return(nil).Once()

	fund, err := suite.treasuryService.Ravitaillement(suite.ctx, domain.CurrencyUSD, decimal.NewFromInt(250), "monthly top-up", "user-admin")

	require.NoError(suite.T(), err)
	assert.True(suite.T(), fund.Available.Equal(decimal.NewFromInt(350)))
	suite.mockTreasuryRepo.AssertExpectations(suite.T())
}

func (suite *TreasuryServiceTestSuite) TestRavitaillement_UnsupportedCurrency() {
	_, err := suite.treasuryService.Ravitaillement(suite.ctx, "EUR", decimal.NewFromInt(10), "", "user-admin")

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *TreasuryServiceTestSuite) TestRavitaillement_NonPositiveAmount() {
	_, err := suite.treasuryService.Ravitaillement(suite.ctx, domain.CurrencyCDF, decimal.Zero, "", "user-admin")

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockTreasuryRepo.AssertNotCalled(suite.T(), "FindFundsForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TreasuryServiceTestSuite) TestGetPayment_Found() {
	payment := &domain.Payment{PaymentID: "pay-1", RequisitionID: "req-1"}
	suite.mockTreasuryRepo.On("FindPaymentByRequisitionID", suite.ctx, "req-1").Return(payment, nil).Once()

	got, err := suite.treasuryService.GetPayment(suite.ctx, "req-1")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "pay-1", got.PaymentID)
}

func TestTreasuryService(t *testing.T) {
	suite.Run(t, new(TreasuryServiceTestSuite))
}
