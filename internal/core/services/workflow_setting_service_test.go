package services_test

import (
	"context"
	"testing"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type WorkflowSettingServiceTestSuite struct {
	suite.Suite
	mockSettingRepo *MockWorkflowSettingRepository
	settingService  portssvc.WorkflowSettingSvcFacade
	ctx             context.Context
}

func (suite *WorkflowSettingServiceTestSuite) SetupTest() {
	suite.mockSettingRepo = new(MockWorkflowSettingRepository)
	suite.settingService = services.NewWorkflowSettingService(suite.mockSettingRepo)
	suite.ctx = context.Background()
}

func (suite *WorkflowSettingServiceTestSuite) TestUpsertSetting_Success() {
	suite.mockSettingRepo.On("UpsertWorkflowSetting", suite.ctx, mock.MatchedBy(func(s domain.WorkflowSetting) bool {
		return s.Level == domain.LevelAnalyst && s.DelayMinutes == 90 && s.LastUpdatedBy == "user-admin"
	})).Return(nil).Once()

	err := suite.settingService.UpsertSetting(suite.ctx, domain.WorkflowSetting{Level: domain.LevelAnalyst, DelayMinutes: 90}, "user-admin")

	require.NoError(suite.T(), err)
	suite.mockSettingRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowSettingServiceTestSuite) TestUpsertSetting_PaymentLevelRejected() {
	err := suite.settingService.UpsertSetting(suite.ctx, domain.WorkflowSetting{Level: domain.LevelPayment, DelayMinutes: 30}, "user-admin")

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockSettingRepo.AssertNotCalled(suite.T(), "UpsertWorkflowSetting", mock.Anything, mock.Anything)
}

func (suite *WorkflowSettingServiceTestSuite) TestUpsertSetting_NegativeDelayRejected() {
	err := suite.settingService.UpsertSetting(suite.ctx, domain.WorkflowSetting{Level: domain.LevelAnalyst, DelayMinutes: -1}, "user-admin")

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func TestWorkflowSettingService(t *testing.T) {
	suite.Run(t, new(WorkflowSettingServiceTestSuite))
}
