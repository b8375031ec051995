package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/umalmyha/rentals/internal/audit"
	auditMocks "github.com/umalmyha/rentals/internal/audit/mocks"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/model"
	rpsMocks "github.com/umalmyha/rentals/internal/repository/mocks"
	"github.com/umalmyha/rentals/internal/risk"
)

type riskServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	customerRpsMock *rpsMocks.CustomerRepository
	contractRpsMock *rpsMocks.ContractRepository
	eventsMock      *auditMocks.EventLogger
	riskSvc         RiskService
}

func (s *riskServiceTestSuite) SetupTest() {
	t := s.T()
	s.ctx = context.Background()
	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.contractRpsMock = rpsMocks.NewContractRepository(t)
	s.eventsMock = auditMocks.NewEventLogger(t)
	s.riskSvc = NewRiskService(s.customerRpsMock, s.contractRpsMock, s.eventsMock)
}

func (s *riskServiceTestSuite) TestAssess() {
	c := testCustomer()
	contracts := []model.Contract{
		{
			ID:          "c-1",
			CustomerID:  c.ID,
			Status:      model.ContractCompleted,
			TotalAmount: decimal.NewFromInt(1000),
			Payments:    []model.Payment{{ID: "p-1", Amount: decimal.NewFromInt(1000), Status: model.PaymentCompleted}},
		},
	}

	s.customerRpsMock.On("FindByID", mock.Anything, c.ID).Return(c, nil).Once()
	s.contractRpsMock.On("FindByCustomerID", mock.Anything, c.ID).Return(contracts, nil).Once()
	s.eventsMock.On("Log", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
		return e.EventType == audit.EventDataAccess &&
			e.DataCategory == model.CategoryFinancial &&
			e.LegalBasis == model.BasisLegitimateInterests &&
			e.Metadata["riskLevel"] == risk.LevelLow
	})).Once()

	a, err := s.riskSvc.Assess(s.ctx, c.ID, actorWithRole(model.RoleStaff))
	s.Require().NoError(err)
	s.Require().Equal(c.ID, a.CustomerID)
	s.Require().Equal(risk.LevelLow, a.Level)
	s.Require().Equal(risk.Assess(c, contracts), a)
}

func (s *riskServiceTestSuite) TestAssessNotFound() {
	s.customerRpsMock.On("FindByID", mock.Anything, "missing").Return(nil, nil).Once()

	_, err := s.riskSvc.Assess(s.ctx, "missing", actorWithRole(model.RoleStaff))
	s.Require().Equal(apperrors.KindNotFound, apperrors.KindOf(err))
	s.contractRpsMock.AssertNotCalled(s.T(), "FindByCustomerID", mock.Anything, mock.Anything)
}

func TestRiskService(t *testing.T) {
	suite.Run(t, new(riskServiceTestSuite))
}
