package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/umalmyha/rentals/internal/audit"
	auditMocks "github.com/umalmyha/rentals/internal/audit/mocks"
	cacheMocks "github.com/umalmyha/rentals/internal/cache/mocks"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/model"
	rpsMocks "github.com/umalmyha/rentals/internal/repository/mocks"
)

type flagServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	trx             *stubTransactor
	customerRpsMock *rpsMocks.CustomerRepository
	auditRpsMock    *rpsMocks.CustomerAuditLogRepository
	cacheMock       *cacheMocks.CustomerCache
	eventsMock      *auditMocks.EventLogger
	flagSvc         FlagService
}

func (s *flagServiceTestSuite) SetupTest() {
	t := s.T()
	s.ctx = context.Background()
	s.trx = &stubTransactor{}
	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.auditRpsMock = rpsMocks.NewCustomerAuditLogRepository(t)
	s.cacheMock = cacheMocks.NewCustomerCache(t)
	s.eventsMock = auditMocks.NewEventLogger(t)

	nullLogger, _ := test.NewNullLogger()
	svc := NewFlagService(s.trx, s.customerRpsMock, s.auditRpsMock, s.cacheMock, s.eventsMock, nullLogger).(*flagService)
	svc.now = fixedNow
	s.flagSvc = svc
}

func (s *flagServiceTestSuite) expectCommit(customerID string, events int) *[]*model.CustomerAuditLog {
	logs := new([]*model.CustomerAuditLog)
	s.customerRpsMock.On("Update", mock.Anything, mock.AnythingOfType("*model.Customer")).Return(nil).Once()
	if events > 0 {
		s.auditRpsMock.On("CreateMany", mock.Anything, mock.AnythingOfType("[]*model.CustomerAuditLog")).
			Run(func(args mock.Arguments) {
				*logs = args.Get(1).([]*model.CustomerAuditLog)
			}).Return(nil).Once()
		s.eventsMock.On("Log", mock.Anything, mock.MatchedBy(func(e audit.Event) bool {
			return e.EventType == audit.EventAdminModify && e.ResourceID == customerID
		})).Times(events)
	}
	s.cacheMock.On("EvictByID", mock.Anything, customerID).Return(nil).Once()
	return logs
}

func (s *flagServiceTestSuite) TestBlacklistByStaffRejected() {
	c := testCustomer()
	s.customerRpsMock.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil).Once()

	u := FlagsUpdate{
		Flags:       []model.Flag{model.FlagVIP},
		Blacklisted: boolPtr(true),
		Reason:      "fraud suspected",
	}

	s.T().Log("staff member can't blacklist customer")
	{
		_, err := s.flagSvc.UpdateFlags(s.ctx, c.ID, u, actorWithRole(model.RoleStaff))

		var permErr *apperrors.PermissionErr
		s.Require().ErrorAs(err, &permErr, "permission error must be raised")
		s.Require().Equal(apperrors.KindPermission, apperrors.KindOf(err))
	}

	s.T().Log("nothing is written and no audit entry is produced")
	{
		s.customerRpsMock.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
		s.auditRpsMock.AssertNotCalled(s.T(), "CreateMany", mock.Anything, mock.Anything)
		s.eventsMock.AssertNotCalled(s.T(), "Log", mock.Anything, mock.Anything)
		s.cacheMock.AssertNotCalled(s.T(), "EvictByID", mock.Anything, mock.Anything)
		s.Require().Empty(c.Flags, "customer must stay unchanged")
		s.Require().False(c.Blacklisted)
		s.Require().Equal(model.StatusActive, c.Status)
	}
}

func (s *flagServiceTestSuite) TestDefaultActorCantBlacklist() {
	c := testCustomer()
	s.customerRpsMock.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil).Once()

	_, err := s.flagSvc.UpdateFlags(s.ctx, c.ID, FlagsUpdate{Flags: []model.Flag{}, Blacklisted: boolPtr(true), Reason: "r"}, model.DefaultActor())
	s.Require().Equal(apperrors.KindPermission, apperrors.KindOf(err))
}

func (s *flagServiceTestSuite) TestStaffMaySendUnchangedBlacklist() {
	c := testCustomer()
	s.customerRpsMock.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil).Once()
	logs := s.expectCommit(c.ID, 1)

	u := FlagsUpdate{
		Flags:       []model.Flag{model.FlagLateReturn},
		Blacklisted: boolPtr(false),
		Reason:      "late again",
	}

	res, err := s.flagSvc.UpdateFlags(s.ctx, c.ID, u, actorWithRole(model.RoleStaff))
	s.Require().NoError(err, "blacklist value is not changed, no elevated role required")
	s.Require().Len(res.Changes, 1)
	s.Require().Len(*logs, 1)
	s.Require().Equal(model.AuditActionFlagAdded, (*logs)[0].Action)
	s.Require().Equal("late again - Added flags: LATE_RETURN", (*logs)[0].Reason)
}

func (s *flagServiceTestSuite) TestBlacklistOverridesVIP() {
	c := testCustomer()
	c.Flags = []model.Flag{model.FlagLateReturn}
	s.customerRpsMock.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil).Once()
	logs := s.expectCommit(c.ID, 4)

	u := FlagsUpdate{
		Flags:           []model.Flag{model.FlagFraudSuspected, model.FlagPaymentRisk},
		Blacklisted:     boolPtr(true),
		BlacklistReason: strPtr("Stolen vehicle"),
		VIPStatus:       boolPtr(true),
		PaymentRisk:     boolPtr(true),
		Reason:          "fraud suspected",
	}

	res, err := s.flagSvc.UpdateFlags(s.ctx, c.ID, u, actorWithRole(model.RoleManager))
	s.Require().NoError(err, "manager is allowed to blacklist")

	s.T().Log("blacklist wins over VIP")
	{
		s.Require().Equal(model.StatusBlacklisted, res.Customer.Status)
		s.Require().True(res.Customer.Blacklisted)
		s.Require().True(res.Customer.VIPStatus)
		s.Require().True(res.Customer.PaymentRisk)
		s.Require().Equal("Stolen vehicle", *res.Customer.BlacklistReason)
		s.Require().Equal(testNow, *res.Customer.LastActivityDate)
	}

	s.T().Log("one audit entry per sub-change in fixed order")
	{
		s.Require().Len(*logs, 4)
		expected := []struct {
			action model.CustomerAuditAction
			field  string
			reason string
		}{
			{model.AuditActionFlagAdded, "flags", "fraud suspected - Added flags: FRAUD_SUSPECTED, PAYMENT_RISK"},
			{model.AuditActionFlagRemoved, "flags", "fraud suspected - Removed flags: LATE_RETURN"},
			{model.AuditActionBlacklistAdd, "blacklisted", "fraud suspected - Blacklisted: Stolen vehicle"},
			{model.AuditActionVIPAdd, "vipStatus", "fraud suspected - Added VIP status"},
		}

		for i, e := range expected {
			l := (*logs)[i]
			s.Require().Equal(e.action, l.Action)
			s.Require().Equal(e.field, *l.FieldChanged)
			s.Require().Equal(e.reason, l.Reason)
			s.Require().Equal("user-1", l.UserID)
			s.Require().Equal("10.0.0.1", *l.IPAddress)
			s.Require().Equal(testNow, l.CreatedAt)
		}

		s.Require().JSONEq(`["LATE_RETURN"]`, *(*logs)[0].OldValue)
		s.Require().JSONEq(`["FRAUD_SUSPECTED","PAYMENT_RISK"]`, *(*logs)[0].NewValue)
		s.Require().Equal("false", *(*logs)[2].OldValue)
		s.Require().Equal("true", *(*logs)[2].NewValue)
	}
}

func (s *flagServiceTestSuite) TestClearBlacklistRestoresActive() {
	c := testCustomer()
	c.Blacklisted = true
	c.BlacklistReason = strPtr("Unpaid invoices")
	c.Status = model.StatusBlacklisted
	s.customerRpsMock.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil).Once()
	logs := s.expectCommit(c.ID, 1)

	res, err := s.flagSvc.UpdateFlags(s.ctx, c.ID, FlagsUpdate{
		Flags:       []model.Flag{},
		Blacklisted: boolPtr(false),
		Reason:      "debt settled",
	}, actorWithRole(model.RoleAdmin))
	s.Require().NoError(err)
	s.Require().Equal(model.StatusActive, res.Customer.Status)
	s.Require().False(res.Customer.Blacklisted)
	s.Require().Nil(res.Customer.BlacklistReason)
	s.Require().Len(*logs, 1)
	s.Require().Equal(model.AuditActionBlacklistRemove, (*logs)[0].Action)
	s.Require().Equal("debt settled - Removed from blacklist", (*logs)[0].Reason)
}

func (s *flagServiceTestSuite) TestNoChangesProduceNoEntries() {
	c := testCustomer()
	c.Flags = []model.Flag{model.FlagSpecialNeeds}
	s.customerRpsMock.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil).Once()
	s.expectCommit(c.ID, 0)

	res, err := s.flagSvc.UpdateFlags(s.ctx, c.ID, FlagsUpdate{
		Flags:        []model.Flag{model.FlagSpecialNeeds, model.FlagSpecialNeeds},
		SpecialNeeds: strPtr("Wheelchair"),
		Reason:       "note",
	}, actorWithRole(model.RoleStaff))
	s.Require().NoError(err)
	s.Require().Empty(res.Changes)
	s.Require().Equal([]model.Flag{model.FlagSpecialNeeds}, res.Customer.Flags)
	s.Require().Equal("Wheelchair", *res.Customer.SpecialNeeds)
	s.auditRpsMock.AssertNotCalled(s.T(), "CreateMany", mock.Anything, mock.Anything)
}

func (s *flagServiceTestSuite) TestValidationBeforeAnyRead() {
	cases := []struct {
		name  string
		u     FlagsUpdate
		field string
	}{
		{"missing reason", FlagsUpdate{Flags: []model.Flag{}, Reason: "  "}, "reason"},
		{"unknown flag", FlagsUpdate{Flags: []model.Flag{"GOLD"}, Reason: "r"}, "flags"},
		{"missing flags", FlagsUpdate{Reason: "r"}, "flags"},
		{"long blacklist reason", FlagsUpdate{Flags: []model.Flag{}, Reason: "r", BlacklistReason: strPtr(string(make([]rune, 501)))}, "blacklistReason"},
	}

	for _, tc := range cases {
		s.T().Log(tc.name)
		{
			_, err := s.flagSvc.UpdateFlags(s.ctx, "id", tc.u, actorWithRole(model.RoleAdmin))

			var validationErr *apperrors.ValidationErr
			s.Require().ErrorAs(err, &validationErr)
			s.Require().Equal(tc.field, validationErr.Field())
		}
	}
	s.Require().Zero(s.trx.calls, "transaction must not be started on invalid input")
}

func (s *flagServiceTestSuite) TestCustomerNotFound() {
	s.customerRpsMock.On("FindByIDForUpdate", mock.Anything, "missing").Return(nil, nil).Once()

	_, err := s.flagSvc.UpdateFlags(s.ctx, "missing", FlagsUpdate{Flags: []model.Flag{}, Reason: "r"}, actorWithRole(model.RoleAdmin))
	s.Require().Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (s *flagServiceTestSuite) TestAuditWriteFailureFailsUpdate() {
	c := testCustomer()
	s.customerRpsMock.On("FindByIDForUpdate", mock.Anything, c.ID).Return(c, nil).Once()
	s.customerRpsMock.On("Update", mock.Anything, mock.AnythingOfType("*model.Customer")).Return(nil).Once()
	s.auditRpsMock.On("CreateMany", mock.Anything, mock.Anything).Return(errors.New("copy failed")).Once()

	_, err := s.flagSvc.UpdateFlags(s.ctx, c.ID, FlagsUpdate{Flags: []model.Flag{model.FlagVIP}, Reason: "r"}, actorWithRole(model.RoleStaff))
	s.Require().Error(err, "audit entries and customer update commit together")
	s.eventsMock.AssertNotCalled(s.T(), "Log", mock.Anything, mock.Anything)
	s.cacheMock.AssertNotCalled(s.T(), "EvictByID", mock.Anything, mock.Anything)
}

func TestFlagService(t *testing.T) {
	suite.Run(t, new(flagServiceTestSuite))
}

func TestApplyFlagsUpdateStatusMachine(t *testing.T) {
	suite.Run(t, new(statusMachineTestSuite))
}

type statusMachineTestSuite struct {
	suite.Suite
}

func (s *statusMachineTestSuite) TestVIP() {
	c := testCustomer()

	s.T().Log("VIP is granted to not blacklisted customer")
	{
		changes := applyFlagsUpdate(c, FlagsUpdate{Flags: []model.Flag{}, VIPStatus: boolPtr(true), Reason: "r"}, testNow)
		s.Require().Equal(model.StatusVIP, c.Status)
		s.Require().Len(changes, 1)
		s.Require().Equal(model.AuditActionVIPAdd, changes[0].Action)
	}

	s.T().Log("removing VIP reverts status to ACTIVE")
	{
		changes := applyFlagsUpdate(c, FlagsUpdate{Flags: []model.Flag{}, VIPStatus: boolPtr(false), Reason: "r"}, testNow)
		s.Require().Equal(model.StatusActive, c.Status)
		s.Require().Equal(model.AuditActionVIPRemove, changes[0].Action)
		s.Require().Equal("Removed VIP status", changes[0].Detail)
	}
}

func (s *statusMachineTestSuite) TestVIPDoesNotLiftBlacklist() {
	c := testCustomer()
	c.Blacklisted = true
	c.Status = model.StatusBlacklisted

	applyFlagsUpdate(c, FlagsUpdate{Flags: []model.Flag{}, VIPStatus: boolPtr(true), Reason: "r"}, testNow)
	s.Require().Equal(model.StatusBlacklisted, c.Status)
	s.Require().True(c.VIPStatus)
}

func (s *statusMachineTestSuite) TestClearBlacklistKeepsOtherStatus() {
	c := testCustomer()
	c.Status = model.StatusVIP

	changes := applyFlagsUpdate(c, FlagsUpdate{Flags: []model.Flag{}, Blacklisted: boolPtr(false), Reason: "r"}, testNow)
	s.Require().Equal(model.StatusVIP, c.Status, "status other than BLACKLISTED is left as is")
	s.Require().Empty(changes)
}

func (s *statusMachineTestSuite) TestBlacklistWithoutReasonUsesRequestReason() {
	c := testCustomer()

	changes := applyFlagsUpdate(c, FlagsUpdate{Flags: []model.Flag{}, Blacklisted: boolPtr(true), Reason: "chargeback"}, testNow)
	s.Require().Equal("chargeback", *c.BlacklistReason)
	s.Require().Equal("Blacklisted: chargeback", changes[0].Detail)
}
