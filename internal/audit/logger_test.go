package audit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/audit/mocks"
	"github.com/umalmyha/rentals/internal/model"
)

type auditLoggerTestSuite struct {
	suite.Suite
	ctx       context.Context
	storeMock *mocks.Store
	logHook   *test.Hook
	logger    *audit.Logger
}

func (s *auditLoggerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.storeMock = mocks.NewStore(s.T())

	nullLogger, hook := test.NewNullLogger()
	s.logHook = hook

	logger, err := audit.NewLogger(s.storeMock, nullLogger, audit.Config{BatchSize: 3, FlushInterval: time.Hour})
	s.Require().NoError(err, "failed to build audit logger")
	s.logger = logger
}

func (s *auditLoggerTestSuite) event(action string) audit.Event {
	return audit.Event{EventType: audit.EventDataAccess, Action: action}
}

func (s *auditLoggerTestSuite) TestInvalidEventsAreDropped() {
	invalid := []audit.Event{
		{EventType: "data.unknown", Action: "read"},
		{EventType: audit.EventDataAccess},
		{EventType: audit.EventDataAccess, Action: "read", UserEmail: "not-an-email"},
		{EventType: audit.EventDataAccess, Action: "read", IPAddress: "999.1.1.1"},
		{EventType: audit.EventDataAccess, Action: "read", RequestID: "abc"},
		{EventType: audit.EventDataAccess, Action: "read", Severity: "fatal"},
		{EventType: audit.EventDataAccess, Action: "read", Result: "unknown"},
		{EventType: audit.EventDataAccess, Action: "read", DataCategory: "biometric"},
		{EventType: audit.EventDataAccess, Action: "read", Canton: "ZUR"},
	}

	for _, e := range invalid {
		s.logger.Log(s.ctx, e)
	}

	s.Require().Equal(0, s.logger.Pending(), "invalid events must not be buffered")
	s.Require().Len(s.logHook.AllEntries(), len(invalid), "every dropped event must be reported")
	s.Require().Equal(logrus.WarnLevel, s.logHook.LastEntry().Level)

	s.T().Log("flush of empty buffer doesn't touch the store")
	{
		s.Require().NoError(s.logger.Flush(s.ctx))
		s.storeMock.AssertNotCalled(s.T(), "Persist", mock.Anything, mock.Anything)
	}
}

func (s *auditLoggerTestSuite) TestDefaultsAreFilled() {
	s.storeMock.On("Persist", s.ctx, mock.MatchedBy(func(events []audit.Event) bool {
		if len(events) != 1 {
			return false
		}
		e := events[0]
		_, err := uuid.Parse(e.ID)
		return err == nil &&
			!e.Timestamp.IsZero() &&
			e.Severity == audit.SeverityInfo &&
			e.Result == audit.ResultSuccess
	})).Return(nil).Once()

	s.logger.Log(s.ctx, s.event("read customer"))
	s.Require().Equal(1, s.logger.Pending())
	s.Require().NoError(s.logger.Flush(s.ctx))
	s.Require().Equal(0, s.logger.Pending())
}

func (s *auditLoggerTestSuite) TestFailedBatchIsRequeuedInFront() {
	var persisted []audit.Event
	s.storeMock.On("Persist", s.ctx, mock.AnythingOfType("[]audit.Event")).Return(errors.New("store is down")).Once()
	s.storeMock.On("Persist", s.ctx, mock.AnythingOfType("[]audit.Event")).Run(func(args mock.Arguments) {
		persisted = args.Get(1).([]audit.Event)
	}).Return(nil).Once()

	s.logger.Log(s.ctx, s.event("first"))
	s.logger.Log(s.ctx, s.event("second"))

	s.T().Log("flush fails and keeps entries")
	{
		err := s.logger.Flush(s.ctx)
		s.Require().Error(err, "store error must be reported to flusher")
		s.Require().Equal(2, s.logger.Pending())
	}

	s.logger.Log(s.ctx, s.event("third"))

	s.T().Log("retry persists entries in original order")
	{
		s.Require().NoError(s.logger.Flush(s.ctx))
		s.Require().Len(persisted, 3)
		s.Require().Equal("first", persisted[0].Action)
		s.Require().Equal("second", persisted[1].Action)
		s.Require().Equal("third", persisted[2].Action)
		s.Require().Equal(0, s.logger.Pending())
	}
}

func (s *auditLoggerTestSuite) TestRunFlushesOnBatchSizeAndStop() {
	var (
		mu        sync.Mutex
		persisted int
	)
	s.storeMock.On("Persist", mock.Anything, mock.AnythingOfType("[]audit.Event")).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		persisted += len(args.Get(1).([]audit.Event))
	}).Return(nil)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() {
		done <- s.logger.Run(ctx)
	}()

	s.T().Log("reaching batch size triggers flush without waiting for interval")
	{
		for i := 0; i < 3; i++ {
			s.logger.Log(s.ctx, s.event("batch"))
		}
		s.Require().Eventually(func() bool {
			mu.Lock()
			defer mu.Unlock()
			return persisted == 3
		}, 2*time.Second, 10*time.Millisecond, "batch must be flushed once batch size is reached")
	}

	s.T().Log("stop flushes remaining entries")
	{
		s.logger.Log(s.ctx, s.event("tail"))
		cancel()
		s.Require().NoError(<-done)
		s.Require().Equal(0, s.logger.Pending())

		mu.Lock()
		defer mu.Unlock()
		s.Require().Equal(4, persisted)
	}
}

func (s *auditLoggerTestSuite) TestConcurrentLogAndFlush() {
	var (
		mu        sync.Mutex
		persisted int
	)
	s.storeMock.On("Persist", mock.Anything, mock.AnythingOfType("[]audit.Event")).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		persisted += len(args.Get(1).([]audit.Event))
	}).Return(nil)

	const (
		writers   = 4
		perWriter = 50
	)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				s.logger.Log(s.ctx, s.event("concurrent"))
				if i%10 == 0 {
					_ = s.logger.Flush(s.ctx)
				}
			}
		}()
	}
	wg.Wait()

	s.Require().NoError(s.logger.Flush(s.ctx))

	mu.Lock()
	defer mu.Unlock()
	s.Require().Equal(writers*perWriter, persisted, "every accepted event must be persisted exactly once")
}

func (s *auditLoggerTestSuite) TestLogAuthAndBuilders() {
	var persisted []audit.Event
	s.storeMock.On("Persist", s.ctx, mock.AnythingOfType("[]audit.Event")).Run(func(args mock.Arguments) {
		persisted = args.Get(1).([]audit.Event)
	}).Return(nil).Once()

	actor := model.Actor{
		ID:        "7b6a4c5e-1f0e-4a47-9d33-6a4a8f0f6f10",
		Email:     "manager@rentals.ch",
		Role:      model.RoleManager,
		IPAddress: "192.168.1.10",
		UserAgent: "curl/8.0",
		RequestID: "4c0ed9ef-3d8e-4f15-9f3d-8a1f4a7e7c11",
	}

	s.logger.LogAuth(s.ctx, audit.EventLoginFailed, "", false, "10.0.0.1", nil)
	s.logger.Log(s.ctx, audit.SecurityAlert(model.DefaultActor(), "retention failed", errors.New("boom")))
	s.logger.Log(s.ctx, audit.PersonalData(audit.EventDataAnonymize, actor, "customer anonymized", model.CategoryPersonal, model.BasisLegalObligation))
	s.logger.Log(s.ctx, audit.ForActor(audit.EventAdminModify, actor, "Blacklisted: fraud"))
	s.Require().NoError(s.logger.Flush(s.ctx))

	s.Require().Len(persisted, 4)

	s.T().Log("failed authentication gets warning severity")
	{
		authFailure := persisted[0]
		s.Require().Equal(audit.ResultFailure, authFailure.Result)
		s.Require().Equal(audit.SeverityWarning, authFailure.Severity)
		s.Require().Equal("Authentication: auth.login_failed", authFailure.Action)
	}

	s.T().Log("security alert carries error")
	{
		alert := persisted[1]
		s.Require().Equal(audit.EventSecurityAlert, alert.EventType)
		s.Require().Equal(audit.SeverityError, alert.Severity)
		s.Require().Equal(audit.ResultFailure, alert.Result)
		s.Require().Equal("boom", alert.ErrorMessage)
		s.Require().Equal(model.DefaultActor().ID, alert.UserID)
	}

	s.T().Log("personal data event carries category, basis and actor")
	{
		gdpr := persisted[2]
		s.Require().Equal(model.CategoryPersonal, gdpr.DataCategory)
		s.Require().Equal(model.BasisLegalObligation, gdpr.LegalBasis)
		s.Require().Equal(audit.SeverityInfo, gdpr.Severity)
		s.Require().Equal(actor.Email, gdpr.UserEmail)
	}

	s.T().Log("actor context is copied")
	{
		s.Require().Equal(string(model.RoleManager), persisted[3].UserRole)
		s.Require().Equal(actor.RequestID, persisted[3].RequestID)
		s.Require().Equal(actor.IPAddress, persisted[3].IPAddress)
	}
}

func (s *auditLoggerTestSuite) TestQueryAndReport() {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	events := []audit.Event{{ID: uuid.NewString(), EventType: audit.EventDataDelete}}

	s.storeMock.On("Query", s.ctx, audit.Filter{Limit: audit.DefaultQueryLimit}).Return(events, nil).Once()
	s.storeMock.On("Query", s.ctx, audit.Filter{Limit: audit.MaxQueryLimit}).Return(events, nil).Once()
	s.storeMock.On("Query", s.ctx, audit.Filter{From: &from, To: &to, Limit: audit.MaxQueryLimit}).Return(events, nil).Once()
	s.storeMock.On("CountByType", s.ctx, from, to).Return(map[audit.EventType]int{
		audit.EventDataDelete:    2,
		audit.EventDataAnonymize: 5,
	}, nil).Once()

	s.T().Log("limit is normalized")
	{
		res, err := s.logger.Query(s.ctx, audit.Filter{})
		s.Require().NoError(err)
		s.Require().Len(res, 1)

		_, err = s.logger.Query(s.ctx, audit.Filter{Limit: 50000})
		s.Require().NoError(err)
	}

	s.T().Log("report summarizes by event type")
	{
		report, err := s.logger.ComplianceReport(s.ctx, from, to)
		s.Require().NoError(err)
		s.Require().Equal(7, report.Total)
		s.Require().Equal(5, report.Summary[audit.EventDataAnonymize])
		s.Require().Len(report.Events, 1)
	}
}

func (s *auditLoggerTestSuite) TestQueryFailure() {
	s.storeMock.On("Query", s.ctx, mock.AnythingOfType("audit.Filter")).Return(nil, errors.New("timeout")).Once()

	_, err := s.logger.Query(s.ctx, audit.Filter{})
	s.Require().Error(err)
}

// start audit logger test suite
func TestAuditLoggerTestSuite(t *testing.T) {
	suite.Run(t, new(auditLoggerTestSuite))
}
