package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/umalmyha/rentals/internal/service"
	svcMocks "github.com/umalmyha/rentals/internal/service/mocks"
)

type jobsTestSuite struct {
	suite.Suite
	retentionSvc *svcMocks.RetentionService
	logger       *logrus.Logger
	hook         *test.Hook
}

func (s *jobsTestSuite) SetupTest() {
	s.retentionSvc = svcMocks.NewRetentionService(s.T())
	s.logger, s.hook = test.NewNullLogger()
}

func (s *jobsTestSuite) TestRetentionRunTask() {
	s.T().Log("task is not retried")
	{
		task := NewRetentionRunTask()
		s.Require().Equal(TaskTypeRetentionRun, task.Type())
		s.Require().Empty(task.Payload())
	}
}

func (s *jobsTestSuite) TestRetentionRunHandler() {
	h := RetentionRunHandler(s.retentionSvc, s.logger)

	s.T().Log("successful run logs result counts")
	{
		s.retentionSvc.On("Run", mock.Anything).Return(service.ProcessResult{
			Deleted:    []string{"r-1"},
			Anonymized: []string{"r-2", "r-3"},
		}, nil).Once()

		err := h(context.Background(), NewRetentionRunTask())
		s.Require().NoError(err)

		entry := s.hook.LastEntry()
		s.Require().NotNil(entry)
		s.Require().Equal(logrus.InfoLevel, entry.Level)
		s.Require().Equal(1, entry.Data["deleted"])
		s.Require().Equal(2, entry.Data["anonymized"])
		s.Require().Equal(0, entry.Data["retained"])
	}

	s.hook.Reset()

	s.T().Log("failed run is logged and swallowed")
	{
		s.retentionSvc.On("Run", mock.Anything).Return(service.ProcessResult{}, errors.New("db is down")).Once()

		err := h(context.Background(), NewRetentionRunTask())
		s.Require().NoError(err, "retention failure must not propagate to the queue")

		entry := s.hook.LastEntry()
		s.Require().NotNil(entry)
		s.Require().Equal(logrus.ErrorLevel, entry.Level)
		s.Require().Equal("scheduled data retention run failed", entry.Message)
	}
}

func (s *jobsTestSuite) TestNewWorker() {
	opts := asynq.RedisClientOpt{Addr: "localhost:6379"}

	s.T().Log("invalid cron spec is rejected")
	{
		_, err := NewWorker(WorkerConfig{
			RedisOpts:         opts,
			Logger:            s.logger,
			Retention:         s.retentionSvc,
			RetentionSchedule: "every day",
			RetentionEnabled:  true,
		})
		s.Require().Error(err)
	}

	s.T().Log("disabled retention has no scheduler")
	{
		w, err := NewWorker(WorkerConfig{
			RedisOpts:         opts,
			Logger:            s.logger,
			Retention:         s.retentionSvc,
			RetentionSchedule: "every day",
		})
		s.Require().NoError(err)
		s.Require().Nil(w.scheduler)
	}

	s.T().Log("daily schedule is registered")
	{
		w, err := NewWorker(WorkerConfig{
			RedisOpts:         opts,
			Logger:            s.logger,
			Retention:         s.retentionSvc,
			RetentionSchedule: "0 2 * * *",
			RetentionEnabled:  true,
		})
		s.Require().NoError(err)
		s.Require().NotNil(w.scheduler)
	}
}

func TestJobsTestSuite(t *testing.T) {
	suite.Run(t, new(jobsTestSuite))
}
