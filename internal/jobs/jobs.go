package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/rentals/internal/service"
)

const (
	QueueDefault         = "default"
	TaskTypeRetentionRun = "retention:run"
	retentionRunTimeout  = time.Hour
)

// RetentionRunner runs retention over all data categories
type RetentionRunner interface {
	Run(ctx context.Context) (service.ProcessResult, error)
}

// NewRetentionRunTask builds task starting retention run, it carries no payload
func NewRetentionRunTask() *asynq.Task {
	return asynq.NewTask(TaskTypeRetentionRun, nil, asynq.MaxRetry(0), asynq.Timeout(retentionRunTimeout))
}

// RetentionRunHandler handles retention task. Failures are logged and never returned,
// so a broken run is not retried by the queue and is picked up by the next schedule.
func RetentionRunHandler(runner RetentionRunner, logger logrus.FieldLogger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		res, err := runner.Run(ctx)
		if err != nil {
			logger.WithError(err).Error("scheduled data retention run failed")
			return nil
		}

		logger.WithFields(logrus.Fields{
			"deleted":    len(res.Deleted),
			"anonymized": len(res.Anonymized),
			"retained":   len(res.Retained),
		}).Info("scheduled data retention run completed")
		return nil
	}
}

// WorkerConfig collects dependencies required to bootstrap the worker
type WorkerConfig struct {
	RedisOpts         asynq.RedisClientOpt
	Logger            logrus.FieldLogger
	Retention         RetentionRunner
	RetentionSchedule string
	RetentionEnabled  bool
}

// Worker wraps the asynq server and optional scheduler
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    logrus.FieldLogger
}

func NewWorker(cfg WorkerConfig) (*Worker, error) {
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			QueueDefault: 1,
		},
		Logger: &asynqLogger{logger: cfg.Logger},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeRetentionRun, RetentionRunHandler(cfg.Retention, cfg.Logger))

	var scheduler *asynq.Scheduler
	if cfg.RetentionEnabled {
		scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{
			Location: time.UTC,
			Logger:   &asynqLogger{logger: cfg.Logger},
		})
		if _, err := scheduler.Register(cfg.RetentionSchedule, NewRetentionRunTask(), asynq.Queue(QueueDefault)); err != nil {
			return nil, err
		}
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, logger: cfg.Logger}, nil
}

// Run starts processing jobs until context cancellation
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}

	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
	}

	if err := w.server.Start(w.mux); err != nil {
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		return err
	}

	<-ctx.Done()
	w.logger.Info("stopping job worker...")
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
	return nil
}

type asynqLogger struct {
	logger logrus.FieldLogger
}

func (l *asynqLogger) Debug(args ...any) { l.logger.Debug(args...) }
func (l *asynqLogger) Info(args ...any)  { l.logger.Info(args...) }
func (l *asynqLogger) Warn(args ...any)  { l.logger.Warn(args...) }
func (l *asynqLogger) Error(args ...any) { l.logger.Error(args...) }
func (l *asynqLogger) Fatal(args ...any) { l.logger.Fatal(args...) }
