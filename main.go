package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	_ "github.com/umalmyha/rentals/docs"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/auth"
	"github.com/umalmyha/rentals/internal/cache"
	"github.com/umalmyha/rentals/internal/config"
	"github.com/umalmyha/rentals/internal/handlers"
	"github.com/umalmyha/rentals/internal/infra"
	"github.com/umalmyha/rentals/internal/jobs"
	"github.com/umalmyha/rentals/internal/middleware"
	"github.com/umalmyha/rentals/internal/repository"
	"github.com/umalmyha/rentals/internal/service"
	"github.com/umalmyha/rentals/internal/validation"
	"github.com/umalmyha/rentals/pkg/db/transactor"
	"golang.org/x/sync/errgroup"
)

const DefaultConnectTimeout = 5 * time.Second

// @title       Rentals customer compliance API
// @version     1.0
// @description Customer risk, blacklist and GDPR/FADP compliance service of Swiss car rental back-office
// @BasePath    /
// @securityDefinitions.apikey ApiKeyAuth
// @in          header
// @name        Authorization
func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatalf("failed to build config - %v", err)
	}

	logger, err := newLogger(cfg.LogCfg)
	if err != nil {
		logrus.Fatalf("failed to build logger - %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := start(ctx, cfg, logger); err != nil {
		logger.Fatalf("shutting down the service, unexpected error occurred - %v", err)
	}
	logger.Info("service stopped")
}

func newLogger(cfg config.LogCfg) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

func start(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	connCtx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()

	pgPool, err := infra.Postgresql(connCtx, cfg.PostgresCfg)
	if err != nil {
		return err
	}
	defer pgPool.Close()

	redisClient, err := infra.Redis(connCtx, cfg.RedisCfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	auditStore, closeStore, err := auditStore(connCtx, cfg, pgPool)
	if err != nil {
		return err
	}
	defer closeStore()

	auditLogger, err := audit.NewLogger(auditStore, logger.WithField("component", "audit"), audit.Config{
		BatchSize:     cfg.AuditCfg.BatchSize,
		FlushInterval: cfg.AuditCfg.FlushInterval,
	})
	if err != nil {
		return err
	}

	// Transactors
	trx := transactor.NewPgxTransactor(pgPool)
	executor := transactor.NewPgxWithinTransactionExecutor(pgPool)

	// Repositories
	customerRepo := repository.NewPostgresCustomerRepository(executor)
	contractRepo := repository.NewPostgresContractRepository(executor)
	customerAuditRepo := repository.NewPostgresCustomerAuditLogRepository(executor)
	recordRepo := repository.NewPostgresRetentionRecordRepository(executor)

	// Cache
	customerCache := cache.NewRedisCustomerCache(redisClient)

	// Services
	svcLogger := logger.WithField("component", "service")
	customerSvc := service.NewCustomerService(trx, customerRepo, contractRepo, customerAuditRepo, customerCache, auditLogger, svcLogger)
	flagSvc := service.NewFlagService(trx, customerRepo, customerAuditRepo, customerCache, auditLogger, svcLogger)
	riskSvc := service.NewRiskService(customerRepo, contractRepo, auditLogger)
	retentionSvc := service.NewRetentionService(recordRepo, auditLogger, svcLogger)

	// Jobs
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:         infra.AsynqRedis(cfg.RedisCfg),
		Logger:            logger.WithField("component", "jobs"),
		Retention:         retentionSvc,
		RetentionSchedule: cfg.RetentionCfg.Schedule,
		RetentionEnabled:  cfg.RetentionCfg.Enabled,
	})
	if err != nil {
		return fmt.Errorf("failed to build job worker - %w", err)
	}

	// HTTP
	v, trans, err := validation.New()
	if err != nil {
		return err
	}

	jwtValidator := auth.NewJwtValidator(cfg.AuthCfg.SigningMethod, cfg.AuthCfg.PublicKey)
	app := infra.Router(
		infra.RouterCfg{HTTPS: cfg.HTTPCfg.HTTPS},
		logger.WithField("component", "http"),
		validation.Echo(v, trans),
		middleware.Actor(jwtValidator, auditLogger, cfg.AuthCfg.Required),
		infra.Handlers{
			Customer:   handlers.NewCustomerHTTPHandler(customerSvc, flagSvc, riskSvc),
			Compliance: handlers.NewComplianceHTTPHandler(retentionSvc, auditLogger),
		},
	)

	// audit logger outlives producers so events of in-flight requests are flushed
	auditCtx, stopAudit := context.WithCancel(context.Background())
	auditErrCh := make(chan error, 1)
	go func() {
		auditErrCh <- auditLogger.Run(auditCtx)
	}()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(gCtx, app, cfg.HTTPCfg, logger)
	})
	g.Go(func() error {
		return worker.Run(gCtx)
	})

	err = g.Wait()
	stopAudit()
	if auditErr := <-auditErrCh; auditErr != nil {
		logger.Errorf("audit logger stopped with error - %v", auditErr)
	}
	return err
}

func auditStore(ctx context.Context, cfg config.Config, pgPool *pgxpool.Pool) (audit.Store, func(), error) {
	if cfg.AuditCfg.Store == config.AuditStorePostgres {
		return repository.NewPostgresAuditStore(transactor.NewPgxWithinTransactionExecutor(pgPool)), func() {}, nil
	}

	mongoClient, err := infra.Mongodb(ctx, cfg.MongoCfg)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}

	db := mongoClient.Database(cfg.MongoCfg.Database)
	if err := repository.EnsureAuditIndexes(ctx, db); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to create audit indexes - %w", err)
	}
	return repository.NewMongoAuditStore(db), closeFn, nil
}

func serve(ctx context.Context, app *echo.Echo, cfg config.HTTPCfg, logger logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server gracefully - %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
