package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/rentals/internal/metrics"
)

const (
	DefaultBatchSize     = 100
	DefaultFlushInterval = 5 * time.Second
	finalFlushTimeout    = 10 * time.Second
	eventTypeTag         = "audit_event_type"
)

// Sink persists batches of events
type Sink interface {
	Persist(context.Context, []Event) error
}

// Store is sink which can also be queried for compliance reporting
type Store interface {
	Sink
	Query(context.Context, Filter) ([]Event, error)
	CountByType(ctx context.Context, from, to time.Time) (map[EventType]int, error)
}

// Config tunes buffering of Logger
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
}

// Logger validates events synchronously and persists them in batches
type Logger struct {
	store     Store
	validate  *validator.Validate
	logger    logrus.FieldLogger
	batchSize int
	interval  time.Duration
	now       func() time.Time

	mu      sync.Mutex
	buffer  []Event
	flushMu sync.Mutex
	flushCh chan struct{}
}

// NewLogger builds Logger, zero config values fall back to defaults
func NewLogger(store Store, logger logrus.FieldLogger, cfg Config) (*Logger, error) {
	v := validator.New()
	err := v.RegisterValidation(eventTypeTag, func(fl validator.FieldLevel) bool {
		return EventType(fl.Field().String()).Valid()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register audit event type validation - %w", err)
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	return &Logger{
		store:     store,
		validate:  v,
		logger:    logger,
		batchSize: cfg.BatchSize,
		interval:  cfg.FlushInterval,
		now:       time.Now,
		flushCh:   make(chan struct{}, 1),
	}, nil
}

// Log fills defaults, validates and buffers event. Invalid events are dropped with warning, caller is never failed
func (l *Logger) Log(_ context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now().UTC()
	}
	if e.Severity == "" {
		e.Severity = SeverityInfo
	}
	if e.Result == "" {
		e.Result = ResultSuccess
	}

	if err := l.validate.Struct(&e); err != nil {
		metrics.AuditEventsDropped.Inc()
		l.logger.WithFields(logrus.Fields{
			"eventType": e.EventType,
			"action":    e.Action,
		}).Warnf("invalid audit log entry dropped - %v", err)
		return
	}

	l.mu.Lock()
	l.buffer = append(l.buffer, e)
	pending := len(l.buffer)
	l.mu.Unlock()

	metrics.AuditEventsAccepted.Inc()
	metrics.AuditBufferSize.Set(float64(pending))

	if pending >= l.batchSize {
		select {
		case l.flushCh <- struct{}{}:
		default:
		}
	}
}

// LogAuth logs authentication attempt, failures get warning severity
func (l *Logger) LogAuth(ctx context.Context, t EventType, userID string, success bool, ip string, metadata map[string]any) {
	e := Event{
		EventType: t,
		Action:    fmt.Sprintf("Authentication: %s", t),
		UserID:    userID,
		IPAddress: ip,
		Result:    ResultSuccess,
		Severity:  SeverityInfo,
		Metadata:  metadata,
	}
	if !success {
		e.Result = ResultFailure
		e.Severity = SeverityWarning
	}
	l.Log(ctx, e)
}

// Pending returns number of buffered events
func (l *Logger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buffer)
}

// Flush persists buffered events. Only one flush runs at a time, failed batch is put back in front of the buffer
func (l *Logger) Flush(ctx context.Context) error {
	l.flushMu.Lock()
	defer l.flushMu.Unlock()

	l.mu.Lock()
	batch := l.buffer
	l.buffer = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := l.store.Persist(ctx, batch); err != nil {
		l.mu.Lock()
		l.buffer = append(batch, l.buffer...)
		pending := len(l.buffer)
		l.mu.Unlock()

		metrics.AuditFlushFailures.Inc()
		metrics.AuditBufferSize.Set(float64(pending))
		return fmt.Errorf("failed to persist %d audit events - %w", len(batch), err)
	}

	metrics.AuditBufferSize.Set(float64(l.Pending()))
	return nil
}

// Run flushes on interval and whenever batch size is reached until ctx is done, then flushes what is left
func (l *Logger) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
			defer cancel()

			if err := l.Flush(flushCtx); err != nil {
				return fmt.Errorf("final audit flush failed, %d events left unpersisted - %w", l.Pending(), err)
			}
			return nil
		case <-ticker.C:
			l.flush(ctx)
		case <-l.flushCh:
			l.flush(ctx)
		}
	}
}

func (l *Logger) flush(ctx context.Context) {
	if err := l.Flush(ctx); err != nil {
		l.logger.Errorf("failed to flush audit logs, batch re-queued - %v", err)
	}
}
