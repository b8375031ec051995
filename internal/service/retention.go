package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/metrics"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/repository"
	"github.com/umalmyha/rentals/internal/retention"
)

const (
	retentionBatchSize = 500
	retentionResource  = "retention_record"
)

var anonymizedRecordFields = []string{
	"firstName", "lastName", "email", "phone", "dateOfBirth", "street", "city",
	"postalCode", "country", "driversLicense", "passport",
}

// ProcessResult is ids of processed records grouped by applied disposition
type ProcessResult struct {
	Deleted    []string `json:"deleted"`
	Anonymized []string `json:"anonymized"`
	Retained   []string `json:"retained"`
}

func (r *ProcessResult) merge(other ProcessResult) {
	r.Deleted = append(r.Deleted, other.Deleted...)
	r.Anonymized = append(r.Anonymized, other.Anonymized...)
	r.Retained = append(r.Retained, other.Retained...)
}

// CategoryStats is retention state of single data category
type CategoryStats struct {
	Category            model.DataCategory `json:"category"`
	TotalRecords        int                `json:"totalRecords"`
	ExpiredRecords      int                `json:"expiredRecords"`
	UpcomingExpirations int                `json:"upcomingExpirations"`
}

// RetentionReport is retention compliance report
type RetentionReport struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Policies    []retention.Policy `json:"policies"`
	Statistics  []CategoryStats    `json:"statistics"`
}

// RetentionService applies retention policies to stored records
type RetentionService interface {
	ProcessExpiredData(context.Context, []*model.RetentionRecord) (ProcessResult, error)
	Run(context.Context) (ProcessResult, error)
	ComplianceReport(context.Context) (*RetentionReport, error)
}

type retentionService struct {
	recordRepo repository.RetentionRecordRepository
	events     EventLogger
	logger     logrus.FieldLogger
	now        func() time.Time
}

// NewRetentionService builds RetentionService
func NewRetentionService(recordRepo repository.RetentionRecordRepository, events EventLogger, logger logrus.FieldLogger) RetentionService {
	return &retentionService{
		recordRepo: recordRepo,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessExpiredData decides and applies disposition of every record. Anonymization wins over deletion,
// already anonymized records are retained untouched so reprocessing is a no-op.
func (s *retentionService) ProcessExpiredData(ctx context.Context, records []*model.RetentionRecord) (ProcessResult, error) {
	res := ProcessResult{Deleted: []string{}, Anonymized: []string{}, Retained: []string{}}
	now := s.now().UTC()

	for _, rec := range records {
		if rec.IsAnonymized() {
			res.Retained = append(res.Retained, rec.ID)
			continue
		}

		action, err := retention.Decide(rec.Category, rec.CreatedAt, now)
		if err != nil {
			s.logger.Warnf("Data retention: Record %s has no retention policy - %v", rec.ID, err)
			res.Retained = append(res.Retained, rec.ID)
			continue
		}

		switch action {
		case retention.ActionAnonymize:
			rec.Data = retention.AnonymizePersonalData(rec.Data)
			rec.AnonymizedAt = &now
			if err := s.recordRepo.MarkAnonymized(ctx, rec); err != nil {
				return res, fmt.Errorf("failed to anonymize record %s - %w", rec.ID, err)
			}
			res.Anonymized = append(res.Anonymized, rec.ID)
			s.logRecordEvent(ctx, audit.EventDataAnonymize, rec, fmt.Sprintf("Anonymized expired %s data", rec.Category), anonymizedRecordFields)
		case retention.ActionDelete:
			if err := s.recordRepo.DeleteByID(ctx, rec.ID); err != nil {
				return res, fmt.Errorf("failed to delete record %s - %w", rec.ID, err)
			}
			res.Deleted = append(res.Deleted, rec.ID)
			s.logRecordEvent(ctx, audit.EventDataDelete, rec, fmt.Sprintf("Deleted expired %s data", rec.Category), nil)
		case retention.ActionRetainWithWarning:
			s.logger.WithField("category", rec.Category).
				Warnf("Data retention: Record %s expired but not configured for auto-deletion", rec.ID)
			res.Retained = append(res.Retained, rec.ID)
		default:
			res.Retained = append(res.Retained, rec.ID)
		}

		metrics.RetentionRecords.WithLabelValues(string(rec.Category), string(action)).Inc()
	}

	return res, nil
}

func (s *retentionService) logRecordEvent(ctx context.Context, t audit.EventType, rec *model.RetentionRecord, action string, fields []string) {
	e := audit.PersonalData(t, model.DefaultActor(), action, rec.Category, model.BasisLegalObligation)
	e.ResourceType = retentionResource
	e.ResourceID = rec.ID
	e.AffectedFields = fields
	e.Canton = rec.Data.Canton
	e.Metadata = map[string]any{"reason": "Retention period expired"}
	s.events.Log(ctx, e)
}

// Run processes expired records of every category in batches. Outcome is logged as compliance event.
func (s *retentionService) Run(ctx context.Context) (ProcessResult, error) {
	res, err := s.run(ctx)
	if err != nil {
		metrics.RetentionRuns.WithLabelValues("failure").Inc()

		s.events.Log(ctx, audit.SecurityAlert(model.DefaultActor(), "Data retention processing failed", err))
		return res, err
	}

	metrics.RetentionRuns.WithLabelValues("success").Inc()

	e := audit.ForActor(audit.EventAdminAccess, model.DefaultActor(), "Data retention processing completed")
	e.Metadata = map[string]any{
		"timestamp":  s.now().UTC().Format(time.RFC3339),
		"deleted":    len(res.Deleted),
		"anonymized": len(res.Anonymized),
		"retained":   len(res.Retained),
	}
	s.events.Log(ctx, e)
	return res, nil
}

func (s *retentionService) run(ctx context.Context) (ProcessResult, error) {
	total := ProcessResult{Deleted: []string{}, Anonymized: []string{}, Retained: []string{}}

	for _, p := range retention.Policies() {
		cutoff := p.Cutoff(s.now().UTC())

		for {
			records, err := s.recordRepo.FindExpired(ctx, p.Category, cutoff, retentionBatchSize)
			if err != nil {
				return total, fmt.Errorf("failed to read expired %s records - %w", p.Category, err)
			}

			res, err := s.ProcessExpiredData(ctx, records)
			total.merge(res)
			if err != nil {
				return total, err
			}

			// retained records stay expired, next page would return them again
			if len(records) < retentionBatchSize || len(res.Retained) > 0 {
				break
			}
		}
	}

	return total, nil
}

func (s *retentionService) ComplianceReport(ctx context.Context) (*RetentionReport, error) {
	now := s.now().UTC()
	policies := retention.Policies()

	stats := make([]CategoryStats, 0, len(policies))
	for _, p := range policies {
		cutoff := p.Cutoff(now)
		st, err := s.recordRepo.Stats(ctx, p.Category, cutoff, cutoff.AddDate(0, 0, retention.ExpiringWindowDays))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s retention stats - %w", p.Category, err)
		}

		stats = append(stats, CategoryStats{
			Category:            p.Category,
			TotalRecords:        st.Total,
			ExpiredRecords:      st.Expired,
			UpcomingExpirations: st.Expiring,
		})
	}

	return &RetentionReport{
		GeneratedAt: now,
		Policies:    policies,
		Statistics:  stats,
	}, nil
}
