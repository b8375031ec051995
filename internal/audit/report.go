package audit

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
	reportEventsLimit = MaxQueryLimit
)

// Report summarizes compliance events of a period by event type
type Report struct {
	From    time.Time         `json:"from"`
	To      time.Time         `json:"to"`
	Total   int               `json:"total"`
	Summary map[EventType]int `json:"summary"`
	Events  []Event           `json:"events"`
}

// Query reads persisted events, limit is normalized to [1, MaxQueryLimit]
func (l *Logger) Query(ctx context.Context, f Filter) ([]Event, error) {
	f.Limit = normalizeLimit(f.Limit)
	events, err := l.store.Query(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events - %w", err)
	}
	return events, nil
}

// ComplianceReport counts persisted events per type within [from, to] and attaches the latest of them
func (l *Logger) ComplianceReport(ctx context.Context, from, to time.Time) (*Report, error) {
	summary, err := l.store.CountByType(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize audit events - %w", err)
	}

	events, err := l.store.Query(ctx, Filter{From: &from, To: &to, Limit: reportEventsLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events - %w", err)
	}

	total := 0
	for _, n := range summary {
		total += n
	}

	return &Report{
		From:    from,
		To:      to,
		Total:   total,
		Summary: summary,
		Events:  events,
	}, nil
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultQueryLimit
	case limit > MaxQueryLimit:
		return MaxQueryLimit
	default:
		return limit
	}
}
