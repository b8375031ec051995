package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/pkg/db/transactor"
)

const auditEventColumns = `id, timestamp, event_type, severity, user_id, user_email, user_role, session_id,
	ip_address, user_agent, request_id, request_method, request_path, resource_type, resource_id,
	action, result, error_message, data_category, legal_basis, affected_fields, metadata, canton, organization_id`

type postgresAuditStore struct {
	trx transactor.PgxWithinTransactionExecutor
}

// NewPostgresAuditStore builds audit.Store on top of audit_events table
func NewPostgresAuditStore(trx transactor.PgxWithinTransactionExecutor) audit.Store {
	return &postgresAuditStore{trx: trx}
}

// Persist inserts batch of events, already stored ids are skipped so retried batches are not duplicated
func (s *postgresAuditStore) Persist(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	q := fmt.Sprintf(`INSERT INTO audit_events(%s)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		ON CONFLICT (id) DO NOTHING`, auditEventColumns)

	batch := &pgx.Batch{}
	for _, e := range events {
		var metadata any
		if len(e.Metadata) > 0 {
			metadata = e.Metadata
		}

		batch.Queue(q, e.ID, e.Timestamp, e.EventType, e.Severity,
			nullString(e.UserID), nullString(e.UserEmail), nullString(e.UserRole), nullString(e.SessionID),
			nullString(e.IPAddress), nullString(e.UserAgent), nullString(e.RequestID), nullString(e.RequestMethod), nullString(e.RequestPath),
			nullString(e.ResourceType), nullString(e.ResourceID), e.Action, e.Result, nullString(e.ErrorMessage),
			nullString(string(e.DataCategory)), nullString(string(e.LegalBasis)), e.AffectedFields, metadata,
			nullString(e.Canton), nullString(e.OrganizationID),
		)
	}

	res := s.trx.Executor(ctx).SendBatch(ctx, batch)
	defer res.Close()

	for range events {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *postgresAuditStore) Query(ctx context.Context, f audit.Filter) ([]audit.Event, error) {
	conditions := make([]string, 0)
	args := make([]any, 0)

	where := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if f.From != nil {
		where("timestamp >= $%d", *f.From)
	}
	if f.To != nil {
		where("timestamp <= $%d", *f.To)
	}
	if f.UserID != "" {
		where("user_id = $%d", f.UserID)
	}
	if f.EventType != "" {
		where("event_type = $%d", f.EventType)
	}
	if f.Severity != "" {
		where("severity = $%d", f.Severity)
	}
	if f.ResourceID != "" {
		where("resource_id = $%d", f.ResourceID)
	}

	q := fmt.Sprintf("SELECT %s FROM audit_events", auditEventColumns)
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, f.Limit)
	q += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", len(args))

	rows, err := s.trx.Executor(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]audit.Event, 0)
	for rows.Next() {
		e, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *postgresAuditStore) CountByType(ctx context.Context, from, to time.Time) (map[audit.EventType]int, error) {
	q := "SELECT event_type, count(*) FROM audit_events WHERE timestamp >= $1 AND timestamp <= $2 GROUP BY event_type"

	rows, err := s.trx.Executor(ctx).Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make(map[audit.EventType]int)
	for rows.Next() {
		var t audit.EventType
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		summary[t] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}

func scanAuditEvent(row pgx.Row) (audit.Event, error) {
	var e audit.Event
	var userID, userEmail, userRole, sessionID, ip, userAgent, requestID, method, path *string
	var resourceType, resourceID, errMsg, category, basis, canton, orgID *string

	err := row.Scan(&e.ID, &e.Timestamp, &e.EventType, &e.Severity, &userID, &userEmail, &userRole, &sessionID,
		&ip, &userAgent, &requestID, &method, &path, &resourceType, &resourceID,
		&e.Action, &e.Result, &errMsg, &category, &basis, &e.AffectedFields, &e.Metadata, &canton, &orgID,
	)
	if err != nil {
		return audit.Event{}, err
	}

	e.UserID = deref(userID)
	e.UserEmail = deref(userEmail)
	e.UserRole = deref(userRole)
	e.SessionID = deref(sessionID)
	e.IPAddress = deref(ip)
	e.UserAgent = deref(userAgent)
	e.RequestID = deref(requestID)
	e.RequestMethod = deref(method)
	e.RequestPath = deref(path)
	e.ResourceType = deref(resourceType)
	e.ResourceID = deref(resourceID)
	e.ErrorMessage = deref(errMsg)
	e.DataCategory = model.DataCategory(deref(category))
	e.LegalBasis = model.LegalBasis(deref(basis))
	e.Canton = deref(canton)
	e.OrganizationID = deref(orgID)
	return e, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
