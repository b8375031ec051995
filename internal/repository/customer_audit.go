package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/pkg/db/transactor"
)

// CustomerAuditLogRepository is append-only storage of customer audit trail
type CustomerAuditLogRepository interface {
	CreateMany(context.Context, []*model.CustomerAuditLog) error
	FindByCustomerID(ctx context.Context, customerID string, limit int) ([]*model.CustomerAuditLog, error)
}

type postgresCustomerAuditLogRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

// NewPostgresCustomerAuditLogRepository builds CustomerAuditLogRepository
func NewPostgresCustomerAuditLogRepository(trx transactor.PgxWithinTransactionExecutor) CustomerAuditLogRepository {
	return &postgresCustomerAuditLogRepository{trx: trx}
}

func (r *postgresCustomerAuditLogRepository) CreateMany(ctx context.Context, logs []*model.CustomerAuditLog) error {
	if len(logs) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []any{
			l.ID, l.CustomerID, l.UserID, string(l.Action), l.FieldChanged, l.OldValue, l.NewValue,
			l.Reason, l.IPAddress, l.UserAgent, l.CreatedAt,
		})
	}

	columns := []string{
		"id", "customer_id", "user_id", "action", "field_changed", "old_value", "new_value",
		"reason", "ip_address", "user_agent", "created_at",
	}

	_, err := r.trx.Executor(ctx).CopyFrom(ctx, pgx.Identifier{"customer_audit_logs"}, columns, pgx.CopyFromRows(rows))
	return err
}

func (r *postgresCustomerAuditLogRepository) FindByCustomerID(ctx context.Context, customerID string, limit int) ([]*model.CustomerAuditLog, error) {
	q := `SELECT id, customer_id, user_id, action, field_changed, old_value::text, new_value::text, reason, ip_address, user_agent, created_at
		FROM customer_audit_logs WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.trx.Executor(ctx).Query(ctx, q, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*model.CustomerAuditLog, 0)
	for rows.Next() {
		var l model.CustomerAuditLog
		err := rows.Scan(&l.ID, &l.CustomerID, &l.UserID, &l.Action, &l.FieldChanged, &l.OldValue, &l.NewValue,
			&l.Reason, &l.IPAddress, &l.UserAgent, &l.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
