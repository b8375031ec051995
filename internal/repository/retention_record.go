package repository

import (
	"context"
	"time"

	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/pkg/db/transactor"
)

// RetentionStats is record counts of single data category
type RetentionStats struct {
	Total    int
	Expired  int
	Expiring int
}

// RetentionRecordRepository is storage of data items subject to retention
type RetentionRecordRepository interface {
	Create(context.Context, *model.RetentionRecord) error
	FindByID(context.Context, string) (*model.RetentionRecord, error)
	FindExpired(ctx context.Context, category model.DataCategory, cutoff time.Time, limit int) ([]*model.RetentionRecord, error)
	MarkAnonymized(context.Context, *model.RetentionRecord) error
	DeleteByID(context.Context, string) error
	Stats(ctx context.Context, category model.DataCategory, expiredBefore, expiringBefore time.Time) (RetentionStats, error)
}

type postgresRetentionRecordRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

// NewPostgresRetentionRecordRepository builds RetentionRecordRepository
func NewPostgresRetentionRecordRepository(trx transactor.PgxWithinTransactionExecutor) RetentionRecordRepository {
	return &postgresRetentionRecordRepository{trx: trx}
}

func (r *postgresRetentionRecordRepository) Create(ctx context.Context, rec *model.RetentionRecord) error {
	q := "INSERT INTO retention_records(id, customer_id, category, data, created_at, anonymized_at) VALUES($1, $2, $3, $4, $5, $6)"
	_, err := r.trx.Executor(ctx).Exec(ctx, q, rec.ID, rec.CustomerID, rec.Category, rec.Data, rec.CreatedAt, rec.AnonymizedAt)
	return err
}

func (r *postgresRetentionRecordRepository) FindByID(ctx context.Context, id string) (*model.RetentionRecord, error) {
	q := "SELECT id, customer_id, category, data, created_at, anonymized_at FROM retention_records WHERE id = $1"

	var rec model.RetentionRecord
	err := r.trx.Executor(ctx).QueryRow(ctx, q, id).Scan(&rec.ID, &rec.CustomerID, &rec.Category, &rec.Data, &rec.CreatedAt, &rec.AnonymizedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// FindExpired returns not anonymized records of category created strictly before cutoff, oldest first
func (r *postgresRetentionRecordRepository) FindExpired(ctx context.Context, category model.DataCategory, cutoff time.Time, limit int) ([]*model.RetentionRecord, error) {
	q := `SELECT id, customer_id, category, data, created_at, anonymized_at FROM retention_records
		WHERE category = $1 AND created_at < $2 AND anonymized_at IS NULL
		ORDER BY created_at LIMIT $3`

	rows, err := r.trx.Executor(ctx).Query(ctx, q, category, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*model.RetentionRecord, 0)
	for rows.Next() {
		var rec model.RetentionRecord
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &rec.Category, &rec.Data, &rec.CreatedAt, &rec.AnonymizedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *postgresRetentionRecordRepository) MarkAnonymized(ctx context.Context, rec *model.RetentionRecord) error {
	q := "UPDATE retention_records SET data = $2, anonymized_at = $3 WHERE id = $1"
	_, err := r.trx.Executor(ctx).Exec(ctx, q, rec.ID, rec.Data, rec.AnonymizedAt)
	return err
}

func (r *postgresRetentionRecordRepository) DeleteByID(ctx context.Context, id string) error {
	q := "DELETE FROM retention_records WHERE id = $1"
	_, err := r.trx.Executor(ctx).Exec(ctx, q, id)
	return err
}

func (r *postgresRetentionRecordRepository) Stats(ctx context.Context, category model.DataCategory, expiredBefore, expiringBefore time.Time) (RetentionStats, error) {
	q := `SELECT count(*),
		count(*) FILTER (WHERE created_at < $2 AND anonymized_at IS NULL),
		count(*) FILTER (WHERE created_at >= $2 AND created_at < $3 AND anonymized_at IS NULL)
		FROM retention_records WHERE category = $1`

	var s RetentionStats
	if err := r.trx.Executor(ctx).QueryRow(ctx, q, category, expiredBefore, expiringBefore).Scan(&s.Total, &s.Expired, &s.Expiring); err != nil {
		return RetentionStats{}, err
	}
	return s, nil
}
