package repository

import (
	"context"
	"fmt"

	shopspring "github.com/jackc/pgtype/ext/shopspring-numeric"
	"github.com/jackc/pgx/v4"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/pkg/db/transactor"
)

// ContractRepository is read side of rental contracts used by risk and GDPR decisions
type ContractRepository interface {
	FindByCustomerID(context.Context, string) ([]model.Contract, error)
	CountByCustomerID(context.Context, string) (total int, open int, err error)
}

type postgresContractRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

// NewPostgresContractRepository builds ContractRepository
func NewPostgresContractRepository(trx transactor.PgxWithinTransactionExecutor) ContractRepository {
	return &postgresContractRepository{trx: trx}
}

// FindByCustomerID loads customer contracts together with payments and damages in a single round trip
func (r *postgresContractRepository) FindByCustomerID(ctx context.Context, customerID string) ([]model.Contract, error) {
	batch := &pgx.Batch{}
	batch.Queue("SELECT id, customer_id, status, total_amount, start_date FROM contracts WHERE customer_id = $1 ORDER BY start_date", customerID)
	batch.Queue(`SELECT p.contract_id, p.id, p.amount, p.status FROM payments p
		JOIN contracts c ON c.id = p.contract_id WHERE c.customer_id = $1`, customerID)
	batch.Queue(`SELECT d.contract_id, d.id, d.estimated_cost, d.actual_cost, d.status FROM damages d
		JOIN contracts c ON c.id = d.contract_id WHERE c.customer_id = $1`, customerID)

	res := r.trx.Executor(ctx).SendBatch(ctx, batch)
	defer res.Close()

	contracts, index, err := r.readContracts(res)
	if err != nil {
		return nil, fmt.Errorf("failed to read contracts - %w", err)
	}

	if err := r.readPayments(res, contracts, index); err != nil {
		return nil, fmt.Errorf("failed to read payments - %w", err)
	}

	if err := r.readDamages(res, contracts, index); err != nil {
		return nil, fmt.Errorf("failed to read damages - %w", err)
	}
	return contracts, nil
}

func (r *postgresContractRepository) CountByCustomerID(ctx context.Context, customerID string) (int, int, error) {
	q := `SELECT count(*), count(*) FILTER (WHERE status IN ('ACTIVE', 'DRAFT')) FROM contracts WHERE customer_id = $1`

	var total, open int
	if err := r.trx.Executor(ctx).QueryRow(ctx, q, customerID).Scan(&total, &open); err != nil {
		return 0, 0, err
	}
	return total, open, nil
}

func (r *postgresContractRepository) readContracts(res pgx.BatchResults) ([]model.Contract, map[string]int, error) {
	rows, err := res.Query()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	contracts := make([]model.Contract, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			c     model.Contract
			total shopspring.Numeric
		)
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.Status, &total, &c.StartDate); err != nil {
			return nil, nil, err
		}
		c.TotalAmount = total.Decimal
		c.Payments = make([]model.Payment, 0)
		c.Damages = make([]model.Damage, 0)

		index[c.ID] = len(contracts)
		contracts = append(contracts, c)
	}
	return contracts, index, rows.Err()
}

func (r *postgresContractRepository) readPayments(res pgx.BatchResults, contracts []model.Contract, index map[string]int) error {
	rows, err := res.Query()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			contractID string
			p          model.Payment
			amount     shopspring.Numeric
		)
		if err := rows.Scan(&contractID, &p.ID, &amount, &p.Status); err != nil {
			return err
		}
		p.Amount = amount.Decimal

		if i, ok := index[contractID]; ok {
			contracts[i].Payments = append(contracts[i].Payments, p)
		}
	}
	return rows.Err()
}

func (r *postgresContractRepository) readDamages(res pgx.BatchResults, contracts []model.Contract, index map[string]int) error {
	rows, err := res.Query()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			contractID string
			d          model.Damage
			estimated  shopspring.Numeric
			actual     shopspring.Numeric
		)
		if err := rows.Scan(&contractID, &d.ID, &estimated, &actual, &d.Status); err != nil {
			return err
		}
		d.EstimatedCost = nullableNumeric(estimated)
		d.ActualCost = nullableNumeric(actual)

		if i, ok := index[contractID]; ok {
			contracts[i].Damages = append(contracts[i].Damages, d)
		}
	}
	return rows.Err()
}
