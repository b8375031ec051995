package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	shopspring "github.com/jackc/pgtype/ext/shopspring-numeric"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/pkg/db/transactor"
)

const customerColumns = `id, organization_id, first_name, last_name, email, phone, date_of_birth,
	document_type, document_number, document_expiry, drivers_license_number, drivers_license_expiry,
	street, city, canton, postal_code, country, notes,
	status, flags, blacklisted, blacklist_reason, blacklist_expiry, vip_status, payment_risk, damage_risk, special_needs,
	lifetime_value, outstanding_balance, total_rentals,
	gdpr_consent_date, gdpr_consent_version, marketing_consent, anonymized_at,
	last_activity_date, created_at, updated_at`

// CustomerFilter narrows customer search within organization
type CustomerFilter struct {
	OrganizationID string
	Query          string
	Offset         int
	Limit          int
}

// CustomerRepository is Postgres storage of customers
type CustomerRepository interface {
	FindByID(context.Context, string) (*model.Customer, error)
	FindByIDForUpdate(context.Context, string) (*model.Customer, error)
	FindAll(context.Context, CustomerFilter) ([]*model.Customer, int, error)
	FindDuplicate(ctx context.Context, organizationID string, email, phone, documentNumber string) (*model.Customer, error)
	FindContactConflict(ctx context.Context, organizationID, excludeID, email, phone string) (*model.Customer, error)
	FindWithExpiringDocuments(ctx context.Context, organizationID string, until time.Time) ([]*model.Customer, error)
	Create(context.Context, *model.Customer) error
	Update(context.Context, *model.Customer) error
	DeleteByID(context.Context, string) error
}

type postgresCustomerRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

// NewPostgresCustomerRepository builds CustomerRepository
func NewPostgresCustomerRepository(trx transactor.PgxWithinTransactionExecutor) CustomerRepository {
	return &postgresCustomerRepository{trx: trx}
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := fmt.Sprintf("SELECT %s FROM customers WHERE id = $1", customerColumns)
	return r.scanRow(r.trx.Executor(ctx).QueryRow(ctx, q, id))
}

// FindByIDForUpdate locks customer row until the end of surrounding transaction
func (r *postgresCustomerRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Customer, error) {
	q := fmt.Sprintf("SELECT %s FROM customers WHERE id = $1 FOR UPDATE", customerColumns)
	return r.scanRow(r.trx.Executor(ctx).QueryRow(ctx, q, id))
}

// FindAll returns page of organization customers matching query, most recently updated first, with total match count
func (r *postgresCustomerRepository) FindAll(ctx context.Context, f CustomerFilter) ([]*model.Customer, int, error) {
	where := "organization_id = $1"
	args := []any{f.OrganizationID}
	if f.Query != "" {
		where += ` AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2 OR phone LIKE $2 OR document_number LIKE $2)`
		args = append(args, "%"+escapeLike(f.Query)+"%")
	}

	var total int
	countQ := fmt.Sprintf("SELECT count(*) FROM customers WHERE %s", where)
	if err := r.trx.Executor(ctx).QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM customers WHERE %s ORDER BY updated_at DESC, id LIMIT $%d OFFSET $%d",
		customerColumns, where, len(args)+1, len(args)+2)

	rows, err := r.trx.Executor(ctx).Query(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *postgresCustomerRepository) FindDuplicate(ctx context.Context, orgID string, email, phone, docNumber string) (*model.Customer, error) {
	q := fmt.Sprintf(`SELECT %s FROM customers
		WHERE organization_id = $1 AND anonymized_at IS NULL AND (email = $2 OR phone = $3 OR document_number = $4)
		LIMIT 1`, customerColumns)
	return r.scanRow(r.trx.Executor(ctx).QueryRow(ctx, q, orgID, email, phone, docNumber))
}

// FindContactConflict finds another organization customer already using email or phone
func (r *postgresCustomerRepository) FindContactConflict(ctx context.Context, orgID, excludeID, email, phone string) (*model.Customer, error) {
	q := fmt.Sprintf(`SELECT %s FROM customers
		WHERE organization_id = $1 AND id <> $2 AND anonymized_at IS NULL AND (email = $3 OR phone = $4)
		LIMIT 1`, customerColumns)
	return r.scanRow(r.trx.Executor(ctx).QueryRow(ctx, q, orgID, excludeID, email, phone))
}

func (r *postgresCustomerRepository) FindWithExpiringDocuments(ctx context.Context, orgID string, until time.Time) ([]*model.Customer, error) {
	q := fmt.Sprintf(`SELECT %s FROM customers
		WHERE organization_id = $1 AND anonymized_at IS NULL
		  AND (document_expiry <= $2 OR drivers_license_expiry <= $2)
		ORDER BY last_name, first_name`, customerColumns)

	rows, err := r.trx.Executor(ctx).Query(ctx, q, orgID, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	q := fmt.Sprintf(`INSERT INTO customers(%s)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		       $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37)`, customerColumns)

	_, err := r.trx.Executor(ctx).Exec(ctx, q,
		c.ID, c.OrganizationID, c.FirstName, c.LastName, c.Email, c.Phone, c.DateOfBirth,
		c.DocumentType, c.DocumentNumber, c.DocumentExpiry, c.DriversLicenseNumber, c.DriversLicenseExpiry,
		c.Street, c.City, c.Canton, c.PostalCode, c.Country, c.Notes,
		c.Status, flagsToText(c.Flags), c.Blacklisted, c.BlacklistReason, c.BlacklistExpiry, c.VIPStatus, c.PaymentRisk, c.DamageRisk, c.SpecialNeeds,
		numeric(c.LifetimeValue), numeric(c.OutstandingBalance), c.TotalRentals,
		c.GDPRConsentDate, c.GDPRConsentVersion, c.MarketingConsent, c.AnonymizedAt,
		c.LastActivityDate, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *postgresCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	q := `UPDATE customers SET
		first_name = $2, last_name = $3, email = $4, phone = $5, date_of_birth = $6,
		document_type = $7, document_number = $8, document_expiry = $9, drivers_license_number = $10, drivers_license_expiry = $11,
		street = $12, city = $13, canton = $14, postal_code = $15, country = $16, notes = $17,
		status = $18, flags = $19, blacklisted = $20, blacklist_reason = $21, blacklist_expiry = $22,
		vip_status = $23, payment_risk = $24, damage_risk = $25, special_needs = $26,
		marketing_consent = $27, anonymized_at = $28, last_activity_date = $29, updated_at = $30
		WHERE id = $1`

	_, err := r.trx.Executor(ctx).Exec(ctx, q,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.DateOfBirth,
		c.DocumentType, c.DocumentNumber, c.DocumentExpiry, c.DriversLicenseNumber, c.DriversLicenseExpiry,
		c.Street, c.City, c.Canton, c.PostalCode, c.Country, c.Notes,
		c.Status, flagsToText(c.Flags), c.Blacklisted, c.BlacklistReason, c.BlacklistExpiry,
		c.VIPStatus, c.PaymentRisk, c.DamageRisk, c.SpecialNeeds,
		c.MarketingConsent, c.AnonymizedAt, c.LastActivityDate, c.UpdatedAt,
	)
	return err
}

func (r *postgresCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	q := "DELETE FROM customers WHERE id = $1"
	if _, err := r.trx.Executor(ctx).Exec(ctx, q, id); err != nil {
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) scanRow(row pgx.Row) (*model.Customer, error) {
	c, err := scanCustomer(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var (
		c           model.Customer
		flags       []string
		lifetime    shopspring.Numeric
		outstanding shopspring.Numeric
	)

	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.DateOfBirth,
		&c.DocumentType, &c.DocumentNumber, &c.DocumentExpiry, &c.DriversLicenseNumber, &c.DriversLicenseExpiry,
		&c.Street, &c.City, &c.Canton, &c.PostalCode, &c.Country, &c.Notes,
		&c.Status, &flags, &c.Blacklisted, &c.BlacklistReason, &c.BlacklistExpiry, &c.VIPStatus, &c.PaymentRisk, &c.DamageRisk, &c.SpecialNeeds,
		&lifetime, &outstanding, &c.TotalRentals,
		&c.GDPRConsentDate, &c.GDPRConsentVersion, &c.MarketingConsent, &c.AnonymizedAt,
		&c.LastActivityDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Flags = textToFlags(flags)
	c.LifetimeValue = lifetime.Decimal
	c.OutstandingBalance = outstanding.Decimal
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func flagsToText(flags []model.Flag) []string {
	text := make([]string, 0, len(flags))
	for _, f := range flags {
		text = append(text, string(f))
	}
	return text
}

func textToFlags(text []string) []model.Flag {
	flags := make([]model.Flag, 0, len(text))
	for _, t := range text {
		flags = append(flags, model.Flag(t))
	}
	return flags
}

func numeric(d decimal.Decimal) *shopspring.Numeric {
	return &shopspring.Numeric{Decimal: d, Status: pgtype.Present}
}

func nullableNumeric(n shopspring.Numeric) *decimal.Decimal {
	if n.Status != pgtype.Present {
		return nil
	}
	d := n.Decimal
	return &d
}
