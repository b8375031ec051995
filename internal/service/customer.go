package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/rentals/internal/audit"
	"github.com/umalmyha/rentals/internal/cache"
	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/repository"
	"github.com/umalmyha/rentals/internal/swiss"
	"github.com/umalmyha/rentals/pkg/db/transactor"
)

const (
	erasureReason          = "GDPR compliance - customer deletion request"
	profileUpdateReason    = "Customer profile updated"
	defaultAuditLogsLimit  = 20
	defaultPageLimit       = 20
	maxPageLimit           = 100
	maxAuditLogsLimit      = 200
	documentWarningDays    = 30
	documentCriticalDays   = 7
	defaultCustomerCountry = "CH"
)

// ExpiryLevel is urgency of document expiry warning
type ExpiryLevel string

const (
	ExpiryExpired  ExpiryLevel = "expired"
	ExpiryCritical ExpiryLevel = "critical"
	ExpiryWarning  ExpiryLevel = "warning"
)

// DocumentKind is kind of customer document which expires
type DocumentKind string

const (
	DocumentIdentity       DocumentKind = "identity"
	DocumentDriversLicense DocumentKind = "drivers_license"
)

// NewCustomer is registration data of customer
type NewCustomer struct {
	OrganizationID       string
	FirstName            string
	LastName             string
	Email                string
	Phone                string
	DateOfBirth          *time.Time
	DocumentType         swiss.DocumentType
	DocumentNumber       string
	DocumentExpiry       *time.Time
	DriversLicenseNumber *string
	DriversLicenseExpiry *time.Time
	Street               string
	City                 string
	Canton               string
	PostalCode           string
	Country              string
	Notes                *string
	GDPRConsentVersion   *string
	MarketingConsent     bool
}

// CustomerUpdate is partial profile change, nil fields stay untouched.
// Flags, blacklist and VIP markers are changed through FlagService only.
type CustomerUpdate struct {
	FirstName            *string
	LastName             *string
	Email                *string
	Phone                *string
	DateOfBirth          *time.Time
	DocumentType         *swiss.DocumentType
	DocumentNumber       *string
	DocumentExpiry       *time.Time
	DriversLicenseNumber *string
	DriversLicenseExpiry *time.Time
	Street               *string
	City                 *string
	Canton               *string
	PostalCode           *string
	Country              *string
	Notes                *string
	MarketingConsent     *bool
	Reason               string
}

// CustomerQuery is search over organization customers, Page starts with 1
type CustomerQuery struct {
	OrganizationID string
	Query          string
	Page           int
	Limit          int
}

// CustomerPage is one page of customer search
type CustomerPage struct {
	Customers  []*model.Customer
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// ErasureResult is outcome of GDPR erase request
type ErasureResult struct {
	CustomerID  string          `json:"customerId"`
	HardDeleted bool            `json:"hardDeleted"`
	Customer    *model.Customer `json:"-"`
}

// DocumentWarning is expired or soon expiring customer document
type DocumentWarning struct {
	CustomerID      string       `json:"customerId"`
	CustomerName    string       `json:"customerName"`
	Document        DocumentKind `json:"document"`
	ExpiresAt       time.Time    `json:"expiresAt"`
	DaysUntilExpiry int          `json:"daysUntilExpiry"`
	Level           ExpiryLevel  `json:"level"`
}

// CustomerService is registration, lookup, profile maintenance and GDPR erasure of customers
type CustomerService interface {
	Create(context.Context, NewCustomer, model.Actor) (*model.Customer, error)
	FindByID(context.Context, string, model.Actor) (*model.Customer, error)
	FindAll(context.Context, CustomerQuery) (CustomerPage, error)
	Update(ctx context.Context, id string, u CustomerUpdate, actor model.Actor) (*model.Customer, error)
	Erase(ctx context.Context, id string, hardDelete bool, actor model.Actor) (ErasureResult, error)
	FindAuditLogs(ctx context.Context, id string, limit int) ([]*model.CustomerAuditLog, error)
	ExpiringDocuments(ctx context.Context, organizationID string) ([]DocumentWarning, error)
}

type customerService struct {
	trx          transactor.Transactor
	customerRepo repository.CustomerRepository
	contractRepo repository.ContractRepository
	auditRepo    repository.CustomerAuditLogRepository
	cache        cache.CustomerCache
	events       EventLogger
	logger       logrus.FieldLogger
	now          func() time.Time
}

// NewCustomerService builds CustomerService
func NewCustomerService(
	trx transactor.Transactor,
	customerRepo repository.CustomerRepository,
	contractRepo repository.ContractRepository,
	auditRepo repository.CustomerAuditLogRepository,
	cache cache.CustomerCache,
	events EventLogger,
	logger logrus.FieldLogger,
) CustomerService {
	return &customerService{
		trx:          trx,
		customerRepo: customerRepo,
		contractRepo: contractRepo,
		auditRepo:    auditRepo,
		cache:        cache,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// Create validates Swiss specific fields, normalizes phone and rejects duplicates within organization.
// Missing canton is derived from postal code where possible.
func (s *customerService) Create(ctx context.Context, nc NewCustomer, actor model.Actor) (*model.Customer, error) {
	if nc.Canton == "" {
		canton, ok := swiss.CantonFromPostalCode(nc.PostalCode)
		if !ok {
			return nil, apperrors.NewValidationErr("canton", fmt.Sprintf("can't be derived from postal code %q, must be provided", nc.PostalCode))
		}
		nc.Canton = canton
	}

	if err := validateNewCustomer(nc); err != nil {
		return nil, err
	}

	nc.Phone = swiss.FormatPhone(nc.Phone)
	nc.Email = strings.ToLower(strings.TrimSpace(nc.Email))
	if nc.Country == "" {
		nc.Country = defaultCustomerCountry
	}

	now := s.now().UTC()
	c := &model.Customer{
		ID:                   uuid.NewString(),
		OrganizationID:       nc.OrganizationID,
		FirstName:            nc.FirstName,
		LastName:             nc.LastName,
		Email:                nc.Email,
		Phone:                nc.Phone,
		DateOfBirth:          nc.DateOfBirth,
		DocumentType:         nc.DocumentType,
		DocumentNumber:       nc.DocumentNumber,
		DocumentExpiry:       nc.DocumentExpiry,
		DriversLicenseNumber: nc.DriversLicenseNumber,
		DriversLicenseExpiry: nc.DriversLicenseExpiry,
		Street:               nc.Street,
		City:                 nc.City,
		Canton:               nc.Canton,
		PostalCode:           nc.PostalCode,
		Country:              nc.Country,
		Notes:                nc.Notes,
		Status:               model.StatusActive,
		Flags:                []model.Flag{},
		LifetimeValue:        decimal.Zero,
		OutstandingBalance:   decimal.Zero,
		GDPRConsentVersion:   nc.GDPRConsentVersion,
		MarketingConsent:     nc.MarketingConsent,
		LastActivityDate:     &now,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if nc.GDPRConsentVersion != nil {
		c.GDPRConsentDate = &now
	}

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		dup, err := s.customerRepo.FindDuplicate(ctx, c.OrganizationID, c.Email, c.Phone, c.DocumentNumber)
		if err != nil {
			return fmt.Errorf("failed to search duplicates - %w", err)
		}

		if dup != nil {
			return duplicateOf(dup, c)
		}

		if err := s.customerRepo.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to create customer - %w", err)
		}

		l := newCustomerAuditLog(c.ID, actor, model.AuditActionCreate, "Customer registered", now)
		if l.NewValue, err = jsonValue(c.Masked()); err != nil {
			return fmt.Errorf("failed to build audit entry - %w", err)
		}
		return s.auditRepo.CreateMany(ctx, []*model.CustomerAuditLog{l})
	})
	if err != nil {
		return nil, err
	}

	e := audit.PersonalData(audit.EventDataCreate, actor, "Customer registered", model.CategoryPersonal, model.BasisContract)
	e.ResourceType = customerResource
	e.ResourceID = c.ID
	e.Canton = c.Canton
	e.OrganizationID = c.OrganizationID
	s.events.Log(ctx, e)

	return c, nil
}

// FindByID reads customer through cache and records personal data access
func (s *customerService) FindByID(ctx context.Context, id string, actor model.Actor) (*model.Customer, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	e := audit.PersonalData(audit.EventDataAccess, actor, "Customer record viewed", model.CategoryPersonal, model.BasisContract)
	e.ResourceType = customerResource
	e.ResourceID = c.ID
	e.Canton = c.Canton
	e.OrganizationID = c.OrganizationID
	s.events.Log(ctx, e)

	return c, nil
}

// FindAll searches organization customers by name, email, phone or document number, most recently updated first
func (s *customerService) FindAll(ctx context.Context, q CustomerQuery) (CustomerPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}

	switch {
	case q.Limit <= 0:
		q.Limit = defaultPageLimit
	case q.Limit > maxPageLimit:
		q.Limit = maxPageLimit
	}

	customers, total, err := s.customerRepo.FindAll(ctx, repository.CustomerFilter{
		OrganizationID: q.OrganizationID,
		Query:          strings.TrimSpace(q.Query),
		Offset:         (q.Page - 1) * q.Limit,
		Limit:          q.Limit,
	})
	if err != nil {
		return CustomerPage{}, fmt.Errorf("failed to search customers of organization %s - %w", q.OrganizationID, err)
	}

	return CustomerPage{
		Customers:  customers,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

// Update applies profile changes, every changed field gets its own audit entry.
// Email and phone must stay unique within organization.
func (s *customerService) Update(ctx context.Context, id string, u CustomerUpdate, actor model.Actor) (*model.Customer, error) {
	if u.Phone != nil {
		if !swiss.ValidatePhone(*u.Phone) {
			return nil, apperrors.NewValidationErr("phone", "not a valid Swiss phone number")
		}
		phone := swiss.FormatPhone(*u.Phone)
		u.Phone = &phone
	}

	if u.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*u.Email))
		u.Email = &email
	}

	reason := u.Reason
	if reason == "" {
		reason = profileUpdateReason
	}

	var (
		c       *model.Customer
		changes []fieldChange
	)

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.customerRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to read customer %s - %w", id, err)
		}

		if c == nil {
			return apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer %s not found", id))
		}

		if c.IsAnonymized() {
			return apperrors.NewBusinessErr("customer", "anonymized customer can't be updated")
		}

		prevEmail, prevPhone := c.Email, c.Phone
		if changes = applyCustomerUpdate(c, u); len(changes) == 0 {
			return nil
		}

		if err := validateProfile(c.PostalCode, c.Canton, c.DocumentType, c.DocumentNumber); err != nil {
			return err
		}

		if c.Email != prevEmail || c.Phone != prevPhone {
			conflict, err := s.customerRepo.FindContactConflict(ctx, c.OrganizationID, c.ID, c.Email, c.Phone)
			if err != nil {
				return fmt.Errorf("failed to search contact conflicts - %w", err)
			}

			if conflict != nil {
				return duplicateOf(conflict, c)
			}
		}

		now := s.now().UTC()
		c.LastActivityDate = &now
		c.UpdatedAt = now

		if err := s.customerRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to update customer %s - %w", id, err)
		}

		logs := make([]*model.CustomerAuditLog, 0, len(changes))
		for _, ch := range changes {
			l, err := ch.auditLog(id, actor, reason, now)
			if err != nil {
				return fmt.Errorf("failed to build audit entry - %w", err)
			}
			logs = append(logs, l)
		}
		return s.auditRepo.CreateMany(ctx, logs)
	})
	if err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		return c, nil
	}

	if err := s.cache.EvictByID(ctx, id); err != nil {
		s.logger.Warnf("failed to evict customer %s from cache - %v", id, err)
	}

	fields := make([]string, 0, len(changes))
	for _, ch := range changes {
		fields = append(fields, ch.field)
	}

	e := audit.PersonalData(audit.EventDataUpdate, actor, reason, model.CategoryPersonal, model.BasisContract)
	e.ResourceType = customerResource
	e.ResourceID = c.ID
	e.AffectedFields = fields
	e.Canton = c.Canton
	e.OrganizationID = c.OrganizationID
	s.events.Log(ctx, e)

	return c, nil
}

func (s *customerService) find(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.cache.FindByID(ctx, id)
	if err != nil {
		s.logger.Warnf("failed to read customer %s from cache - %v", id, err)
	}

	if c != nil {
		return c, nil
	}

	c, err = s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer %s - %w", id, err)
	}

	if c == nil {
		return nil, apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer %s not found", id))
	}

	if err := s.cache.Cache(ctx, c); err != nil {
		s.logger.Warnf("failed to cache customer %s - %v", id, err)
	}
	return c, nil
}

// Erase anonymizes customer in place or, when hardDelete is requested, removes customer without contract history.
// Customers with active or draft contracts can't be erased.
func (s *customerService) Erase(ctx context.Context, id string, hardDelete bool, actor model.Actor) (ErasureResult, error) {
	var (
		res     ErasureResult
		erased  bool
		affects []string
	)

	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.customerRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to read customer %s - %w", id, err)
		}

		if c == nil {
			return apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer %s not found", id))
		}

		total, open, err := s.contractRepo.CountByCustomerID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count contracts of customer %s - %w", id, err)
		}

		if open > 0 {
			return apperrors.NewBusinessErr("customer", "Cannot delete customer with active contracts")
		}

		now := s.now().UTC()
		res = ErasureResult{CustomerID: id, HardDeleted: hardDelete, Customer: c}

		if hardDelete {
			if total > 0 {
				return apperrors.NewBusinessErr("customer", "customer with contract history must be anonymized instead of deleted")
			}

			l := newCustomerAuditLog(id, actor, model.AuditActionDelete, erasureReason, now)
			if err := s.auditRepo.CreateMany(ctx, []*model.CustomerAuditLog{l}); err != nil {
				return fmt.Errorf("failed to write audit entry - %w", err)
			}

			if err := s.customerRepo.DeleteByID(ctx, id); err != nil {
				return fmt.Errorf("failed to delete customer %s - %w", id, err)
			}

			res.Customer = nil
			erased, affects = true, []string{"*"}
			return nil
		}

		if c.IsAnonymized() {
			return nil
		}

		c.Anonymize(now)
		if err := s.customerRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to anonymize customer %s - %w", id, err)
		}

		l := newCustomerAuditLog(id, actor, model.AuditActionAnonymize, erasureReason, now)
		if err := s.auditRepo.CreateMany(ctx, []*model.CustomerAuditLog{l}); err != nil {
			return fmt.Errorf("failed to write audit entry - %w", err)
		}

		erased, affects = true, anonymizedCustomerFields
		return nil
	})
	if err != nil {
		return ErasureResult{}, err
	}

	if err := s.cache.EvictByID(ctx, id); err != nil {
		s.logger.Warnf("failed to evict customer %s from cache - %v", id, err)
	}

	if erased {
		t := audit.EventDataAnonymize
		if hardDelete {
			t = audit.EventDataDelete
		}

		e := audit.PersonalData(t, actor, erasureReason, model.CategoryPersonal, model.BasisLegalObligation)
		e.ResourceType = customerResource
		e.ResourceID = id
		e.AffectedFields = affects
		s.events.Log(ctx, e)
	}

	return res, nil
}

var anonymizedCustomerFields = []string{
	"firstName", "lastName", "email", "phone", "dateOfBirth", "documentNumber",
	"driversLicenseNumber", "street", "city", "postalCode", "notes",
}

func (s *customerService) FindAuditLogs(ctx context.Context, id string, limit int) ([]*model.CustomerAuditLog, error) {
	switch {
	case limit <= 0:
		limit = defaultAuditLogsLimit
	case limit > maxAuditLogsLimit:
		limit = maxAuditLogsLimit
	}

	logs, err := s.auditRepo.FindByCustomerID(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit logs of customer %s - %w", id, err)
	}
	return logs, nil
}

// ExpiringDocuments reports documents of organization customers which expired or expire within 30 days, most urgent first
func (s *customerService) ExpiringDocuments(ctx context.Context, organizationID string) ([]DocumentWarning, error) {
	now := s.now().UTC()

	customers, err := s.customerRepo.FindWithExpiringDocuments(ctx, organizationID, now.AddDate(0, 0, documentWarningDays))
	if err != nil {
		return nil, fmt.Errorf("failed to read customers with expiring documents - %w", err)
	}

	warnings := make([]DocumentWarning, 0)
	for _, c := range customers {
		name := fmt.Sprintf("%s %s", c.FirstName, c.LastName)
		if w, ok := documentWarning(c.ID, name, DocumentIdentity, c.DocumentExpiry, now); ok {
			warnings = append(warnings, w)
		}
		if w, ok := documentWarning(c.ID, name, DocumentDriversLicense, c.DriversLicenseExpiry, now); ok {
			warnings = append(warnings, w)
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].DaysUntilExpiry < warnings[j].DaysUntilExpiry
	})
	return warnings, nil
}

func documentWarning(customerID, name string, kind DocumentKind, expiry *time.Time, now time.Time) (DocumentWarning, bool) {
	if expiry == nil {
		return DocumentWarning{}, false
	}

	days := int(math.Floor(expiry.Sub(now).Hours() / 24))

	var level ExpiryLevel
	switch {
	case days < 0:
		level = ExpiryExpired
	case days <= documentCriticalDays:
		level = ExpiryCritical
	case days <= documentWarningDays:
		level = ExpiryWarning
	default:
		return DocumentWarning{}, false
	}

	return DocumentWarning{
		CustomerID:      customerID,
		CustomerName:    name,
		Document:        kind,
		ExpiresAt:       *expiry,
		DaysUntilExpiry: days,
		Level:           level,
	}, true
}

func validateNewCustomer(nc NewCustomer) error {
	if !swiss.ValidatePhone(nc.Phone) {
		return apperrors.NewValidationErr("phone", "not a valid Swiss phone number")
	}
	return validateProfile(nc.PostalCode, nc.Canton, nc.DocumentType, nc.DocumentNumber)
}

func validateProfile(postalCode, canton string, docType swiss.DocumentType, docNumber string) error {
	if !swiss.ValidatePostalCode(postalCode) {
		return apperrors.NewValidationErr("postalCode", "must be 4 digits between 1000 and 9999")
	}

	if !swiss.ValidateCanton(canton) {
		return apperrors.NewValidationErr("canton", fmt.Sprintf("unknown canton %q", canton))
	}

	if !swiss.KnownDocumentType(docType) {
		return apperrors.NewValidationErr("documentType", fmt.Sprintf("unknown document type %q", docType))
	}

	if !swiss.ValidateIDDocument(docType, docNumber) {
		return apperrors.NewValidationErr("documentNumber", fmt.Sprintf("invalid number for %s", docType))
	}
	return nil
}

func duplicateOf(existing, c *model.Customer) error {
	switch {
	case existing.Email == c.Email:
		return apperrors.NewDuplicateErr("email", c.Email)
	case existing.Phone == c.Phone:
		return apperrors.NewDuplicateErr("phone", c.Phone)
	default:
		return apperrors.NewDuplicateErr("document number", swiss.MaskSensitiveData(c.DocumentNumber, swiss.MaskID))
	}
}
