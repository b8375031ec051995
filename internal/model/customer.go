package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/umalmyha/rentals/internal/swiss"
)

// Status is customer compliance status
type Status string

const (
	// StatusActive is the initial status of every registered customer
	StatusActive Status = "ACTIVE"
	// StatusInactive is terminal status reached by anonymization
	StatusInactive Status = "INACTIVE"
	// StatusVIP marks customer with VIP treatment
	StatusVIP Status = "VIP"
	// StatusBlacklisted marks customer who must not rent
	StatusBlacklisted Status = "BLACKLISTED"
)

// Flag is enumerated risk/status marker
type Flag string

const (
	FlagVIP             Flag = "VIP"
	FlagPaymentRisk     Flag = "PAYMENT_RISK"
	FlagDamageRisk      Flag = "DAMAGE_RISK"
	FlagSpecialNeeds    Flag = "SPECIAL_NEEDS"
	FlagRequiresDeposit Flag = "REQUIRES_DEPOSIT"
	FlagLateReturn      Flag = "LATE_RETURN"
	FlagFraudSuspected  Flag = "FRAUD_SUSPECTED"
	FlagDocumentIssue   Flag = "DOCUMENT_ISSUE"
)

var knownFlags = map[Flag]struct{}{
	FlagVIP:             {},
	FlagPaymentRisk:     {},
	FlagDamageRisk:      {},
	FlagSpecialNeeds:    {},
	FlagRequiresDeposit: {},
	FlagLateReturn:      {},
	FlagFraudSuspected:  {},
	FlagDocumentIssue:   {},
}

// Valid reports whether flag is a known marker
func (f Flag) Valid() bool {
	_, ok := knownFlags[f]
	return ok
}

// Customer is customer model entity
type Customer struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`

	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth"`

	DocumentType         swiss.DocumentType `json:"documentType"`
	DocumentNumber       string             `json:"documentNumber"`
	DocumentExpiry       *time.Time         `json:"documentExpiry"`
	DriversLicenseNumber *string            `json:"driversLicenseNumber"`
	DriversLicenseExpiry *time.Time         `json:"driversLicenseExpiry"`

	Street     string  `json:"street"`
	City       string  `json:"city"`
	Canton     string  `json:"canton"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	Notes      *string `json:"notes"`

	Status          Status     `json:"status"`
	Flags           []Flag     `json:"flags"`
	Blacklisted     bool       `json:"blacklisted"`
	BlacklistReason *string    `json:"blacklistReason"`
	BlacklistExpiry *time.Time `json:"blacklistExpiry"`
	VIPStatus       bool       `json:"vipStatus"`
	PaymentRisk     bool       `json:"paymentRisk"`
	DamageRisk      bool       `json:"damageRisk"`
	SpecialNeeds    *string    `json:"specialNeeds"`

	LifetimeValue      decimal.Decimal `json:"lifetimeValue"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	TotalRentals       int             `json:"totalRentals"`

	GDPRConsentDate    *time.Time `json:"gdprConsentDate"`
	GDPRConsentVersion *string    `json:"gdprConsentVersion"`
	MarketingConsent   bool       `json:"marketingConsent"`
	AnonymizedAt       *time.Time `json:"anonymizedAt"`

	LastActivityDate *time.Time `json:"lastActivityDate"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// HasFlag reports whether customer carries flag f
func (c *Customer) HasFlag(f Flag) bool {
	for _, flag := range c.Flags {
		if flag == f {
			return true
		}
	}
	return false
}

// IsAnonymized reports whether customer personal data was already scrubbed
func (c *Customer) IsAnonymized() bool {
	return c.AnonymizedAt != nil
}

// Anonymize irreversibly scrubs personal fields in place, keeping aggregates and canton.
// Blacklist and VIP markers are lifted as the customer becomes INACTIVE.
func (c *Customer) Anonymize(at time.Time) {
	c.FirstName = "DELETED"
	c.LastName = "DELETED"
	c.Email = fmt.Sprintf("deleted_%s@deleted.com", c.ID)
	c.Phone = "0000000000"
	c.DateOfBirth = nil
	c.DocumentNumber = "DELETED"
	c.DriversLicenseNumber = nil
	c.Street = "DELETED"
	c.City = "DELETED"
	c.PostalCode = "0000"
	c.Notes = nil
	c.SpecialNeeds = nil
	c.Blacklisted = false
	c.BlacklistReason = nil
	c.BlacklistExpiry = nil
	c.VIPStatus = false
	c.Status = StatusInactive
	c.AnonymizedAt = &at
	c.UpdatedAt = at
}

// Masked returns copy of customer with document numbers, email and phone redacted
func (c *Customer) Masked() *Customer {
	masked := *c
	masked.Flags = append([]Flag(nil), c.Flags...)
	if c.IsAnonymized() {
		return &masked
	}

	masked.DocumentNumber = swiss.MaskSensitiveData(c.DocumentNumber, swiss.MaskID)
	if c.DriversLicenseNumber != nil {
		license := swiss.MaskSensitiveData(*c.DriversLicenseNumber, swiss.MaskID)
		masked.DriversLicenseNumber = &license
	}
	masked.Email = swiss.MaskSensitiveData(c.Email, swiss.MaskEmail)
	masked.Phone = swiss.MaskSensitiveData(c.Phone, swiss.MaskPhone)
	return &masked
}
