package model

import "time"

// PersonalData is identifying payload carried by stored record
type PersonalData struct {
	FirstName      string     `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName       string     `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Email          string     `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string     `json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Street         string     `json:"street,omitempty" bson:"street,omitempty"`
	City           string     `json:"city,omitempty" bson:"city,omitempty"`
	PostalCode     string     `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	Canton         string     `json:"canton,omitempty" bson:"canton,omitempty"`
	Country        string     `json:"country,omitempty" bson:"country,omitempty"`
	DriversLicense string     `json:"driversLicense,omitempty" bson:"driversLicense,omitempty"`
	Passport       string     `json:"passport,omitempty" bson:"passport,omitempty"`
}

// RetentionRecord is stored data item subject to retention rules
type RetentionRecord struct {
	ID           string       `json:"id"`
	CustomerID   *string      `json:"customerId"`
	Category     DataCategory `json:"category"`
	Data         PersonalData `json:"data"`
	CreatedAt    time.Time    `json:"createdAt"`
	AnonymizedAt *time.Time   `json:"anonymizedAt"`
}

// IsAnonymized reports whether record payload was already scrubbed
func (r *RetentionRecord) IsAnonymized() bool {
	return r.AnonymizedAt != nil
}
