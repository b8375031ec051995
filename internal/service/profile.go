package service

import (
	"time"

	"github.com/umalmyha/rentals/internal/model"
	"github.com/umalmyha/rentals/internal/swiss"
)

// masks applied to audited values of sensitive profile fields
var maskedProfileFields = map[string]swiss.MaskKind{
	"email":                swiss.MaskEmail,
	"phone":                swiss.MaskPhone,
	"documentNumber":       swiss.MaskID,
	"driversLicenseNumber": swiss.MaskID,
}

type fieldChange struct {
	field    string
	oldValue any
	newValue any
}

func (ch fieldChange) auditLog(customerID string, actor model.Actor, reason string, at time.Time) (*model.CustomerAuditLog, error) {
	l := newCustomerAuditLog(customerID, actor, model.AuditActionUpdate, reason, at)
	field := ch.field
	l.FieldChanged = &field

	var err error
	if l.OldValue, err = jsonValue(maskProfileValue(ch.field, ch.oldValue)); err != nil {
		return nil, err
	}
	if l.NewValue, err = jsonValue(maskProfileValue(ch.field, ch.newValue)); err != nil {
		return nil, err
	}
	return l, nil
}

func maskProfileValue(field string, v any) any {
	kind, ok := maskedProfileFields[field]
	if !ok {
		return v
	}

	switch s := v.(type) {
	case string:
		return swiss.MaskSensitiveData(s, kind)
	case *string:
		if s == nil {
			return nil
		}
		return swiss.MaskSensitiveData(*s, kind)
	default:
		return v
	}
}

// applyCustomerUpdate writes provided fields into c and returns the ones which actually changed
func applyCustomerUpdate(c *model.Customer, u CustomerUpdate) []fieldChange {
	var d []fieldChange

	setValue(&d, "firstName", &c.FirstName, u.FirstName)
	setValue(&d, "lastName", &c.LastName, u.LastName)
	setValue(&d, "email", &c.Email, u.Email)
	setValue(&d, "phone", &c.Phone, u.Phone)
	setTime(&d, "dateOfBirth", &c.DateOfBirth, u.DateOfBirth)
	setValue(&d, "documentType", &c.DocumentType, u.DocumentType)
	setValue(&d, "documentNumber", &c.DocumentNumber, u.DocumentNumber)
	setTime(&d, "documentExpiry", &c.DocumentExpiry, u.DocumentExpiry)
	setOptional(&d, "driversLicenseNumber", &c.DriversLicenseNumber, u.DriversLicenseNumber)
	setTime(&d, "driversLicenseExpiry", &c.DriversLicenseExpiry, u.DriversLicenseExpiry)
	setValue(&d, "street", &c.Street, u.Street)
	setValue(&d, "city", &c.City, u.City)
	setValue(&d, "canton", &c.Canton, u.Canton)
	setValue(&d, "postalCode", &c.PostalCode, u.PostalCode)
	setValue(&d, "country", &c.Country, u.Country)
	setOptional(&d, "notes", &c.Notes, u.Notes)
	setValue(&d, "marketingConsent", &c.MarketingConsent, u.MarketingConsent)

	return d
}

func setValue[T comparable](d *[]fieldChange, field string, dst *T, v *T) {
	if v == nil || *dst == *v {
		return
	}
	*d = append(*d, fieldChange{field: field, oldValue: *dst, newValue: *v})
	*dst = *v
}

func setOptional[T comparable](d *[]fieldChange, field string, dst **T, v *T) {
	if v == nil || (*dst != nil && **dst == *v) {
		return
	}
	*d = append(*d, fieldChange{field: field, oldValue: *dst, newValue: *v})
	value := *v
	*dst = &value
}

func setTime(d *[]fieldChange, field string, dst **time.Time, v *time.Time) {
	if v == nil || (*dst != nil && (*dst).Equal(*v)) {
		return
	}
	*d = append(*d, fieldChange{field: field, oldValue: *dst, newValue: *v})
	value := v.UTC()
	*dst = &value
}
