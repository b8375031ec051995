package retention

import (
	"strings"

	"github.com/umalmyha/rentals/internal/model"
)

const (
	anonymized           = "ANONYMIZED"
	anonymizedEmailUser  = "anonymized"
	fallbackEmailDomain  = "example.com"
	anonymizedSwissPhone = "+41 XX XXX XX XX"
	anonymizedPostal     = "XXXX"
	swissCountryCode     = "CH"
	swissDialPrefix      = "+41"
)

// AnonymizeEmail drops local part keeping domain for statistics
func AnonymizeEmail(email string) string {
	if email == "" {
		return anonymized
	}

	domain := fallbackEmailDomain
	if parts := strings.SplitN(email, "@", 3); len(parts) > 1 && parts[1] != "" {
		domain = parts[1]
	}
	return anonymizedEmailUser + "@" + domain
}

// AnonymizePhone drops subscriber number keeping Swiss country code
func AnonymizePhone(phone string) string {
	if strings.HasPrefix(phone, swissDialPrefix) {
		return anonymizedSwissPhone
	}
	return anonymized
}

// AnonymizePersonalData replaces identifying fields with fixed sentinels, canton is kept
func AnonymizePersonalData(d model.PersonalData) model.PersonalData {
	return model.PersonalData{
		FirstName:      anonymized,
		LastName:       anonymized,
		Email:          AnonymizeEmail(d.Email),
		Phone:          AnonymizePhone(d.Phone),
		DateOfBirth:    nil,
		Street:         anonymized,
		City:           anonymized,
		PostalCode:     anonymizedPostal,
		Canton:         d.Canton,
		Country:        swissCountryCode,
		DriversLicense: anonymized,
		Passport:       anonymized,
	}
}
