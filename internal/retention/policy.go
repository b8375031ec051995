package retention

import (
	"fmt"
	"time"

	apperrors "github.com/umalmyha/rentals/internal/errors"
	"github.com/umalmyha/rentals/internal/model"
)

const daysPerYear = 365

// ExpiringWindowDays is horizon within which records are reported as upcoming expirations
const ExpiringWindowDays = 30

// Action is disposition of a record after policy evaluation
type Action string

const (
	ActionRetain            Action = "retain"
	ActionDelete            Action = "delete"
	ActionAnonymize         Action = "anonymize"
	ActionRetainWithWarning Action = "retain_with_warning"
)

// Policy is static retention rule of single data category
type Policy struct {
	Category         model.DataCategory `json:"dataCategory"`
	RetentionDays    int                `json:"retentionDays"`
	Description      string             `json:"description"`
	LegalRequirement string             `json:"legalRequirement"`
	AutoDelete       bool               `json:"autoDelete"`
	AnonymizeInstead bool               `json:"anonymizeInstead"`
}

var policies = []Policy{
	{
		Category:         model.CategoryPersonal,
		RetentionDays:    10 * daysPerYear,
		Description:      "Personal customer data",
		LegalRequirement: "Swiss Code of Obligations Art. 962",
		AutoDelete:       false,
		AnonymizeInstead: true,
	},
	{
		Category:         model.CategoryFinancial,
		RetentionDays:    10 * daysPerYear,
		Description:      "Financial transactions and invoices",
		LegalRequirement: "Swiss VAT Act Art. 70",
		AutoDelete:       false,
		AnonymizeInstead: false,
	},
	{
		Category:         model.CategorySensitive,
		RetentionDays:    7 * daysPerYear,
		Description:      "Driver licenses, ID documents",
		LegalRequirement: "Swiss Data Protection Act",
		AutoDelete:       true,
		AnonymizeInstead: false,
	},
	{
		Category:         model.CategoryBehavioral,
		RetentionDays:    2 * daysPerYear,
		Description:      "Usage patterns, preferences",
		LegalRequirement: "Business necessity",
		AutoDelete:       true,
		AnonymizeInstead: true,
	},
	{
		Category:         model.CategoryTechnical,
		RetentionDays:    90,
		Description:      "Logs, session data",
		LegalRequirement: "Security and debugging",
		AutoDelete:       true,
		AnonymizeInstead: false,
	},
}

// Policies returns copy of the policy table in fixed order
func Policies() []Policy {
	return append([]Policy(nil), policies...)
}

// PolicyFor looks up policy of category
func PolicyFor(category model.DataCategory) (Policy, error) {
	for _, p := range policies {
		if p.Category == category {
			return p, nil
		}
	}
	return Policy{}, apperrors.NewValidationErr("category", fmt.Sprintf("unknown data category %q", category))
}

// ExpiresAt returns moment when data created at createdAt leaves retention
func (p Policy) ExpiresAt(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, p.RetentionDays)
}

// Cutoff returns creation moment before which data is expired at now
func (p Policy) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.RetentionDays)
}

// ShouldRetain reports whether data is still within retention, exact expiration moment is retained
func (p Policy) ShouldRetain(createdAt, now time.Time) bool {
	return !now.After(p.ExpiresAt(createdAt))
}

// Decide returns disposition of data created at createdAt, anonymization takes priority over deletion
func (p Policy) Decide(createdAt, now time.Time) Action {
	switch {
	case p.ShouldRetain(createdAt, now):
		return ActionRetain
	case p.AnonymizeInstead:
		return ActionAnonymize
	case p.AutoDelete:
		return ActionDelete
	default:
		return ActionRetainWithWarning
	}
}

// ExpirationDate returns expiration moment of category data created at createdAt
func ExpirationDate(category model.DataCategory, createdAt time.Time) (time.Time, error) {
	p, err := PolicyFor(category)
	if err != nil {
		return time.Time{}, err
	}
	return p.ExpiresAt(createdAt), nil
}

// ShouldRetain reports whether category data created at createdAt is still within retention at now
func ShouldRetain(category model.DataCategory, createdAt, now time.Time) (bool, error) {
	p, err := PolicyFor(category)
	if err != nil {
		return false, err
	}
	return p.ShouldRetain(createdAt, now), nil
}

// Decide returns disposition of category data created at createdAt
func Decide(category model.DataCategory, createdAt, now time.Time) (Action, error) {
	p, err := PolicyFor(category)
	if err != nil {
		return "", err
	}
	return p.Decide(createdAt, now), nil
}
