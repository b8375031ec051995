package model

// DataCategory is GDPR/FADP data classification
type DataCategory string

const (
	CategoryPersonal   DataCategory = "personal"
	CategorySensitive  DataCategory = "sensitive"
	CategoryFinancial  DataCategory = "financial"
	CategoryBehavioral DataCategory = "behavioral"
	CategoryTechnical  DataCategory = "technical"
)

// LegalBasis is legal ground for processing personal data
type LegalBasis string

const (
	BasisConsent             LegalBasis = "consent"
	BasisContract            LegalBasis = "contract"
	BasisLegalObligation     LegalBasis = "legal_obligation"
	BasisVitalInterests      LegalBasis = "vital_interests"
	BasisPublicTask          LegalBasis = "public_task"
	BasisLegitimateInterests LegalBasis = "legitimate_interests"
)
