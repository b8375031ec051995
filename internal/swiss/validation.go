package swiss

import (
	"regexp"
	"strconv"
)

// DocumentType is type of identity document accepted in Switzerland
type DocumentType string

const (
	DocumentPassport         DocumentType = "swiss_passport"
	DocumentIDCard           DocumentType = "swiss_id_card"
	DocumentResidencePermitB DocumentType = "residence_permit_b"
	DocumentResidencePermitC DocumentType = "residence_permit_c"
	DocumentResidencePermitL DocumentType = "residence_permit_l"
	DocumentResidencePermitF DocumentType = "residence_permit_f"
)

var documentValidators = map[DocumentType]*regexp.Regexp{
	DocumentPassport:         regexp.MustCompile(`^[A-Z][0-9]{7}$`),
	DocumentIDCard:           regexp.MustCompile(`^[0-9]{8}$`),
	DocumentResidencePermitB: regexp.MustCompile(`^B[0-9]{8}$`),
	DocumentResidencePermitC: regexp.MustCompile(`^C[0-9]{8}$`),
	DocumentResidencePermitL: regexp.MustCompile(`^L[0-9]{8}$`),
	DocumentResidencePermitF: regexp.MustCompile(`^F[0-9]{8}$`),
}

var postalCodeRe = regexp.MustCompile(`^[0-9]{4}$`)

// Cantons lists two-letter codes of all 26 Swiss cantons
var Cantons = []string{
	"AG", "AR", "AI", "BL", "BS", "BE", "FR", "GE", "GL", "GR", "JU", "LU", "NE",
	"NW", "OW", "SG", "SH", "SZ", "SO", "TG", "TI", "UR", "VD", "VS", "ZG", "ZH",
}

var cantonSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Cantons))
	for _, c := range Cantons {
		set[c] = struct{}{}
	}
	return set
}()

type postalRange struct {
	canton   string
	min, max int
}

// coarse mapping, ranges are checked in order
var postalRanges = []postalRange{
	{canton: "ZH", min: 8000, max: 8999},
	{canton: "BE", min: 3000, max: 3999},
	{canton: "LU", min: 6000, max: 6999},
	{canton: "GE", min: 1200, max: 1299},
	{canton: "VS", min: 1900, max: 1999},
	{canton: "VS", min: 3900, max: 3999},
}

// ValidatePostalCode reports whether code is 4-digit Swiss postal code in range 1000-9999
func ValidatePostalCode(code string) bool {
	if !postalCodeRe.MatchString(code) {
		return false
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}
	return n >= 1000 && n <= 9999
}

// ValidateCanton reports whether code is one of Swiss canton codes
func ValidateCanton(code string) bool {
	_, ok := cantonSet[code]
	return ok
}

// CantonFromPostalCode guesses canton by postal code range
func CantonFromPostalCode(code string) (string, bool) {
	if !ValidatePostalCode(code) {
		return "", false
	}
	n, _ := strconv.Atoi(code)
	for _, r := range postalRanges {
		if n >= r.min && n <= r.max {
			return r.canton, true
		}
	}
	return "", false
}

// ValidateIDDocument checks document number format for the given document type
func ValidateIDDocument(docType DocumentType, number string) bool {
	re, ok := documentValidators[docType]
	if !ok {
		return false
	}
	return re.MatchString(number)
}

// KnownDocumentType reports whether document type is supported
func KnownDocumentType(docType DocumentType) bool {
	_, ok := documentValidators[docType]
	return ok
}
