package swiss

import "regexp"

// MaskKind selects masking rule
type MaskKind string

const (
	MaskEmail MaskKind = "email"
	MaskPhone MaskKind = "phone"
	MaskID    MaskKind = "id"
)

const fullyMasked = "***MASKED***"

var (
	emailMaskRe = regexp.MustCompile(`(.{2}).*@(.*)\.(.{2,})`)
	phoneMaskRe = regexp.MustCompile(`(.{3}).*(.{2})`)
	idMaskRe    = regexp.MustCompile(`(.{2}).*(.{2})`)
)

// MaskSensitiveData redacts value keeping short prefix and suffix suitable for kind
func MaskSensitiveData(value string, kind MaskKind) string {
	switch kind {
	case MaskEmail:
		return emailMaskRe.ReplaceAllString(value, "${1}***@${2}.${3}")
	case MaskPhone:
		return phoneMaskRe.ReplaceAllString(value, "${1}****${2}")
	case MaskID:
		return idMaskRe.ReplaceAllString(value, "${1}****${2}")
	default:
		return fullyMasked
	}
}
