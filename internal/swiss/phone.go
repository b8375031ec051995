package swiss

import (
	"regexp"
	"strings"
)

const countryPrefix = "41"

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	mobileRe   = regexp.MustCompile(`^7[6-9]\d{7}$`)
	// 071 (eastern Switzerland) is the only landline area code starting with 7
	landlineRe = regexp.MustCompile(`^(?:[1-689]\d|71)\d{7}$`)
)

// nationalNumber strips formatting together with the country or trunk prefix and
// returns the 9 significant digits of a Swiss number
func nationalNumber(phone string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(phone, "")
	digits = strings.TrimPrefix(digits, "00")

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, countryPrefix):
		return digits[2:], true
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		return digits[1:], true
	default:
		return "", false
	}
}

// ValidatePhone reports whether phone is Swiss mobile (076-079) or landline number, 071 included
func ValidatePhone(phone string) bool {
	n, ok := nationalNumber(phone)
	if !ok {
		return false
	}
	return mobileRe.MatchString(n) || landlineRe.MatchString(n)
}

// FormatPhone normalizes Swiss number to +41 AA BBB CC DD, anything else is returned as is
func FormatPhone(phone string) string {
	if !ValidatePhone(phone) {
		return phone
	}

	n, _ := nationalNumber(phone)
	return "+41 " + n[0:2] + " " + n[2:5] + " " + n[5:7] + " " + n[7:9]
}
