// Package piiutil hides personal data before it reaches logs.
package piiutil

import "strings"

const (
	shortDigitCountThreshold = 4
	keepShortDigits          = 1
	keepLongDigits           = 4
)

// MaskPhone masks a phone value while preserving formatting symbols.
// It keeps the last 1 or 4 digits:
//   - if total digits <= 4 -> keep 1 last digit
//   - if total digits > 4  -> keep 4 last digits
//
// Non-digit runes other than separators are masked too, so free text typed
// into a phone field never leaks.
//
// Examples:
//
//	"(555) 123-4567" -> "(***) ***-4567"
//	"5551"           -> "***1"
//	"(555"           -> "(**5"
//	"call me"        -> "**** **"
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	runes := []rune(phone)

	total := 0
	for _, r := range runes {
		if isASCIIDigit(r) {
			total++
		}
	}

	keep := keepLongDigits
	if total <= shortDigitCountThreshold {
		keep = keepShortDigits
	}

	seen := 0
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		switch {
		case isASCIIDigit(r):
			seen++
			if seen > keep {
				runes[i] = '*'
			}
		case isSeparator(r):
		default:
			runes[i] = '*'
		}
	}
	return string(runes)
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSeparator(r rune) bool {
	switch r {
	case ' ', '(', ')', '-', '.', '+', '/':
		return true
	}
	return false
}
