package geo

import "strings"

const maxCallingCodeDigits = 4

// NormalizeISO2 trims and uppercases an ASCII ISO2-like code.
//
// Validation here is format-only (two ASCII letters) and does not check
// whether the code is an officially assigned ISO 3166-1 alpha-2 value.
func NormalizeISO2(code string) (string, bool) {
	c := strings.TrimSpace(code)
	if len(c) != 2 {
		return "", false
	}

	b0, b1 := c[0], c[1]
	if !isASCIILetter(b0) || !isASCIILetter(b1) {
		return "", false
	}

	return string([]byte{toUpperASCII(b0), toUpperASCII(b1)}), true
}

// IsValidISO2 validates whether a value can be normalized as a two-letter
// ASCII ISO2-like code.
func IsValidISO2(code string) bool {
	_, ok := NormalizeISO2(code)
	return ok
}

// NormalizeCallingCode accepts the spellings users and option lists produce
// ("1", "+1", " + 44 ") and returns the bare digits.
func NormalizeCallingCode(code string) (string, bool) {
	c := strings.Join(strings.Fields(code), "")
	c = strings.TrimPrefix(c, "+")
	if !IsValidCallingCode(c) {
		return "", false
	}
	return c, true
}

// IsValidCallingCode is strict: 1 to 4 ASCII digits, nothing else.
func IsValidCallingCode(code string) bool {
	if len(code) == 0 || len(code) > maxCallingCodeDigits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func toUpperASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
