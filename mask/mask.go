// Package mask formats digit strings against phone-number templates.
//
// A template is a plain string where every '#' is a digit slot and every
// other rune is a literal separator, for example "(###) ###-####".
package mask

import "strings"

// Placeholder marks a digit slot in a Mask.
const Placeholder = '#'

// Mask is a phone-number template such as "(##) #####-####".
type Mask string

// Capacity returns the number of digit slots.
func (m Mask) Capacity() int {
	return strings.Count(string(m), string(Placeholder))
}

// Valid reports whether the template has at least one digit slot.
func (m Mask) Valid() bool {
	return m.Capacity() > 0
}

// Format applies the template left to right. Non-digits in raw are dropped
// and digits beyond Capacity are cut. Literals are written only while there
// is still a digit to place, so partial input is never padded:
//
//	Format("555", "(###) ###-####")   -> "(555"
//	Format("55512", "(###) ###-####") -> "(555) 12"
//	Format("", "(###) ###-####")      -> ""
func Format(raw string, m Mask) string {
	digits := Truncate(raw, m)
	if digits == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(m))

	next := 0
	for _, r := range string(m) {
		if next >= len(digits) {
			break
		}
		if r == Placeholder {
			b.WriteByte(digits[next])
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ExtractRaw keeps ASCII digits only.
func ExtractRaw(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Truncate strips non-digits and cuts the result to the template capacity.
func Truncate(raw string, m Mask) string {
	digits := ExtractRaw(raw)
	if c := m.Capacity(); len(digits) > c {
		digits = digits[:c]
	}
	return digits
}

// Complete reports whether raw fills every slot of the template.
func Complete(raw string, m Mask) bool {
	c := m.Capacity()
	return c > 0 && len(ExtractRaw(raw)) == c
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
