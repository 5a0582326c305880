package contactutil

import "strings"

// NormalizeE164 trims s and drops the separators people type inside
// international numbers (space, '-', '.', '(', ')', '/'). A leading "00"
// international prefix becomes "+". Other characters are kept, so the result
// still needs validation.
func NormalizeE164(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ' ', '-', '.', '(', ')', '/', '\t':
			continue
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
