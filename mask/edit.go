package mask

// Edit is a reformatted display value and the caret position inside it.
type Edit struct {
	Formatted string
	Cursor    int
}

// DigitsBefore counts digits strictly left of cursor. The cursor is clamped
// into [0, len(s)].
func DigitsBefore(s string, cursor int) int {
	cursor = clamp(cursor, 0, len(s))
	n := 0
	for i := 0; i < cursor; i++ {
		if isDigit(s[i]) {
			n++
		}
	}
	return n
}

// CursorAfterDigits returns the offset right after the n-th digit of
// formatted. It is 0 for n <= 0 and len(formatted) when there are fewer
// than n digits.
func CursorAfterDigits(formatted string, n int) int {
	if n <= 0 {
		return 0
	}
	seen := 0
	for i := 0; i < len(formatted); i++ {
		if !isDigit(formatted[i]) {
			continue
		}
		seen++
		if seen == n {
			return i + 1
		}
	}
	return len(formatted)
}

// ReformatOnEdit formats newRaw and places the caret after the same number of
// digits that preceded it in display.
//
// display and cursor describe the input right after the user's keystroke or
// paste, before any reformatting. Separators inserted or removed around the
// edit point therefore never push the caret to the end of the value.
func ReformatOnEdit(display string, cursor int, newRaw string, m Mask) Edit {
	formatted := Format(newRaw, m)

	n := DigitsBefore(display, cursor)
	if kept := len(ExtractRaw(formatted)); n > kept {
		n = kept
	}

	return Edit{Formatted: formatted, Cursor: CursorAfterDigits(formatted, n)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
