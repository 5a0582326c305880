package field

// The helpers below build Input events the way a browser would after a
// keystroke, so harnesses and tests can drive a field without a DOM.

// TypeText inserts text at the caret (end of value when unfocused).
func TypeText(s State, text string) Input {
	display, at := s.Display(), caret(s)
	v := display[:at] + text + display[at:]
	return Input{Value: v, Cursor: at + len(text)}
}

// Backspace removes the byte before the caret. At offset 0 it is a no-op
// edit that still yields an Input.
func Backspace(s State) Input {
	display, at := s.Display(), caret(s)
	if at == 0 {
		return Input{Value: display, Cursor: 0}
	}
	return Input{Value: display[:at-1] + display[at:], Cursor: at - 1}
}

// ReplaceRange replaces display[from:to] with text, as typing over a
// selection does.
func ReplaceRange(s State, from, to int, text string) Input {
	display := s.Display()
	from = clampOffset(from, len(display))
	to = clampOffset(to, len(display))
	if to < from {
		from, to = to, from
	}
	return Input{Value: display[:from] + text + display[to:], Cursor: from + len(text)}
}

// Clear empties the box.
func Clear() Input { return Input{Value: "", Cursor: 0} }

func caret(s State) int {
	if s.Buffer == nil {
		return len(s.Display())
	}
	return clampOffset(s.Buffer.Cursor, len(s.Display()))
}

func clampOffset(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}
