package field

import (
	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/engine"
)

// Props are the inputs a binding layer passes when the field is created.
// A nil Value means uncontrolled, seeded from DefaultValue.
type Props struct {
	CountryCode  string
	Value        *string
	DefaultValue string
	Disabled     bool
	Readonly     bool
	Invalid      bool
}

// EditBuffer exists only while the field has focus.
type EditBuffer struct {
	Raw    string
	Cursor int
}

// State is a value type; Apply never mutates the State it is given.
type State struct {
	Mode    Mode
	Country country.Entry
	Value   engine.Value
	Focused bool
	Buffer  *EditBuffer
	// Queued is the latest external value received while ControlledEditing.
	Queued *string
	// LastEmittedRaw is the raw value of the most recent input or change
	// notification. A queued value equal to it is the parent echoing the
	// user's own edit.
	LastEmittedRaw string

	Disabled bool
	Readonly bool
	Invalid  bool
}

// Display is what the text box shows.
func (s State) Display() string { return s.Value.Formatted }

// Cursor is the caret offset, or -1 when the field is not focused.
func (s State) Cursor() int {
	if s.Buffer == nil {
		return -1
	}
	return s.Buffer.Cursor
}

func (s State) editable() bool { return !s.Disabled && !s.Readonly }
