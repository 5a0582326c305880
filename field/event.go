package field

// Event is one input to Reconciler.Apply.
type Event interface {
	Name() string
}

// Focus starts an edit session.
type Focus struct{}

// Blur ends the edit session and reconciles any queued external value.
type Blur struct{}

// Input carries the raw contents of the text box right after a keystroke or
// paste, before reformatting, and the caret position at that moment.
// A negative Cursor means "end of Value".
type Input struct {
	Value  string
	Cursor int
}

type KeyDown struct{ Key string }

type KeyUp struct{ Key string }

// ExternalValue is a change of the controlled value prop. A nil Value
// releases control.
type ExternalValue struct{ Value *string }

// SetCountry is a change of the country prop. It never notifies.
type SetCountry struct{ ISO string }

// SelectCountry is the user picking a country from the option list.
type SelectCountry struct{ ISO string }

// SelectCallingCode is the user picking a calling code. Countries sharing
// the code are disambiguated by the current selection.
type SelectCallingCode struct{ CallingCode string }

// SetFlags updates the presentation flags. Disabled and Readonly fields
// ignore Input and country selection.
type SetFlags struct {
	Disabled bool
	Readonly bool
	Invalid  bool
}

func (Focus) Name() string             { return "focus" }
func (Blur) Name() string              { return "blur" }
func (Input) Name() string             { return "input" }
func (KeyDown) Name() string           { return "key_down" }
func (KeyUp) Name() string             { return "key_up" }
func (ExternalValue) Name() string     { return "external_value" }
func (SetCountry) Name() string        { return "set_country" }
func (SelectCountry) Name() string     { return "select_country" }
func (SelectCallingCode) Name() string { return "select_calling_code" }
func (SetFlags) Name() string          { return "set_flags" }

// Controlled builds an ExternalValue that takes control with v.
func Controlled(v string) ExternalValue { return ExternalValue{Value: &v} }

// Release builds an ExternalValue that hands control back to the user.
func Release() ExternalValue { return ExternalValue{} }
