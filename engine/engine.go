// Package engine is the phone mask engine: pure transformations between raw
// digits, masked display strings and country selections.
package engine

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/vortex-fintech/go-phonemask/country"
	"github.com/vortex-fintech/go-phonemask/foundation/contactutil"
	"github.com/vortex-fintech/go-phonemask/foundation/errors"
	"github.com/vortex-fintech/go-phonemask/mask"
)

// Value is a phone number in both shapes. Formatted is always
// mask.Format(Raw, country.Mask) and mask.ExtractRaw(Formatted) == Raw.
type Value struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
}

func (v Value) IsEmpty() bool { return v.Raw == "" }

// Engine binds the pure mask functions to a country table. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	table *country.Table
}

func New(table *country.Table) *Engine {
	return &Engine{table: table}
}

// Default uses the embedded reference table.
func Default() *Engine {
	return New(country.MustDefault())
}

func (e *Engine) Table() *country.Table { return e.table }

// SelectCountry fails with *country.NotFoundError for unknown codes.
func (e *Engine) SelectCountry(iso string) (country.Entry, error) {
	return e.table.Select(iso)
}

// ResolveCountryFromCallingCode prefers previousISO when it still owns the
// calling code, then the first table entry with that code.
func (e *Engine) ResolveCountryFromCallingCode(callingCode, previousISO string) (country.Entry, error) {
	return e.table.ResolveCallingCode(callingCode, previousISO)
}

func (e *Engine) Format(raw string, c country.Entry) string {
	return mask.Format(raw, c.Mask)
}

func (e *Engine) ExtractRaw(display string) string {
	return mask.ExtractRaw(display)
}

// NewValue normalizes free text into a Value for c. Digits past the mask
// capacity are dropped so the Value invariant always holds.
func (e *Engine) NewValue(input string, c country.Entry) Value {
	raw := mask.Truncate(input, c.Mask)
	return Value{Raw: raw, Formatted: mask.Format(raw, c.Mask)}
}

// Remask carries a value over to another country's mask.
func (e *Engine) Remask(v Value, c country.Entry) Value {
	return e.NewValue(v.Raw, c)
}

// ReformatOnEdit recomputes the display string and caret after an edit.
// previousFormatted and previousCursor are the input contents and caret
// right after the keystroke, before reformatting.
func (e *Engine) ReformatOnEdit(previousFormatted string, previousCursor int, newRaw string, c country.Entry) mask.Edit {
	return mask.ReformatOnEdit(previousFormatted, previousCursor, newRaw, c.Mask)
}

// Complete reports whether v fills every slot of the country's mask.
func (e *Engine) Complete(v Value, c country.Entry) bool {
	return mask.Complete(v.Raw, c.Mask)
}

// E164 returns "+<calling code><raw>" when libphonenumber accepts the number
// for the country's region.
func (e *Engine) E164(v Value, c country.Entry) (string, bool) {
	if v.Raw == "" || c.IsZero() {
		return "", false
	}
	num, err := phonenumbers.Parse("+"+c.CallingCode+v.Raw, c.ISOCode)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumberForRegion(num, c.ISOCode) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

// ParseE164 splits an international number ("+5548999216078",
// "+1 (201) 555-0123") into a country and its masked national value. The
// country is the number's region when the table has it, otherwise the first
// entry using its calling code.
func (e *Engine) ParseE164(s string) (Value, country.Entry, error) {
	n := contactutil.NormalizeE164(s)
	if !strings.HasPrefix(n, "+") {
		return Value{}, country.Entry{}, errors.InvalidArgument().
			WithReason("invalid_e164").
			WithMessage("international number must start with + or 00")
	}

	num, err := phonenumbers.Parse(n, "")
	if err != nil {
		return Value{}, country.Entry{}, errors.InvalidArgument().
			WithReason("invalid_e164").
			WithMessage(err.Error())
	}

	region := phonenumbers.GetRegionCodeForNumber(num)
	cc := strconv.Itoa(int(num.GetCountryCode()))

	c, err := e.table.Select(region)
	if err != nil || c.CallingCode != cc {
		if c, err = e.table.ResolveCallingCode(cc, region); err != nil {
			return Value{}, country.Entry{}, err
		}
	}
	return e.NewValue(phonenumbers.GetNationalSignificantNumber(num), c), c, nil
}
