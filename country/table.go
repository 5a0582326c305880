package country

import (
	"fmt"

	"github.com/vortex-fintech/go-phonemask/foundation/errors"
	"github.com/vortex-fintech/go-phonemask/foundation/geo"
	"github.com/vortex-fintech/go-phonemask/foundation/validator"
)

// Table is an immutable, ordered set of entries. It is safe for concurrent
// readers.
type Table struct {
	entries   []Entry
	byISO     map[string]int
	byCalling map[string][]int
}

// NewTable normalizes and validates entries. ISO codes are upper-cased,
// calling codes lose any '+' prefix and empty flags get the default sprite.
// Source order is kept.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.InvalidArgument().WithReason("empty_country_table")
	}

	t := &Table{
		entries:   make([]Entry, 0, len(entries)),
		byISO:     make(map[string]int, len(entries)),
		byCalling: make(map[string][]int),
	}

	for i, e := range entries {
		if iso, ok := geo.NormalizeISO2(e.ISOCode); ok {
			e.ISOCode = iso
		}
		if cc, ok := geo.NormalizeCallingCode(e.CallingCode); ok {
			e.CallingCode = cc
		}
		if e.Flag == "" && e.ISOCode != "" {
			e.Flag = defaultFlag(e.ISOCode)
		}

		if err := validator.ValidateErr(e); err != nil {
			return nil, fmt.Errorf("country: entry %d (%q): %w", i, e.ISOCode, err)
		}
		if _, dup := t.byISO[e.ISOCode]; dup {
			return nil, errors.InvalidArgument().
				WithReason("duplicate_country").
				WithDetail("country_code", e.ISOCode)
		}

		idx := len(t.entries)
		t.entries = append(t.entries, e)
		t.byISO[e.ISOCode] = idx
		t.byCalling[e.CallingCode] = append(t.byCalling[e.CallingCode], idx)
	}

	return t, nil
}

func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy in table order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Select looks an entry up by ISO code, case-insensitively.
func (t *Table) Select(iso string) (Entry, error) {
	code, ok := geo.NormalizeISO2(iso)
	if !ok {
		return Entry{}, &NotFoundError{ISOCode: iso}
	}
	idx, ok := t.byISO[code]
	if !ok {
		return Entry{}, &NotFoundError{ISOCode: code}
	}
	return t.entries[idx], nil
}

// ByCallingCode returns every entry sharing the calling code, in table order.
func (t *Table) ByCallingCode(code string) []Entry {
	cc, ok := geo.NormalizeCallingCode(code)
	if !ok {
		return nil
	}
	idx := t.byCalling[cc]
	out := make([]Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.entries[i])
	}
	return out
}

// ResolveCallingCode picks exactly one entry for a calling code. The entry
// for previousISO wins when it still uses the code, so re-selecting "+1"
// while Canada is active keeps Canada. Otherwise the first entry in table
// order is returned.
func (t *Table) ResolveCallingCode(code, previousISO string) (Entry, error) {
	cc, ok := geo.NormalizeCallingCode(code)
	if !ok {
		return Entry{}, &NotFoundError{CallingCode: code}
	}
	idx := t.byCalling[cc]
	if len(idx) == 0 {
		return Entry{}, &NotFoundError{CallingCode: cc}
	}

	if prev, err := t.Select(previousISO); err == nil && prev.CallingCode == cc {
		return prev, nil
	}
	return t.entries[idx[0]], nil
}
