// Package country holds the static reference table that maps ISO country
// codes to calling codes and phone masks.
package country

import (
	"fmt"
	"strings"

	"github.com/vortex-fintech/go-phonemask/mask"
)

// Entry is one row of the reference table. Several entries may share a
// CallingCode; ISOCode is unique.
type Entry struct {
	ISOCode     string    `yaml:"iso" json:"iso_code" validate:"required,iso2"`
	CallingCode string    `yaml:"calling_code" json:"calling_code" validate:"required,calling_code"`
	Mask        mask.Mask `yaml:"mask" json:"mask" validate:"required,phonemask"`
	Name        string    `yaml:"name" json:"name" validate:"required"`
	// Flag is the sprite reference used by option lists, e.g. "fflag--us".
	Flag string `yaml:"flag,omitempty" json:"flag,omitempty"`
}

// IsZero reports whether e is the empty Entry.
func (e Entry) IsZero() bool { return e.ISOCode == "" }

// Prefix is the calling code as shown next to the input, e.g. "+ 44".
func (e Entry) Prefix() string { return "+ " + e.CallingCode }

func (e Entry) String() string {
	return fmt.Sprintf("%s (+%s)", e.ISOCode, e.CallingCode)
}

func defaultFlag(iso string) string {
	return "fflag--" + strings.ToLower(iso)
}
