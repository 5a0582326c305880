package country

import (
	"strconv"

	"github.com/nyaruka/phonenumbers"
)

// Mismatch reports an entry whose calling code disagrees with libphonenumber
// metadata. Expected is empty when the region is unknown to libphonenumber.
type Mismatch struct {
	ISOCode     string `json:"iso_code"`
	CallingCode string `json:"calling_code"`
	Expected    string `json:"expected"`
}

// Verify cross-checks every entry against libphonenumber.
func Verify(t *Table) []Mismatch {
	var out []Mismatch
	for _, e := range t.entries {
		want := ""
		if cc := phonenumbers.GetCountryCodeForRegion(e.ISOCode); cc > 0 {
			want = strconv.Itoa(cc)
		}
		if want != e.CallingCode {
			out = append(out, Mismatch{ISOCode: e.ISOCode, CallingCode: e.CallingCode, Expected: want})
		}
	}
	return out
}
