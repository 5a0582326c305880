package country

import (
	stderrors "errors"
	"fmt"

	"github.com/vortex-fintech/go-phonemask/foundation/errors"
)

const reasonNotFound = "country_not_found"

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = stderrors.New("country not found")

// NotFoundError is returned when an ISO or calling code is absent from the
// table. It is never auto-corrected to a default country.
type NotFoundError struct {
	ISOCode     string
	CallingCode string
}

func (e *NotFoundError) Error() string {
	if e.CallingCode != "" {
		return fmt.Sprintf("country: no entry for calling code %q", e.CallingCode)
	}
	return fmt.Sprintf("country: no entry for iso code %q", e.ISOCode)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Unwrap exposes the transport-agnostic NotFound response.
func (e *NotFoundError) Unwrap() error {
	resp := errors.NotFound().WithReason(reasonNotFound)
	if e.CallingCode != "" {
		return resp.WithDetail("calling_code", e.CallingCode)
	}
	return resp.WithDetail("country_code", e.ISOCode)
}
