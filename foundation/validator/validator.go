package validator

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/go-phonemask/foundation/errors"
	"github.com/vortex-fintech/go-phonemask/foundation/geo"
	"github.com/vortex-fintech/go-phonemask/mask"
)

var v *validator.Validate

func init() {
	v = validator.New()
	mustRegister("iso2", func(fl validator.FieldLevel) bool {
		return geo.IsValidISO2(fl.Field().String())
	})
	mustRegister("calling_code", func(fl validator.FieldLevel) bool {
		return geo.IsValidCallingCode(fl.Field().String())
	})
	mustRegister("phonemask", func(fl validator.FieldLevel) bool {
		return mask.Mask(fl.Field().String()).Valid()
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func Instance() *validator.Validate {
	return v
}

// Validate returns field -> reason for every failed rule, or nil.
func Validate(i any) map[string]string {
	if err := v.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if stderrors.As(err, &errs) {
			out := make(map[string]string, len(errs))
			for _, e := range errs {
				out[e.Field()] = mapTagToCode(e.Tag())
			}
			return out
		}
		return map[string]string{"_error": "validation_failed"}
	}
	return nil
}

// ValidateErr is Validate shaped as an error: nil or an InvalidArgument
// ErrorResponse with one violation per failed field.
func ValidateErr(i any) error {
	err := v.Struct(i)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if stderrors.As(err, &errs) {
		return errors.FromPlayground(errs, tagMap)
	}
	return errors.InvalidArgument().WithReason("validation_failed")
}
