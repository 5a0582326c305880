package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	play "github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
)

// ToErrorResponse converts any error into ErrorResponse (transport-agnostic).
// Supported inputs:
// - ErrorResponse anywhere in the chain (domain errors unwrap to one)
// - context.Canceled / context.DeadlineExceeded
// - json decoding errors (malformed request bodies)
func ToErrorResponse(err error) ErrorResponse {
	if err == nil {
		return Internal().WithReason("unexpected_error")
	}

	if errors.Is(err, context.Canceled) {
		return Canceled()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DeadlineExceeded()
	}

	var er ErrorResponse
	if errors.As(err, &er) {
		return er
	}

	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	if errors.As(err, &syn) || errors.As(err, &typ) {
		return InvalidArgument().WithReason("malformed_body").WithMessage(err.Error())
	}

	return Internal().WithReason("unexpected_error")
}

// FromPlayground maps go-playground/validator errors to InvalidArgument with
// one violation per failed field. The root struct name is cut from the path.
func FromPlayground(err play.ValidationErrors, tagToReason map[string]string) ErrorResponse {
	violations := make([]FieldViolation, 0, len(err))
	for _, fe := range err {
		tag := fe.Tag()
		reason := tagToReason[tag]
		if reason == "" {
			reason = "invalid"
		}

		field := fe.Field()
		if ns := fe.Namespace(); ns != "" {
			if i := strings.Index(ns, "."); i >= 0 && i+1 < len(ns) {
				field = ns[i+1:]
			}
		}

		violations = append(violations, FieldViolation{
			Field:       field,
			Reason:      reason,
			Description: fmt.Sprintf("%s validation failed (%s)", field, tag),
		})
	}
	return ValidationViolations(violations)
}

func To(code codes.Code, reason, msg string) ErrorResponse {
	return New(msg, code, nil).WithReason(reason)
}
