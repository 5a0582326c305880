package errors

import "google.golang.org/grpc/codes"

// Immutable presets.
func Unknown() ErrorResponse {
	return New("Unknown error occurred", codes.Unknown, nil).WithReason("unknown")
}
func Canceled() ErrorResponse {
	return New("Request canceled", codes.Canceled, nil).WithReason("canceled")
}
func InvalidArgument() ErrorResponse {
	return New("Invalid argument", codes.InvalidArgument, nil).WithReason("invalid_argument")
}
func DeadlineExceeded() ErrorResponse {
	return New("Deadline exceeded", codes.DeadlineExceeded, nil).WithReason("deadline_exceeded")
}
func NotFound() ErrorResponse {
	return New("Resource not found", codes.NotFound, nil).WithReason("not_found")
}
func FailedPrecondition() ErrorResponse {
	return New("Operation cannot be performed in the current state", codes.FailedPrecondition, nil).WithReason("failed_precondition")
}
func Unimplemented() ErrorResponse {
	return New("Not implemented", codes.Unimplemented, nil).WithReason("unimplemented")
}
func Internal() ErrorResponse {
	return New("Internal error", codes.Internal, nil).WithReason("internal")
}
func Unavailable() ErrorResponse {
	return New("Service unavailable", codes.Unavailable, nil).WithReason("unavailable")
}

func ValidationFields(fields map[string]string) ErrorResponse {
	return InvalidArgument().WithReason("validation_failed").WithDetails(fields).WithViolations(ViolationsFromMap(fields))
}

func ValidationViolations(v []FieldViolation) ErrorResponse {
	return InvalidArgument().WithReason("validation_failed").WithViolations(v)
}

func Unsupported(name, value string) ErrorResponse {
	return InvalidArgument().WithReason("unsupported").WithDetail(name, value)
}

func NotFoundWith(resourceKey, value string) ErrorResponse {
	return NotFound().WithDetail(resourceKey, value)
}
