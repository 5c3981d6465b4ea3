package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the custom error type for the application
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// CodeOf extracts the ErrorCode from err, or ErrorCode_INTERNAL when err is
// not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_INTERNAL
}

// IsRetryable reports whether the caller may retry the failed operation.
// Only rate-limit and transport failures qualify; everything else is fatal
// until a human reconciles credentials, identifiers or schemas.
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case ErrorCode_RATE_LIMITED, ErrorCode_TRANSPORT_FAILED:
		return true
	}
	return false
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidPayload(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  message,
	}
}

// External-service Errors

func ErrAuthFailed(service string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_FAILED,
		Message:  fmt.Sprintf("Authentication with %s failed", service),
	}.WithDetail("service", service)
}

func ErrNotFound(resource, id string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}.WithDetail("id", id)
}

func ErrRateLimited(service string) AppError {
	return AppError{
		HTTPCode: http.StatusTooManyRequests,
		Code:     ErrorCode_RATE_LIMITED,
		Message:  fmt.Sprintf("%s rate limit exceeded", service),
	}.WithDetail("service", service)
}

func ErrTransport(service string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_TRANSPORT_FAILED,
		Message:  fmt.Sprintf("Transport failure calling %s", service),
	}.WithDetail("service", service)
}

// Validation Errors

func ErrValidation(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_VALIDATION_FAILED,
		Message:  "Response failed schema validation",
	}
}

// Persistence Errors

func ErrDuplicate(recordingID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_DUPLICATE,
		Message:  "Recording already processed",
	}.WithDetail("recording_id", recordingID)
}

// ErrPartialWrite reports a parent record that was created while one or more
// child writes failed. The failed item titles are carried in details so an
// operator can reconcile the remainder by hand.
func ErrPartialWrite(meetingRecordID string, failed []string, err error) AppError {
	e := AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_PARTIAL_WRITE,
		Message:  fmt.Sprintf("Meeting record created but %d action item write(s) failed", len(failed)),
	}.WithDetail("meeting_record_id", meetingRecordID)
	for i, title := range failed {
		e = e.WithDetail(fmt.Sprintf("failed_item_%d", i+1), title)
	}
	return e
}

// Webhook Errors

func ErrSignatureInvalid(reason string) AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_SIGNATURE_INVALID,
		Message:  "Webhook signature verification failed",
	}.WithDetail("reason", reason)
}
