package types

import "fmt"

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. All packages use these constants instead of
// hardcoded strings.
const (
	// Validation
	ErrCodeValidationMissingField ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidEmail ErrorCode = "validation_invalid_email"

	// Transport / upstream
	ErrCodeTransportAuth        ErrorCode = "transport_authentication_failed"
	ErrCodeTransportUnavailable ErrorCode = "transport_unavailable"
	ErrCodeTransportRejected    ErrorCode = "transport_rejected"

	// Internal
	ErrCodeInternalDB         ErrorCode = "internal_database_error"
	ErrCodeInternalTemplate   ErrorCode = "internal_template_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"

	// Not found
	ErrCodeNotFoundUser ErrorCode = "not_found_user"
)

// AppError is the standard application error type. Domain errors are
// expressed as AppError to enable consistent formatting and error chain
// support; raw transport failures are always wrapped before they leave the
// smtp package.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// TransportError is the failure shape surfaced by the SMTP transport. It
// carries the structured SMTP reply code when the server produced one
// (0 when the failure happened below the protocol, e.g. a dial timeout).
// The error classifier consumes both the code and the wrapped error's text.
type TransportError struct {
	// Code is the SMTP reply code (e.g. 421, 535, 550), or 0 if none.
	Code int
	// Host and Port identify the relay the send was addressed to.
	Host string
	Port int
	Err  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("smtp %s:%d: code %d: %v", e.Host, e.Port, e.Code, e.Err)
	}
	return fmt.Sprintf("smtp %s:%d: %v", e.Host, e.Port, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
