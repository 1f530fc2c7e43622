package otp

import "errors"

// ErrorKind discriminates the recoverable failures of the OTP lifecycle
type ErrorKind string

const (
	KindInvalidPhoneFormat ErrorKind = "invalid_phone_format"
	KindNoCodeRequested    ErrorKind = "no_code_requested"
	KindCodeExpired        ErrorKind = "code_expired"
	KindCodeMismatch       ErrorKind = "code_mismatch"
	KindTooManyAttempts    ErrorKind = "too_many_attempts"
)

// Error is a failure carrying a user-facing message. Two errors match under
// errors.Is when their kinds are equal.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidPhoneFormat = &Error{Kind: KindInvalidPhoneFormat, Message: "Please enter a valid 10-digit phone number"}
	ErrNoCodeRequested    = &Error{Kind: KindNoCodeRequested, Message: "No OTP requested. Please request a new OTP"}
	ErrCodeExpired        = &Error{Kind: KindCodeExpired, Message: "OTP has expired. Please request a new one"}
	ErrCodeMismatch       = &Error{Kind: KindCodeMismatch, Message: "Invalid OTP. Please try again"}
	ErrTooManyAttempts    = &Error{Kind: KindTooManyAttempts, Message: "Too many invalid attempts. Please request a new OTP"}
)

// KindOf returns the kind of an OTP failure, or "" for any other error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
