package paypay

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the client.
type ErrorKind string

const (
	// KindRemote means the service answered with a result code other than S0000.
	KindRemote ErrorKind = "remote_rejection"
	// KindSequence means a login call was made out of order.
	KindSequence ErrorKind = "sequence"
	// KindNotAuthenticated means an authenticated operation was called without a token.
	KindNotAuthenticated ErrorKind = "not_authenticated"
	// KindState means the remote resource does not allow the action, e.g. a claimed link.
	KindState ErrorKind = "state_conflict"
	// KindMissingCredential means a required passcode was not supplied.
	KindMissingCredential ErrorKind = "missing_credential"
	// KindUpstreamFormat means a response or page no longer has the expected shape.
	KindUpstreamFormat ErrorKind = "upstream_format"
	// KindInvalidInput means a caller-supplied value could not be used.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindTransport means the request could not be sent or its body could not be read.
	KindTransport ErrorKind = "transport"
)

// Error is the single error type returned by the client.
type Error struct {
	// Kind is the failure category.
	Kind ErrorKind
	// Code is the service result code for KindRemote errors, empty otherwise.
	Code string
	// Message is the service result message or a library message.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a string representation of the error.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("paypay %s: %s (caused by: %v)", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("paypay %s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error of the same kind. A target with a Code
// additionally requires the codes to match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Base errors compared with errors.Is.
var (
	// ErrNotStarted is returned by Confirm when Start has not completed.
	ErrNotStarted = &Error{Kind: KindSequence, Message: "login must be started before confirm"}

	// ErrNotAuthenticated is returned by API operations when no access token is set.
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated, Message: "login required before calling this operation"}

	// ErrLinkNotPending is returned when a link was already accepted or rejected.
	ErrLinkNotPending = &Error{Kind: KindState, Message: "link has already been accepted or rejected"}

	// ErrPasscodeRequired is returned when accepting a passcode-protected link without one.
	ErrPasscodeRequired = &Error{Kind: KindMissingCredential, Message: "link requires a passcode"}

	// ErrUpstreamFormat is returned when a response no longer has the expected shape.
	ErrUpstreamFormat = &Error{Kind: KindUpstreamFormat, Message: "unexpected upstream response format"}

	// ErrInvalidInput is returned when a caller-supplied value cannot be used.
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Message: "invalid input"}

	// ErrTransport is returned when a request cannot be completed.
	ErrTransport = &Error{Kind: KindTransport, Message: "request failed"}
)

// NewError creates an error of the base error's kind and message with a cause.
func NewError(base *Error, cause error) *Error {
	return &Error{
		Kind:    base.Kind,
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// NewRemoteError creates a KindRemote error carrying the service result code and message verbatim.
func NewRemoteError(code, message string) *Error {
	return &Error{Kind: KindRemote, Code: code, Message: message}
}

// newFormatError creates a KindUpstreamFormat error with a specific message.
func newFormatError(format string, args ...any) *Error {
	return &Error{Kind: KindUpstreamFormat, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts the *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRemoteError reports whether err is a service rejection.
func IsRemoteError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindRemote
}

// ResultCode returns the service result code carried by err, if any.
func ResultCode(err error) (string, bool) {
	e, ok := AsError(err)
	if !ok || e.Kind != KindRemote {
		return "", false
	}
	return e.Code, true
}

// GetUserFriendlyMessage returns a user-friendly error message based on the error kind.
func GetUserFriendlyMessage(err error) string {
	e, ok := AsError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}
	switch e.Kind {
	case KindRemote:
		return fmt.Sprintf("PayPay rejected the request (%s): %s", e.Code, e.Message)
	case KindSequence:
		return "Start the login before confirming it."
	case KindNotAuthenticated:
		return "Please log in or supply an access token first."
	case KindState:
		return "The link has already been accepted or rejected."
	case KindMissingCredential:
		return "This link is protected by a passcode. Please supply it."
	case KindUpstreamFormat:
		return "PayPay returned an unexpected response; the client may need an update."
	case KindInvalidInput:
		return fmt.Sprintf("Invalid input: %v", e.Cause)
	case KindTransport:
		return "Could not reach PayPay. Check your network or proxy settings."
	default:
		return "Request failed. Please try again."
	}
}
