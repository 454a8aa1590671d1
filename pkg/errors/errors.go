package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure
type Kind string

const (
	KindMissingInput    Kind = "missing_input"
	KindUnsupportedType Kind = "unsupported_type"
	KindSignature       Kind = "signature"
	KindNotFound        Kind = "not_found"
	KindCollection      Kind = "collection"
	KindDownload        Kind = "download"
	KindNetwork         Kind = "network"
	KindParsing         Kind = "parsing"
	KindRateLimit       Kind = "rate_limit"
	KindServer          Kind = "server_error"
	KindUnknown         Kind = "unknown"
)

// Error is a structured engine error with a discriminated kind.
// Message carries the human-readable text; Code is the HTTP status
// when the failure came off the wire, 0 otherwise.
type Error struct {
	Kind    Kind
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithCode creates an Error carrying an HTTP status code.
func WithCode(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Message: message, Code: code}
}

// MissingInput reports an empty required input.
func MissingInput(message string) *Error {
	return &Error{Kind: KindMissingInput, Message: message}
}

// NotFound reports a target the platform does not know about.
// what is "user" or "hashtag", input is the offending identifier.
func NotFound(what, input string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Can't find %s: %s", what, input)}
}

// KindOf extracts the kind from any error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsRetryable checks if an error kind should be retried
func IsRetryable(kind Kind) bool {
	switch kind {
	case KindNetwork, KindRateLimit, KindServer:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}
