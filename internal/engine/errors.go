package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for the broker's few fatal conditions. Most failure modes
// in this protocol degrade gracefully on their own (a missing worker just
// parks the task, a dead peer just gets evicted), so this set is
// deliberately small.
var (
	// ErrMalformedFrame is raised when a logical message carries more than
	// the four frames the protocol defines. It is the only wire-level
	// condition that aborts the process.
	ErrMalformedFrame = errors.New("message carries more than four frames")

	// ErrBindFailed describes a failure to bind the listen endpoint.
	// transport.Bind returns the socket library's own error instead of
	// this value.
	ErrBindFailed = errors.New("failed to bind broker endpoint")
)

// Error is a structured broker error carrying a code and optional context,
// so callers can branch on Code without string-matching Error().
type Error struct {
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error-code constants used by Error.Code.
const (
	ErrCodeProtocolViolation = "PROTOCOL_VIOLATION"
	ErrCodeBindFailed        = "BIND_FAILED"
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("switchboard %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("switchboard %s: %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for Go 1.13+ error handling.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if other, ok := target.(*Error); ok {
		return e.Code == other.Code
	}
	return errors.Is(e.Cause, target)
}

// WithContext attaches a diagnostic key/value pair to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewProtocolViolationError wraps ErrMalformedFrame with frame-count context.
func NewProtocolViolationError(frameCount int) *Error {
	return (&Error{
		Code:    ErrCodeProtocolViolation,
		Message: "malformed frame count",
		Cause:   ErrMalformedFrame,
	}).WithContext("frames", frameCount)
}

// NewBindError builds a BIND_FAILED error whose Cause is cause, with the
// endpoint that failed to bind as context. It does not wrap ErrBindFailed.
func NewBindError(endpoint string, cause error) *Error {
	return (&Error{
		Code:    ErrCodeBindFailed,
		Message: "failed to bind broker endpoint",
		Cause:   cause,
	}).WithContext("endpoint", endpoint)
}
