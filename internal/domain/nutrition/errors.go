package nutrition

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes failure semantics across the resolver, the
// aggregation engine and the store adapter.
type ErrorCode string

const (
	CodeValidation          ErrorCode = "validation_failed"
	CodeInvalidSource       ErrorCode = "invalid_source"
	CodeNotFound            ErrorCode = "not_found"
	CodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
	CodeRateLimited         ErrorCode = "rate_limited"
	CodeInternal            ErrorCode = "internal"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
	// RetryAfter is the remaining window in seconds for CodeRateLimited.
	RetryAfter int
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Retryable reports whether the caller may retry the same request later.
func (e *Error) Retryable() bool {
	return e != nil && (e.Code == CodeUpstreamUnavailable || e.Code == CodeRateLimited)
}

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates err with a code. Errors already carrying a code are returned
// unchanged.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return NewError(code, op, err.Error(), err)
}

func Validation(op, format string, args ...any) error {
	return NewError(CodeValidation, op, fmt.Sprintf(format, args...), nil)
}

func NotFound(op, what string) error {
	return NewError(CodeNotFound, op, what+" not found", nil)
}

func RateLimited(op string, resetSeconds int) error {
	return &Error{
		Code:       CodeRateLimited,
		Op:         strings.TrimSpace(op),
		Message:    fmt.Sprintf("rate limit exceeded, retry in %ds", resetSeconds),
		RetryAfter: resetSeconds,
	}
}

func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

func CodeOf(err error) ErrorCode {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// AsError extracts the typed error, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
