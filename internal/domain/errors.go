package domain

import (
	"errors"
	"fmt"
)

// Category sentinels for the domain layer.
var (
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrProviderError = fmt.Errorf("provider error")
	ErrTimeout       = fmt.Errorf("operation timed out")
	ErrCancelled     = fmt.Errorf("operation cancelled")
	ErrToolNotFound  = fmt.Errorf("tool not found")
	ErrDuplicate     = fmt.Errorf("duplicate")
	ErrSSRFBlocked   = fmt.Errorf("request to private/reserved IP blocked")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Registry.Get")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorCode is a machine-parseable error category for monitoring and alerting.
type ErrorCode string

// Error codes. Every sentinel error maps to exactly one code.
const (
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeProviderError ErrorCode = "PROVIDER_ERROR"
	CodeTimeout       ErrorCode = "TIMEOUT"
	CodeCancelled     ErrorCode = "CANCELLED"
	CodeToolNotFound  ErrorCode = "TOOL_NOT_FOUND"
	CodeDuplicate     ErrorCode = "DUPLICATE"
	CodeSSRFBlocked   ErrorCode = "SSRF_BLOCKED"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
var errorCodeMap = map[error]ErrorCode{
	ErrInvalidInput:  CodeInvalidInput,
	ErrProviderError: CodeProviderError,
	ErrTimeout:       CodeTimeout,
	ErrCancelled:     CodeCancelled,
	ErrToolNotFound:  CodeToolNotFound,
	ErrDuplicate:     CodeDuplicate,
	ErrSSRFBlocked:   CodeSSRFBlocked,
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps DomainError and uses errors.Is to match sentinel errors.
// Returns CodeUnknown if no matching sentinel is found.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	// Fast path: direct sentinel lookup.
	if code, ok := errorCodeMap[err]; ok {
		return code
	}

	// Unwrap DomainError to check its inner sentinel.
	var de *DomainError
	if errors.As(err, &de) {
		if code, ok := errorCodeMap[de.Err]; ok {
			return code
		}
	}

	// Walk the error chain with errors.Is.
	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}

	return CodeUnknown
}

// Code returns the ErrorCode for this DomainError's underlying sentinel.
func (e *DomainError) Code() ErrorCode {
	if code, ok := errorCodeMap[e.Err]; ok {
		return code
	}
	return CodeUnknown
}
