package tool

import (
	"context"
	"errors"
	"strings"

	"webseek/internal/domain"
)

// errorKindPatterns are substrings in error messages that indicate a
// failure kind when the error carries no sentinel. Checked in order,
// case-insensitively.
var errorKindPatterns = []struct {
	kind     string
	patterns []string
}{
	{"timeout", []string{
		"timeout",
		"deadline exceeded",
	}},
	{"network", []string{
		"connection refused",
		"connection reset",
		"no such host",
		"broken pipe",
		"temporarily unavailable",
		"service unavailable",
		"try again",
	}},
}

// classifyToolError maps an error to a stable kind label for log and
// span attributes: "cancelled", "timeout", "network", or "provider".
// The kind never changes how a result is shaped; it exists for operator
// diagnostics.
func classifyToolError(err error) string {
	if err == nil {
		return ""
	}

	// Sentinels first, via errors.Is, so wrapped errors classify the same
	// as bare ones.
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, domain.ErrCancelled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrSSRFBlocked):
		return "network"
	case errors.Is(err, domain.ErrProviderError):
		return "provider"
	}

	// String-based fallback for errors without sentinel wrapping.
	lower := strings.ToLower(err.Error())
	for _, group := range errorKindPatterns {
		for _, p := range group.patterns {
			if strings.Contains(lower, p) {
				return group.kind
			}
		}
	}

	return "provider"
}
