package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"webseek/internal/domain"
)

func TestClassifyToolError_Nil(t *testing.T) {
	if got := classifyToolError(nil); got != "" {
		t.Errorf("classifyToolError(nil) = %q, want empty", got)
	}
}

func TestClassifyToolError_Sentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"context.Canceled", context.Canceled, "cancelled"},
		{"ErrCancelled", domain.ErrCancelled, "cancelled"},
		{"context.DeadlineExceeded", context.DeadlineExceeded, "timeout"},
		{"ErrTimeout", domain.ErrTimeout, "timeout"},
		{"ErrSSRFBlocked", domain.ErrSSRFBlocked, "network"},
		{"ErrProviderError", domain.ErrProviderError, "provider"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyToolError(tt.err); got != tt.want {
				t.Errorf("classifyToolError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyToolError_WrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("duckduckgo search: %w", context.DeadlineExceeded)
	if got := classifyToolError(wrapped); got != "timeout" {
		t.Errorf("wrapped deadline = %q, want timeout", got)
	}

	doubleWrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", context.Canceled))
	if got := classifyToolError(doubleWrapped); got != "cancelled" {
		t.Errorf("double-wrapped cancel = %q, want cancelled", got)
	}
}

func TestClassifyToolError_StringPatterns(t *testing.T) {
	cases := []struct {
		name string
		err  string
		want string
	}{
		{"connection refused", "dial tcp 127.0.0.1:8080: connection refused", "network"},
		{"connection reset", "read tcp 10.0.0.1:443: connection reset by peer", "network"},
		{"no such host", "dial tcp: lookup html.duckduckgo.com: no such host", "network"},
		{"broken pipe", "write: broken pipe", "network"},
		{"service unavailable", "HTTP 503: service unavailable", "network"},
		{"try again", "server busy, please try again later", "network"},
		{"timeout", "http: request timeout after 30s", "timeout"},
		{"deadline exceeded text", "operation deadline exceeded", "timeout"},
		{"http status", "search failed (HTTP 500)", "provider"},
		{"parse failure", "parse response: invalid character 'x'", "provider"},
		{"generic", "something completely unexpected happened", "provider"},
		{"empty message", "", "provider"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyToolError(errors.New(tt.err)); got != tt.want {
				t.Errorf("classifyToolError(%q) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyToolError_TimeoutBeatsNetworkPattern(t *testing.T) {
	// A message matching both groups classifies by the first group.
	err := errors.New("connection reset after timeout")
	if got := classifyToolError(err); got != "timeout" {
		t.Errorf("classifyToolError = %q, want timeout", got)
	}
}

func TestClassifyToolError_DomainErrorWithSentinel(t *testing.T) {
	derr := domain.NewDomainError("Search", domain.ErrTimeout, "provider timed out")
	if got := classifyToolError(derr); got != "timeout" {
		t.Errorf("DomainError wrapping ErrTimeout = %q, want timeout", got)
	}
}
