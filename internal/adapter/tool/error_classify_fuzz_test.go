package tool

import (
	"errors"
	"testing"
)

func FuzzClassifyToolError(f *testing.F) {
	// Seed corpus: pattern hits, near misses, empty, garbage.
	seeds := []string{
		"connection refused",
		"connection reset by peer",
		"no such host",
		"context deadline exceeded",
		"service unavailable",
		"resource temporarily unavailable",
		"try again later",
		"timeout",
		"broken pipe",
		"search failed (HTTP 500)",
		"parse response: unexpected end of JSON input",
		"permission denied",
		"not found",
		"",
		"completely random error",
		"dial tcp 10.0.0.1:443: connection refused",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	known := map[string]bool{
		"cancelled": true,
		"timeout":   true,
		"network":   true,
		"provider":  true,
	}

	f.Fuzz(func(t *testing.T, msg string) {
		// Must not panic and must always map to a known kind.
		kind := classifyToolError(errors.New(msg))
		if !known[kind] {
			t.Errorf("classifyToolError(%q) = %q, not a known kind", msg, kind)
		}
	})
}
