package tool

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// FuzzWebSearchTool fuzzes web search to find parameter validation bypass
// and result invariant violations.
func FuzzWebSearchTool(f *testing.F) {
	// Seed corpus
	f.Add(`{"query":"golang tutorial"}`)
	f.Add(`{"query":""}`)
	f.Add(`{"query":"   "}`)
	f.Add(`{"query":"\x00test"}`)
	f.Add(`{"query":123}`)
	f.Add(`{"query":null}`)
	f.Add(`{"query":["a"]}`)
	f.Add(`{"query":"test","extra":"ignored"}`)
	f.Add(`{}`)
	f.Add(`[]`)
	f.Add(`malformed json`)
	f.Add(`{"query":"` + strings.Repeat("A", 10*1024) + `"}`)
	f.Add(`{"query":"test\r\nX-Injected: true"}`)

	f.Fuzz(func(t *testing.T, input string) {
		provider := newMockProvider(twoResultFixture())
		ws := NewWebSearchTool(provider, newTestLogger())

		result := ws.Execute(context.Background(), json.RawMessage(input))

		// Invariant 1: Execute must always return a result.
		if result == nil {
			t.Fatal("Execute returned nil result")
		}
		if result.LLMContent == "" {
			t.Error("llmContent must never be empty")
		}
		if result.ReturnDisplay == "" {
			t.Error("returnDisplay must never be empty")
		}

		// Invariant 2: a blank query must never reach the provider, and
		// dispatched searches always carry the fixed cap.
		if provider.callCount > 0 {
			if strings.TrimSpace(provider.lastQuery) == "" {
				t.Errorf("blank query reached the provider: %q", provider.lastQuery)
			}
			if provider.lastOpts.MaxResults != 5 {
				t.Errorf("provider MaxResults = %d, want 5", provider.lastOpts.MaxResults)
			}
		}

		// Invariant 3: sources appear only alongside a result listing.
		if result.Sources != nil && !strings.Contains(result.LLMContent, "search results for") {
			t.Error("sources present without a result listing")
		}
	})
}
