package domain

import (
	"context"
	"encoding/json"
)

// ToolSchema describes a tool for function-calling surfaces (MCP, CLI).
type ToolSchema struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"displayName"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolResult is the outcome of executing a tool. Failures are absorbed into
// the result: LLMContent carries the model-facing text (including error text)
// and ReturnDisplay the short user-facing line. Sources is populated only on
// a successful search with at least one result.
type ToolResult struct {
	LLMContent    string         `json:"llmContent"`
	ReturnDisplay string         `json:"returnDisplay"`
	Sources       []SearchResult `json:"sources,omitempty"`
}

// Tool is the interface every tool must implement.
type Tool interface {
	Name() string
	DisplayName() string
	Description() string
	Schema() ToolSchema
	// ValidateParams checks params before execution. nil means valid.
	ValidateParams(params json.RawMessage) error
	// Execute runs the tool. Failures are reported inside the returned
	// ToolResult, never as a Go error.
	Execute(ctx context.Context, params json.RawMessage) *ToolResult
}

// ToolSource abstracts tool lookup for surfaces that expose tools.
type ToolSource interface {
	Get(name string) (Tool, error)
	List() []Tool
	Schemas() []ToolSchema
}
