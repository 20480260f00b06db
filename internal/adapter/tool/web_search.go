package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel/trace"

	"webseek/internal/domain"
	"webseek/internal/infra/tracer"
)

const (
	// webSearchMaxResults is the fixed cap passed to the provider on
	// every search. Callers cannot raise or lower it.
	webSearchMaxResults = 5

	// webSearchSafeSearch is the fixed safe-search level for every
	// search.
	webSearchSafeSearch = SafeSearchOff
)

const webSearchSchemaJSON = `{
	"type": "object",
	"properties": {
		"query": {"type": "string", "description": "The search query to find information on the web"}
	},
	"required": ["query"]
}`

var webSearchSchema = jsonschema.MustCompileString("web_search.json", webSearchSchemaJSON)

// WebSearchTool performs web searches via a pluggable SearchProvider and
// summarizes the results for model consumption.
type WebSearchTool struct {
	provider SearchProvider
	logger   *slog.Logger
}

// NewWebSearchTool creates a web search tool backed by the given provider.
func NewWebSearchTool(provider SearchProvider, logger *slog.Logger) *WebSearchTool {
	return &WebSearchTool{
		provider: provider,
		logger:   logger,
	}
}

func (t *WebSearchTool) Name() string        { return "web_search" }
func (t *WebSearchTool) DisplayName() string { return "WebSearch" }

func (t *WebSearchTool) Description() string {
	return fmt.Sprintf("Performs a web search using %s and returns the results. This tool is useful for finding information on the web based on a search query.", t.provider.Name())
}

func (t *WebSearchTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		DisplayName: t.DisplayName(),
		Description: t.Description(),
		Parameters:  json.RawMessage(webSearchSchemaJSON),
	}
}

type webSearchParams struct {
	Query string `json:"query"`
}

// ValidateParams checks params against the schema, then rejects queries
// that are empty after trimming. A nil return means valid.
func (t *WebSearchTool) ValidateParams(params json.RawMessage) error {
	if err := ValidateSchema(webSearchSchema, params); err != nil {
		return err
	}

	var p webSearchParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("params are not valid JSON: %v", err)
	}

	if strings.TrimSpace(p.Query) == "" {
		return errors.New("The 'query' parameter cannot be empty.")
	}
	return nil
}

// Execute runs the search and reports the outcome in the result. Provider
// and validation failures are absorbed into the result; Execute never
// panics on bad input.
func (t *WebSearchTool) Execute(ctx context.Context, params json.RawMessage) *domain.ToolResult {
	ctx, span, log := startInvocation(ctx, t.Name(), t.logger)
	defer span.End()

	if err := t.ValidateParams(params); err != nil {
		tracer.RecordError(span, err)
		log.Debug("web search params rejected", "reason", err.Error())
		return &domain.ToolResult{
			LLMContent:    "Error: Invalid parameters provided. Reason: " + err.Error(),
			ReturnDisplay: err.Error(),
		}
	}

	var p webSearchParams
	_ = json.Unmarshal(params, &p)
	query := p.Query

	span.SetAttributes(
		tracer.StringAttr("search.query", query),
		tracer.StringAttr("search.provider", t.provider.Name()),
	)

	// One cancellation check before dispatch; in-flight cancellation is
	// surfaced by the provider itself.
	if err := ctx.Err(); err != nil {
		return t.failResult(span, log, query, err)
	}

	results, err := t.provider.Search(ctx, query, SearchOptions{
		MaxResults: webSearchMaxResults,
		SafeSearch: webSearchSafeSearch,
	})
	if err != nil {
		return t.failResult(span, log, query, err)
	}

	if len(results) == 0 {
		tracer.SetOK(span)
		span.SetAttributes(tracer.IntAttr("search.results", 0))
		log.Debug("web search returned no results", "query", query)
		return &domain.ToolResult{
			LLMContent:    fmt.Sprintf("No search results found for query: \"%s\"", query),
			ReturnDisplay: "No information found.",
		}
	}

	tracer.SetOK(span)
	span.SetAttributes(tracer.IntAttr("search.results", len(results)))
	log.Debug("web search completed", "query", query, "results", len(results))

	return &domain.ToolResult{
		LLMContent:    formatSearchResults(t.provider.Name(), query, results),
		ReturnDisplay: fmt.Sprintf("Search results for \"%s\" returned.", query),
		Sources:       results,
	}
}

func (t *WebSearchTool) failResult(span trace.Span, log *slog.Logger, query string, err error) *domain.ToolResult {
	tracer.RecordError(span, err)
	log.Error("web search failed",
		"query", query,
		"provider", t.provider.Name(),
		"error", err,
		"error_kind", classifyToolError(err),
	)

	name := t.provider.Name()
	return &domain.ToolResult{
		LLMContent:    fmt.Sprintf("Error: Error during %s web search for query \"%s\": %s", name, query, err.Error()),
		ReturnDisplay: fmt.Sprintf("Error performing %s web search.", name),
	}
}

// formatSearchResults renders results as a numbered list followed by a
// source index, in provider order.
func formatSearchResults(providerName, query string, results []domain.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s search results for \"%s\":\n\n", providerName, query)

	sourceLines := make([]string, 0, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		href := r.Href
		if href == "" {
			href = "No URL"
		}
		body := r.Body
		if body == "" {
			body = "No description"
		}

		fmt.Fprintf(&sb, "%d. %s\n   URL: %s\n   Snippet: %s\n\n", i+1, title, href, body)
		sourceLines = append(sourceLines, fmt.Sprintf("[%d] %s (%s)", i+1, r.Title, r.Href))
	}

	sb.WriteString("\nSources:\n")
	sb.WriteString(strings.Join(sourceLines, "\n"))
	return sb.String()
}
