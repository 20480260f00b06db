package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel/trace"

	"webseek/internal/domain"
	"webseek/internal/infra/tracer"
	"webseek/internal/security"
)

const (
	defaultFetchMaxBodyBytes = 1 * 1024 * 1024 // 1MB
	defaultFetchTimeout      = 30 * time.Second
	defaultFetchMaxRedirects = 5
)

const webFetchSchemaJSON = `{
	"type": "object",
	"properties": {
		"url": {"type": "string", "description": "The URL to fetch"},
		"method": {"type": "string", "enum": ["GET", "HEAD"], "description": "HTTP method (default: GET)"},
		"headers": {"type": "object", "additionalProperties": {"type": "string"}, "description": "Additional HTTP headers"}
	},
	"required": ["url"]
}`

var webFetchSchema = jsonschema.MustCompileString("web_fetch.json", webFetchSchemaJSON)

// WebFetchTool fetches content from URLs with SSRF protection.
type WebFetchTool struct {
	client       *http.Client
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewWebFetchTool creates a web fetch tool with SSRF protection. Zero
// limits fall back to defaults.
func NewWebFetchTool(maxBodyBytes int64, timeout time.Duration, maxRedirects int, logger *slog.Logger) *WebFetchTool {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultFetchMaxBodyBytes
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if maxRedirects <= 0 {
		maxRedirects = defaultFetchMaxRedirects
	}

	return &WebFetchTool{
		client: &http.Client{
			Transport: security.NewSSRFSafeTransport(), // safe transport to prevent DNS rebinding
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				// Validate each redirect target for SSRF
				return security.ValidateURL(req.URL.String())
			},
		},
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

func (t *WebFetchTool) Name() string        { return "web_fetch" }
func (t *WebFetchTool) DisplayName() string { return "WebFetch" }

func (t *WebFetchTool) Description() string {
	return "Fetches content from a URL over HTTP(S) and returns the response body. Only GET and HEAD requests are allowed; requests to private networks are blocked."
}

func (t *WebFetchTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		DisplayName: t.DisplayName(),
		Description: t.Description(),
		Parameters:  json.RawMessage(webFetchSchemaJSON),
	}
}

type webFetchParams struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// ValidateParams checks params against the schema, then applies semantic
// checks the schema cannot express. A nil return means valid.
func (t *WebFetchTool) ValidateParams(params json.RawMessage) error {
	if err := ValidateSchema(webFetchSchema, params); err != nil {
		return err
	}

	var p webFetchParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("params are not valid JSON: %v", err)
	}

	if err := ValidateAll(
		RequireField("url", strings.TrimSpace(p.URL)),
		ValidateURL("url", p.URL),
		ValidateEnum("method", p.Method, http.MethodGet, http.MethodHead),
	); err != nil {
		return err
	}

	// Reject CRLF in headers to block header injection.
	for k, v := range p.Headers {
		if containsCRLF(k) || containsCRLF(v) {
			return fmt.Errorf("invalid header %q: CRLF characters not allowed", k)
		}
	}
	return nil
}

// Execute fetches the URL and reports the outcome in the result. All
// failures are absorbed into the result; Execute never panics on bad
// input.
func (t *WebFetchTool) Execute(ctx context.Context, params json.RawMessage) *domain.ToolResult {
	ctx, span, log := startInvocation(ctx, t.Name(), t.logger)
	defer span.End()

	if err := t.ValidateParams(params); err != nil {
		tracer.RecordError(span, err)
		log.Debug("web fetch params rejected", "reason", err.Error())
		return &domain.ToolResult{
			LLMContent:    "Error: Invalid parameters provided. Reason: " + err.Error(),
			ReturnDisplay: err.Error(),
		}
	}

	var p webFetchParams
	_ = json.Unmarshal(params, &p)

	span.SetAttributes(tracer.StringAttr("fetch.url", p.URL))

	if err := ctx.Err(); err != nil {
		return t.failResult(span, log, p.URL, err)
	}

	// SSRF check before the request leaves; redirects are re-checked by
	// the client.
	if err := security.ValidateURL(p.URL); err != nil {
		return t.failResult(span, log, p.URL, err)
	}

	method := p.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, p.URL, nil)
	if err != nil {
		return t.failResult(span, log, p.URL, fmt.Errorf("create request: %v", err))
	}
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return t.failResult(span, log, p.URL, fmt.Errorf("http request: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes))
	if err != nil {
		return t.failResult(span, log, p.URL, fmt.Errorf("read body: %v", err))
	}

	tracer.SetOK(span)
	span.SetAttributes(tracer.IntAttr("fetch.status", resp.StatusCode))
	log.Debug("web fetch completed", "url", p.URL, "status", resp.StatusCode, "size", len(body))

	return &domain.ToolResult{
		LLMContent:    fmt.Sprintf("HTTP %d\n\n%s", resp.StatusCode, string(body)),
		ReturnDisplay: fmt.Sprintf("Fetched content from \"%s\" (HTTP %d).", p.URL, resp.StatusCode),
	}
}

func (t *WebFetchTool) failResult(span trace.Span, log *slog.Logger, url string, err error) *domain.ToolResult {
	tracer.RecordError(span, err)
	log.Error("web fetch failed",
		"url", url,
		"error", err,
		"error_kind", classifyToolError(err),
	)
	return &domain.ToolResult{
		LLMContent:    fmt.Sprintf("Error: Error during web fetch for URL \"%s\": %s", url, err.Error()),
		ReturnDisplay: "Error performing web fetch.",
	}
}

// containsCRLF checks for CRLF characters that could be used for header
// injection.
func containsCRLF(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}
