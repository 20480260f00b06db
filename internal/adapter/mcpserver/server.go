// Package mcpserver exposes registered tools to Model Context Protocol
// clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"webseek/internal/domain"
)

const serverName = "webseek"

// Server wraps an MCP server whose tool list mirrors a ToolSource.
type Server struct {
	mcp    *server.MCPServer
	source domain.ToolSource
	logger *slog.Logger
}

// New builds an MCP server advertising every tool in the source. Tool
// schemas are passed through as raw JSON Schema.
func New(source domain.ToolSource, version string, logger *slog.Logger) *Server {
	s := &Server{
		mcp: server.NewMCPServer(serverName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		source: source,
		logger: logger,
	}

	for _, t := range source.List() {
		schema := t.Schema()
		s.mcp.AddTool(
			mcp.NewToolWithRawSchema(schema.Name, schema.Description, schema.Parameters),
			s.handlerFor(t),
		)
		logger.Debug("mcp tool registered", "tool", schema.Name)
	}

	return s
}

// handlerFor adapts a domain.Tool to an MCP tool handler. Execute
// absorbs tool failures into the result text, so the handler only
// returns an error for unmarshalable arguments.
func (s *Server) handlerFor(t domain.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := json.RawMessage(`{}`)
		if args := request.GetArguments(); len(args) > 0 {
			raw, err := json.Marshal(args)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
			params = raw
		}

		result := t.Execute(ctx, params)
		return mcp.NewToolResultText(result.LLMContent), nil
	}
}

// ServeStdio answers MCP requests on stdin/stdout until ctx is cancelled
// or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio",
		"name", serverName,
		"tools", len(s.source.List()),
	)

	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}
