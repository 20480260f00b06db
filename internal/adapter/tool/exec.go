package tool

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"webseek/internal/infra/tracer"
)

// startInvocation opens a span for one tool execution and returns a logger
// bound to the tool name and a fresh invocation id. Callers must End the
// span.
func startInvocation(ctx context.Context, toolName string, logger *slog.Logger) (context.Context, trace.Span, *slog.Logger) {
	ctx, span := tracer.StartSpan(ctx, "tool."+toolName,
		trace.WithAttributes(tracer.StringAttr("tool.name", toolName)),
	)

	id := ulid.Make().String()
	span.SetAttributes(tracer.StringAttr("tool.invocation_id", id))

	return ctx, span, logger.With("tool", toolName, "invocation_id", id)
}
