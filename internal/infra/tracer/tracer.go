package tracer

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"webseek/internal/infra/config"
)

const serviceName = "webseek"

// Setup installs the global TracerProvider described by cfg and returns
// a shutdown function. Disabled tracing and the "noop" exporter install
// a no-op provider, so instrumented code pays nothing when tracing is
// off.
func Setup(ctx context.Context, cfg config.TracerConfig) (func(context.Context) error, error) {
	if !cfg.Enabled || cfg.Exporter == "noop" || cfg.Exporter == "" {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	exporter, closer, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	shutdown := func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}
	return shutdown, nil
}

// newExporter builds the span exporter for cfg. The stdout exporter
// writes to the file named by cfg.Endpoint when one is set, otherwise
// to the process stdout. The returned closer is nil when there is
// nothing to release.
func newExporter(cfg config.TracerConfig) (sdktrace.SpanExporter, io.Closer, error) {
	switch cfg.Exporter {
	case "stdout":
		opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}

		var closer io.Closer
		if cfg.Endpoint != "" {
			f, err := os.OpenFile(cfg.Endpoint, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				return nil, nil, fmt.Errorf("open trace output %s: %w", cfg.Endpoint, err)
			}
			opts = append(opts, stdouttrace.WithWriter(f))
			closer = f
		}

		exporter, err := stdouttrace.New(opts...)
		if err != nil {
			if closer != nil {
				closer.Close()
			}
			return nil, nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exporter, closer, nil
	default:
		return nil, nil, fmt.Errorf("unsupported exporter: %s", cfg.Exporter)
	}
}

// StartSpan starts a named span from the service tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, name, opts...)
}

// RecordError records an error on the span and sets error status.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK sets the span status to OK.
func SetOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// StringAttr is a convenience for attribute.String.
func StringAttr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// IntAttr is a convenience for attribute.Int.
func IntAttr(key string, value int) attribute.KeyValue {
	return attribute.Int(key, value)
}
