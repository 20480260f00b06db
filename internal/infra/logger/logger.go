package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"webseek/internal/infra/config"
)

// New builds a *slog.Logger from cfg. The returned close function
// releases the log destination and must be called on shutdown; for the
// process streams it is a no-op.
func New(cfg config.LoggerConfig) (*slog.Logger, func() error, error) {
	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}

	opts := &slog.HandlerOptions{Level: levelFor(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(sink, opts)
	} else {
		handler = slog.NewTextHandler(sink, opts)
	}

	return slog.New(handler), sink.Close, nil
}

func levelFor(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openSink maps an output target to a writer. "stdout" and "stderr"
// select the process streams, anything else is an append-mode file path.
func openSink(target string) (io.WriteCloser, error) {
	switch strings.ToLower(target) {
	case "stdout":
		return nopCloser{os.Stdout}, nil
	case "", "stderr":
		return nopCloser{os.Stderr}, nil
	default:
		return os.OpenFile(target, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	}
}

// nopCloser wraps the process streams, which must outlive the logger.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
