// Используем slog для структурированного сквозного логирования с контекстом
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ContextKey тип для ключей контекста
type ContextKey string

const (
	// RequestIDKey ключ в контексте для request ID
	RequestIDKey ContextKey = "request_id"
)

func New(level, format string, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stdout
	}

	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler)
}
