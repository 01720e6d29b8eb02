// Package logging builds the process-wide structured logger and the
// request/correlation-id context helpers used to tie a log line back
// to one solve call.
package logging

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey     contextKey = "request-id"
	correlationIDKey contextKey = "correlation-id"
)

// New builds a zerolog.Logger configured for the given environment.
// If env is empty, it reads from APP_ENV. Defaults to production mode
// (JSON to stdout) when unset or unrecognized.
//
// Development mode: colorized console writer, debug level and above.
// Production mode: JSON to stdout, info level and above.
func New(env string) zerolog.Logger {
	if env == "" {
		env = os.Getenv("APP_ENV")
	}

	switch env {
	case "development", "dev":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		return zerolog.New(writer).With().Timestamp().Caller().Logger()
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// WithRequestID injects a request id into ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID reads the request id back out of ctx, "" if absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithCorrelationID injects a correlation id into ctx, used to tie a
// business-line run's per-provider solves back to one driver call.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationID reads the correlation id back out of ctx, "" if absent.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
