package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID creates a new unique trace ID using UUID v4
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID ensures the context has a trace ID, generating one if needed
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, GenerateTraceID())
	}
	return ctx
}

// ChunkContext tags ctx with the chunk, keeping the run's trace ID, and
// scopes logger to the stage. A nil logger means the process logger.
func ChunkContext(ctx context.Context, logger *slog.Logger, stage, chunk string) (context.Context, *slog.Logger) {
	if logger == nil {
		logger = GetLogger()
	}
	ctx = EnsureTraceID(WithChunk(ctx, chunk))
	return ctx, WithComponent(logger, stage)
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// WithError creates a logger with an error field
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}
