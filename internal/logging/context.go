package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCorrelationID is the standardized structured logging key for the run identifier.
	FieldCorrelationID = "correlation_id"
	// FieldTimestep is the standardized structured logging key for scene timesteps.
	FieldTimestep = "timestep"
	// FieldPath is the standardized structured logging key for file paths.
	FieldPath = "path"
)

type contextKey int

const (
	runIDKey contextKey = iota
	timestepKey
)

// WithRunID returns a context tagged with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithTimestep returns a context tagged with the timestep being converted.
func WithTimestep(ctx context.Context, timestep int) context.Context {
	return context.WithValue(ctx, timestepKey, timestep)
}

// TimestepFromContext extracts the timestep, if any.
func TimestepFromContext(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	t, ok := ctx.Value(timestepKey).(int)
	return t, ok
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, id))
	}
	if t, ok := TimestepFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldTimestep, t))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
