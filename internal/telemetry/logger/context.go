package logger

import (
	"context"
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const (
	loggerKey   contextKey = "multh.logger"
	runIDKey    contextKey = "multh.run_id"
	scenarioKey contextKey = "multh.scenario"
)

// NewRunID returns a new lexically sortable run identifier.
func NewRunID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithScenario adds the running scenario name to the context.
func WithScenario(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, scenarioKey, name)
}

// ScenarioFromContext extracts the scenario name from context.
func ScenarioFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(scenarioKey).(string); ok {
		return name
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger with the
// run ID and scenario from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if runID := RunIDFromContext(ctx); runID != "" {
		l = l.With("run_id", runID)
	}
	if name := ScenarioFromContext(ctx); name != "" {
		l = l.With("scenario", name)
	}

	return l
}
