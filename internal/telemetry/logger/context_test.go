package logger

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestWithLogger_FromContext(t *testing.T) {
	l, buf := newJSON(t, "info")

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf("NewRunID() returned %q twice", a)
	}
	if _, err := ulid.Parse(a); err != nil {
		t.Errorf("NewRunID() = %q is not a ULID: %v", a, err)
	}
}

func TestRunIDFromContext(t *testing.T) {
	ctx := context.Background()
	if got := RunIDFromContext(ctx); got != "" {
		t.Errorf("RunIDFromContext() = %q, want empty string", got)
	}

	ctx = WithRunID(ctx, "01HZX")
	if got := RunIDFromContext(ctx); got != "01HZX" {
		t.Errorf("RunIDFromContext() = %q, want %q", got, "01HZX")
	}
}

func TestL_Enriches(t *testing.T) {
	tests := []struct {
		name     string
		runID    string
		scenario string
	}{
		{name: "run id", runID: "01HZX"},
		{name: "scenario", scenario: "churn"},
		{name: "both", runID: "01HZX", scenario: "steady"},
		{name: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newJSON(t, "info")
			ctx := WithLogger(context.Background(), l)
			if tt.runID != "" {
				ctx = WithRunID(ctx, tt.runID)
			}
			if tt.scenario != "" {
				ctx = WithScenario(ctx, tt.scenario)
			}

			L(ctx).Info("test message")
			entry := decode(t, buf)

			if got, ok := entry["run_id"]; (tt.runID != "") != ok || (ok && got != tt.runID) {
				t.Errorf("run_id = %v, want %q", got, tt.runID)
			}
			if got, ok := entry["scenario"]; (tt.scenario != "") != ok || (ok && got != tt.scenario) {
				t.Errorf("scenario = %v, want %q", got, tt.scenario)
			}
		})
	}
}
