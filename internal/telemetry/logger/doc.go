// Package logger provides structured logging for multh.
//
// It wraps log/slog:
//
//   - logger.go: handler selection, level control and the global default
//   - context.go: context propagation of the logger, run ID and scenario
//
// Library packages such as pkg/cycle take a *slog.Logger; use Slog to
// hand them the configured handler.
package logger
