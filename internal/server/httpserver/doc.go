// Package httpserver serves the Prometheus endpoint of long-running
// multh commands.
//
// Routes:
//
//   - /metrics: Prometheus exposition of the run registry
//   - /healthz: liveness of the running scenario
//
// Requests pass through RequestID, Access, Recover and an optional
// RateLimit middleware.
package httpserver
