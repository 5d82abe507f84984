// Package shutdown coordinates process termination.
//
// A Handler waits for SIGINT, SIGTERM or the end of a context and then
// runs the registered hooks in reverse order under a timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(pool.Stop)
//	err := h.Wait(ctx)
package shutdown
