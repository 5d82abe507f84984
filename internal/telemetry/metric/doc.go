// Package metric provides Prometheus metrics for multh.
//
//   - prometheus.go: registry and HTTP handler
//   - pool.go: PoolMetrics, a cycle.Observer that records pool cycles
//   - collector.go: MapCollector, exporting cmap shard statistics
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
