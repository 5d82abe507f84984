// Package command defines the multh command tree on urfave/cli/v2.
//
//   - root.go: App, global flags and the per-invocation environment
//   - pool.go: pool run and pool churn
//   - map.go: map bench
//   - config.go: config show and config validate
//   - version.go: version
//
// Every command loads the layered configuration in the Before hook,
// applies its own flags on top, and renders its report with the
// formatter selected by --output.
package command
