// Package output renders command results for the multh CLI.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: report and row tables, YAML for nested data
//   - encode.go: JSON and YAML output
//   - spinner.go: activity indicator for long runs
//   - progress.go: round counter for multi-round runs
package output
