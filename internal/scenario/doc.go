// Package scenario runs the workloads behind the multh commands.
//
//   - Steady: a fixed worklist processed at a fixed cadence, checking that
//     every element sees every cycle.
//   - Churn: producers add and then remove a large element set while the
//     pool runs, checking that the worklist converges.
//   - MapBench: concurrent insert, lookup and erase on a sharded map.
//
// Each scenario returns a report that the CLI prints with internal/cli/output.
package scenario
