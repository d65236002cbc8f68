// Package output renders probe runs.
//
// Supported output formats:
//   - Console: the raw per-case block ("[name] HTTP status", body, "-")
//   - JSON: one machine-readable document per run
//
// Both formatters implement Reporter: records stream in through
// runner.Reporter while the run progresses and Finish closes the run.
package output
