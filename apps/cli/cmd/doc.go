// Package cmd implements the orangeprobe CLI commands using Cobra.
//
// Available commands:
//   - run: Execute a probe scenario against the Orange API
//   - list: Show the scenarios and the cases each one issues
//   - mock: Serve an in-memory Orange API sandbox
//   - history: Browse runs recorded with --history
//   - version: Show orangeprobe version information
//
// Reports go to stdout; diagnostics go to stderr through logrus.
package cmd
