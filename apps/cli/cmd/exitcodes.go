package cmd

// Exit codes for the orangeprobe CLI
const (
	// ExitSuccess indicates the run completed, whatever statuses the API returned
	ExitSuccess = 0

	// ExitError indicates a transport error, timeout, bad config or usage error
	ExitError = 1
)
