package output

import (
	"fmt"
	"io"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
)

// Format names accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Reporter streams a run and closes it with Finish.
type Reporter interface {
	runner.Reporter
	Finish(result *runner.RunResult) error
}

// Options configure New.
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New returns the reporter for format.
func New(format string, opts Options) (Reporter, error) {
	switch format {
	case "", FormatConsole:
		consoleOpts := []ConsoleOption{WithVerbose(opts.Verbose), WithNoColor(opts.NoColor)}
		if opts.Writer != nil {
			consoleOpts = append(consoleOpts, WithWriter(opts.Writer))
		}
		return NewConsoleFormatter(consoleOpts...), nil
	case FormatJSON:
		var jsonOpts []JSONOption
		if opts.Writer != nil {
			jsonOpts = append(jsonOpts, JSONWithWriter(opts.Writer))
		}
		return NewJSONFormatter(jsonOpts...), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use %s or %s)", format, FormatConsole, FormatJSON)
	}
}
