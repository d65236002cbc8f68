package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
)

// Separator ends every record block.
const Separator = "-"

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// statusColor picks the header colour by status class.
func statusColor(status int) *color.Color {
	switch {
	case status >= 500:
		return color.New(color.FgRed)
	case status >= 400:
		return color.New(color.FgYellow)
	case status >= 300:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgGreen)
	}
}

// Record prints one block: header, raw body, separator.
func (f *ConsoleFormatter) Record(rec *runner.Record) {
	header := fmt.Sprintf("[%s] HTTP %d", rec.Name, rec.Status)
	fmt.Fprintln(f.writer, statusColor(rec.Status).Sprint(header))
	fmt.Fprintln(f.writer, string(rec.Body))
	fmt.Fprintln(f.writer, Separator)
}

// Note prints a diagnostic line as is.
func (f *ConsoleFormatter) Note(msg string) {
	fmt.Fprintln(f.writer, msg)
}

// Finish prints the envelope findings and latency summary in verbose mode.
// The plain report ends with the last block.
func (f *ConsoleFormatter) Finish(result *runner.RunResult) error {
	if !f.verbose || result == nil {
		return nil
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s %s (%s)\n", bold("Run"), result.ID, result.Scenario)

	for _, rec := range result.Records {
		if rec.EnvelopeErr != nil {
			fmt.Fprintf(f.writer, "  %s %s: %v\n", yellow("envelope"), rec.Name, rec.EnvelopeErr)
		}
	}

	s := result.Stats
	fmt.Fprintf(f.writer, "Requests: %d\n", s.Count)
	if s.Count > 0 {
		fmt.Fprintf(f.writer, "Latency:  min %s  p50 %s  p95 %s  p99 %s  max %s\n",
			s.Min, s.P50, s.P95, s.P99, s.Max)
		fmt.Fprintf(f.writer, "Slowest:  %s\n", s.Slowest)
	}
	fmt.Fprintf(f.writer, "Time:     %dms\n", result.Duration.Milliseconds())
	return nil
}
