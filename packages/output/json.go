package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/stats"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string        `json:"runId"`
	Scenario string        `json:"scenario"`
	BaseURL  string        `json:"baseUrl"`
	Records  []JSONRecord  `json:"records"`
	Notes    []string      `json:"notes"`
	Stats    stats.Summary `json:"stats"`
	Error    string        `json:"error,omitempty"`
	Duration float64       `json:"duration"`
	Time     string        `json:"time"`
}

// JSONRecord represents one probe case
type JSONRecord struct {
	Name     string  `json:"name"`
	Method   string  `json:"method"`
	Path     string  `json:"path"`
	Status   int     `json:"status"`
	Body     string  `json:"body"`
	Duration float64 `json:"duration"`
	Envelope string  `json:"envelopeError,omitempty"`
}

// JSONFormatter collects records and writes them as one document on Finish
type JSONFormatter struct {
	writer  io.Writer
	records []JSONRecord
	notes   []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		records: make([]JSONRecord, 0),
		notes:   make([]string, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) Record(rec *runner.Record) {
	out := JSONRecord{
		Name:     rec.Name,
		Method:   rec.Method,
		Path:     rec.Path,
		Status:   rec.Status,
		Body:     string(rec.Body),
		Duration: float64(rec.Duration.Microseconds()) / 1000,
	}
	if rec.EnvelopeErr != nil {
		out.Envelope = rec.EnvelopeErr.Error()
	}
	f.records = append(f.records, out)
}

func (f *JSONFormatter) Note(msg string) {
	f.notes = append(f.notes, msg)
}

// Finish writes the accumulated JSON output. Records seen before a failed
// run are still written, along with the error.
func (f *JSONFormatter) Finish(result *runner.RunResult) error {
	output := JSONOutput{
		Records: f.records,
		Notes:   f.notes,
		Time:    time.Now().Format(time.RFC3339),
	}
	if result != nil {
		output.RunID = result.ID
		output.Scenario = result.Scenario
		output.BaseURL = result.BaseURL
		output.Stats = result.Stats
		output.Duration = float64(result.Duration.Milliseconds())
		if result.Err != nil {
			output.Error = result.Err.Error()
		}
	}

	f.records = make([]JSONRecord, 0)
	f.notes = make([]string, 0)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(output)
}
