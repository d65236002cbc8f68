// Package stats summarises request latencies of a probe run.
package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// latencies are recorded in microseconds between 1us and 60s
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
	sigFigs      = 3
)

// Collector accumulates request durations. It is not safe for concurrent use;
// the runner records from a single goroutine.
type Collector struct {
	histogram *hdrhistogram.Histogram
	slowest   string
	slowestD  time.Duration
}

// Summary is a snapshot of the recorded latencies.
type Summary struct {
	Count   int64         `json:"count"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
	Mean    time.Duration `json:"mean"`
	P50     time.Duration `json:"p50"`
	P95     time.Duration `json:"p95"`
	P99     time.Duration `json:"p99"`
	Slowest string        `json:"slowest,omitempty"`
}

func NewCollector() *Collector {
	return &Collector{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, sigFigs),
	}
}

// Record adds one request's duration under name.
func (c *Collector) Record(name string, d time.Duration) {
	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}
	_ = c.histogram.RecordValue(us)

	if d > c.slowestD || c.slowest == "" {
		c.slowest = name
		c.slowestD = d
	}
}

// Summary returns the current percentiles. An empty collector yields a zero Summary.
func (c *Collector) Summary() Summary {
	count := c.histogram.TotalCount()
	if count == 0 {
		return Summary{}
	}

	return Summary{
		Count:   count,
		Min:     usToDuration(c.histogram.Min()),
		Max:     usToDuration(c.histogram.Max()),
		Mean:    time.Duration(c.histogram.Mean() * float64(time.Microsecond)),
		P50:     usToDuration(c.histogram.ValueAtQuantile(50)),
		P95:     usToDuration(c.histogram.ValueAtQuantile(95)),
		P99:     usToDuration(c.histogram.ValueAtQuantile(99)),
		Slowest: c.slowest,
	}
}

func usToDuration(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}
