package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/orangeserver/orangeprobe/packages/capture"
	"github.com/orangeserver/orangeprobe/packages/http"
	"github.com/orangeserver/orangeprobe/packages/stats"
)

const (
	// DefaultBaseURL is where the Orange API is served in a local deployment
	DefaultBaseURL = "http://localhost:8080/orange/api"
	// DefaultTimeout bounds each request; a slower response aborts the run
	DefaultTimeout = http.DefaultTimeout
)

// Case is one request of a probe. Payload is nil for requests without a body.
type Case struct {
	Name    string
	Method  string
	Path    string
	Payload any
}

func Get(name, path string) Case {
	return Case{Name: name, Method: "GET", Path: path}
}

func Post(name, path string, payload any) Case {
	return Case{Name: name, Method: "POST", Path: path, Payload: payload}
}

func Put(name, path string, payload any) Case {
	return Case{Name: name, Method: "PUT", Path: path, Payload: payload}
}

func Delete(name, path string) Case {
	return Case{Name: name, Method: "DELETE", Path: path}
}

// Record is the outcome of one case: the status and the body as received.
type Record struct {
	Name        string
	Method      string
	Path        string
	Status      int
	Body        []byte
	Duration    time.Duration
	EnvelopeErr error
}

// Reporter receives records and diagnostics as they happen.
type Reporter interface {
	Record(rec *Record)
	Note(msg string)
}

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	Rate          float64
	Headers       map[string]string
	NoRedirects   bool
	Insecure      bool
	Proxy         string
	CheckEnvelope bool
}

type Runner struct {
	client   *http.Client
	config   *Config
	reporter Reporter
	limiter  *rate.Limiter
	result   *RunResult
	stats    *stats.Collector
}

type Option func(*Runner)

// WithReporter sets where records are reported while the run progresses.
func WithReporter(rep Reporter) Option {
	return func(r *Runner) {
		r.reporter = rep
	}
}

// WithClient replaces the HTTP client built from Config.
func WithClient(c *http.Client) Option {
	return func(r *Runner) {
		r.client = c
	}
}

func NewRunner(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	r := &Runner{
		config:   cfg,
		reporter: discard{},
	}

	if cfg.Rate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		clientOpts := []http.ClientOption{
			http.WithTimeout(cfg.Timeout),
			http.WithFollowRedirects(!cfg.NoRedirects),
			http.WithValidateSSL(!cfg.Insecure),
			http.WithDefaultHeaders(cfg.Headers),
		}
		if cfg.Proxy != "" {
			clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
		}
		r.client = http.NewClient(clientOpts...)
	}

	return r
}

// RunResult is everything one scenario run produced.
type RunResult struct {
	ID        string
	Scenario  string
	BaseURL   string
	StartedAt time.Time
	Duration  time.Duration
	Records   []*Record
	Notes     []string
	Stats     stats.Summary
	Err       error
}

// Run executes fn as the scenario called name and returns what it recorded.
// The result is returned even when fn fails so callers can still report it.
func (r *Runner) Run(ctx context.Context, name string, fn func(ctx context.Context, r *Runner) error) (*RunResult, error) {
	r.result = &RunResult{
		ID:        uuid.NewString(),
		Scenario:  name,
		BaseURL:   r.config.BaseURL,
		StartedAt: time.Now(),
	}
	r.stats = stats.NewCollector()

	err := fn(ctx, r)

	result := r.result
	result.Duration = time.Since(result.StartedAt)
	result.Stats = r.stats.Summary()
	result.Err = err
	r.result = nil
	return result, err
}

// Do issues c and reports its record. Any HTTP status is a valid outcome;
// only transport failures and timeouts return an error.
func (r *Runner) Do(ctx context.Context, c Case) (*Record, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
	}

	req, err := http.NewJSONRequest(c.Method, http.JoinURL(r.config.BaseURL, c.Path), c.Payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}

	rec := &Record{
		Name:     c.Name,
		Method:   c.Method,
		Path:     c.Path,
		Status:   resp.StatusCode,
		Body:     resp.Body,
		Duration: resp.Duration,
	}
	if r.config.CheckEnvelope {
		rec.EnvelopeErr = capture.CheckEnvelope(resp.Body)
	}

	if r.result != nil {
		r.result.Records = append(r.result.Records, rec)
		r.stats.Record(c.Name, rec.Duration)
	}
	r.reporter.Record(rec)
	return rec, nil
}

// Timeout is the per-request bound the runner's client enforces.
func (r *Runner) Timeout() time.Duration {
	return r.client.Timeout()
}

// RunCases issues cases in order and stops only on a transport error.
func (r *Runner) RunCases(ctx context.Context, cases []Case) error {
	for _, c := range cases {
		if _, err := r.Do(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// DoCapture issues c and extracts data.id from its body.
func (r *Runner) DoCapture(ctx context.Context, c Case) (capture.ID, bool, error) {
	rec, err := r.Do(ctx, c)
	if err != nil {
		return capture.ID{}, false, err
	}
	id, ok := capture.ExtractID(rec.Body)
	return id, ok, nil
}

// Notef reports a diagnostic line such as a skipped chain.
func (r *Runner) Notef(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.result != nil {
		r.result.Notes = append(r.result.Notes, msg)
	}
	r.reporter.Note(msg)
}

// Skip reports that the chain after step cannot continue.
func (r *Runner) Skip(step, what string) {
	r.Notef("%s failed, skip %s", step, what)
}

type discard struct{}

func (discard) Record(*Record) {}
func (discard) Note(string)    {}
