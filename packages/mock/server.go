// Package mock provides an in-memory sandbox of the Orange asset API.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultPort is where `orangeprobe mock` listens unless told otherwise.
	DefaultPort = 8080
	// DefaultPrefix matches the servlet context path of the real API.
	DefaultPrefix = "/orange/api"
)

// Envelope is the body of every sandbox response.
type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// Request is what a route handler sees.
type Request struct {
	Params map[string]string
	Query  map[string][]string
	Body   []byte
}

func (r *Request) query(name string) string {
	if v := r.Query[name]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// ID parses the {id} path parameter.
func (r *Request) ID() (int64, error) {
	raw := r.Params["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 || strings.HasPrefix(raw, "+") {
		return 0, invalid("invalid id")
	}
	return id, nil
}

// Decode unmarshals the JSON body into v.
func (r *Request) Decode(v any) error {
	if len(r.Body) == 0 {
		return invalid("request body is required")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return invalid("invalid request body")
	}
	return nil
}

// Paging reads page and size, defaulting to 1 and 10.
func (r *Request) Paging() (page, size int, err error) {
	page, err = positiveInt(r.query("page"), 1)
	if err != nil {
		return 0, 0, err
	}
	size, err = positiveInt(r.query("size"), 10)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, invalid("page and size must be positive integers")
	}
	return n, nil
}

// optionalID reads a numeric filter; absent means no filter.
func (r *Request) optionalID(name string) (*int64, error) {
	raw := r.query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalid("invalid filter parameter")
	}
	return &n, nil
}

// Server is the sandbox HTTP server
type Server struct {
	router *Router
	store  *Store
	port   int
	prefix string
	delay  time.Duration
	logger logrus.FieldLogger
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithPrefix mounts the API under prefix instead of /orange/api.
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithLogger sets where request logs go.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStore serves an existing store, letting callers seed or inspect it.
func WithStore(store *Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// NewServer creates a sandbox with an empty store
func NewServer(opts ...Option) *Server {
	s := &Server{
		router: NewRouter(),
		port:   DefaultPort,
		prefix: DefaultPrefix,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewStore()
	}
	s.routes()
	return s
}

// Store returns the state behind the server.
func (s *Server) Store() *Store {
	return s.store
}

// Prefix returns the path the API is mounted under.
func (s *Server) Prefix() string {
	return s.prefix
}

// GetRoutes returns all registered routes
func (s *Server) GetRoutes() []*Route {
	return s.router.Routes()
}

// Handler returns the sandbox as an http.Handler.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// StartWithContext serves on the configured port until ctx is done.
func (s *Server) StartWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.WithFields(logrus.Fields{
		"addr":   ln.Addr().String(),
		"prefix": s.prefix,
		"routes": len(s.router.Routes()),
	}).Info("sandbox listening")

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	path := r.URL.Path
	if s.prefix != "" {
		if path != s.prefix && !strings.HasPrefix(path, s.prefix+"/") {
			s.writeNotFound(w, r, start)
			return
		}
		path = strings.TrimPrefix(path, s.prefix)
	}

	if r.Method == http.MethodGet && path == OpenAPIPath {
		s.writeOpenAPI(w, r)
		return
	}

	route, params := s.router.Match(r.Method, path)
	if route == nil {
		s.writeNotFound(w, r, start)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.write(w, Envelope{Code: CodeInvalid, Msg: "unreadable request body"})
		return
	}

	data, err := route.Handler(&Request{Params: params, Query: r.URL.Query(), Body: body})
	env := Envelope{Code: CodeOK, Msg: "ok", Data: data}
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			env = Envelope{Code: apiErr.code, Msg: apiErr.msg}
		} else {
			env = Envelope{Code: CodeServerFail, Msg: "server error"}
			s.logger.WithError(err).WithField("route", route.Name).Error("handler failed")
		}
	}
	s.write(w, env)

	s.logger.WithFields(logrus.Fields{
		"method":   r.Method,
		"path":     r.URL.Path,
		"route":    route.Name,
		"code":     env.Code,
		"duration": time.Since(start),
	}).Debug("request served")
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request, start time.Time) {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(Envelope{Code: CodeNotFound, Msg: "no such endpoint"})

	s.logger.WithFields(logrus.Fields{
		"method":   r.Method,
		"path":     r.URL.Path,
		"duration": time.Since(start),
	}).Debug("no route")
}

func (s *Server) writeOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := s.OpenAPI(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("building openapi document")
		s.write(w, Envelope{Code: CodeServerFail, Msg: "server error"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		s.logger.WithError(err).Warn("writing openapi document")
	}
}

func (s *Server) write(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.WithError(err).Warn("writing response")
	}
}
