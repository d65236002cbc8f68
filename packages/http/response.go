package http

import "time"

// Response is a fully read HTTP response. Body holds the raw bytes exactly as
// the server sent them.
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}
