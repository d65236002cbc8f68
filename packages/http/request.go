package http

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

// NewJSONRequest builds a request whose body is payload encoded as JSON.
// A nil payload yields a request with no body and no Content-Type.
func NewJSONRequest(method, requestURL string, payload any) (*Request, error) {
	r := NewRequest(method, requestURL)
	if payload == nil {
		return r, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	r.SetBody(body)
	r.SetHeader("Content-Type", "application/json")
	return r, nil
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}

// JoinURL appends path to base without touching either side's query string.
// Exactly one slash separates them.
func JoinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
