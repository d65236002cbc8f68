// Package http provides the HTTP client used by the probe runner.
//
// It wraps the standard library's http package with:
//   - A fixed per-request timeout
//   - JSON payload encoding with Content-Type: application/json
//   - Redirect, proxy and TLS options
//   - Fully buffered responses so status and raw body can be reported verbatim
package http
