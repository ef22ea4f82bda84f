package gemini

import (
	"fmt"
)

// NetworkError is returned when the HTTP exchange with the API could not be
// completed (connection failure, TLS error, context deadline, ...).
// It is never retried internally.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gemini %s: network error: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body is not valid JSON.
type DecodeError struct {
	Endpoint   string
	StatusCode int
	Snippet    string // leading bytes of the body, for diagnostics
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gemini %s: decode error (status %d, body %q): %v",
		e.Endpoint, e.StatusCode, e.Snippet, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ProjectionError reports a JSON value whose shape does not match the schema
// declared for it. Values are never coerced across kinds.
type ProjectionError struct {
	Schema   string
	Field    string // source key, or a path such as "[2]" / "trades[0].price"
	Expected string
	Actual   string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projecting %s: field %q: expected %s, got %s",
		e.Schema, e.Field, e.Expected, e.Actual)
}

// ExchangeError is the exchange's logical error envelope: HTTP success with a
// body carrying result "error" plus a reason and message.
type ExchangeError struct {
	Result  string
	Reason  string
	Message string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("gemini rejected request: %s: %s", e.Reason, e.Message)
}

// HTTPError represents a non-2xx response from a public endpoint.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server responded with a %d status code for %s: %s", e.StatusCode, e.URL, e.Body)
}

// snippet truncates a response body for inclusion in an error.
func snippet(body []byte) string {
	const maxSnippet = 256
	if len(body) > maxSnippet {
		return string(body[:maxSnippet]) + "..."
	}
	return string(body)
}
