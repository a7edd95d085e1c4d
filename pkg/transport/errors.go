package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionEnded is returned when an unauthorized request cannot be
	// recovered because no refresh token is stored. The session has been
	// cleared and the navigator asked to redirect to login.
	ErrSessionEnded = errors.New("transport: session ended")

	// ErrRefreshFailed is returned when the token refresh call fails. The
	// session has been cleared and the navigator asked to redirect to login.
	ErrRefreshFailed = errors.New("transport: token refresh failed")

	// ErrCircuitOpen is returned while the circuit breaker rejects requests.
	ErrCircuitOpen = errors.New("transport: circuit breaker open")

	// ErrInvalidBaseURL is returned when a request URL cannot be built.
	ErrInvalidBaseURL = errors.New("transport: invalid base URL")
	// ErrEncodeBody is returned when Request.Body cannot be marshaled.
	ErrEncodeBody = errors.New("transport: failed to encode request body")
	// ErrDecodeBody is returned by Response.Decode for malformed JSON.
	ErrDecodeBody = errors.New("transport: failed to decode response body")
)

// HTTPError is returned for every response with a non-2xx status.
type HTTPError struct {
	Method     string
	URL        string
	Message    string
	RequestID  string
	Body       []byte
	StatusCode int

	bearer string // token the request was sent with
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("transport: %s %s: %d %s", e.Method, e.URL, e.StatusCode, msg)
}

// IsUnauthorized reports whether the status is 401.
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// AsHTTPError returns the *HTTPError carried by err, if any.
func AsHTTPError(err error) (*HTTPError, bool) {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if herr, ok := AsHTTPError(err); ok {
		return herr.StatusCode
	}
	return 0
}
