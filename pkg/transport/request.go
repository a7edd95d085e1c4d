package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes one API call. Path is joined to the transport base URL
// unless it is an absolute URL.
type Request struct {
	Query  url.Values
	Header http.Header
	// Body is JSON-encoded unless RawBody is set.
	Body        any
	Method      string
	Path        string
	ContentType string
	RawBody     []byte
	// Anonymous requests carry no bearer token and a 401 is returned to the
	// caller as is. Used for login, registration and the refresh call.
	Anonymous bool
}

// Response is a fully read 2xx response.
type Response struct {
	Header     http.Header
	Body       []byte
	StatusCode int
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeBody, err)
	}
	return nil
}

// clone returns a shallow copy safe to replay: headers and query are copied.
func (r *Request) clone() *Request {
	c := *r
	if r.Header != nil {
		c.Header = r.Header.Clone()
	}
	if r.Query != nil {
		c.Query = url.Values(http.Header(r.Query).Clone())
	}
	return &c
}
