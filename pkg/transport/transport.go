package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/blogclient/pkg/logger"
)

// Headers set on every request.
const (
	// HeaderAuthorization carries the bearer token.
	HeaderAuthorization = "Authorization"
	// HeaderRequestID carries a fresh uuid per request.
	HeaderRequestID = "X-Request-ID"
)

// Session is the token holder the transport reads from and writes refreshed
// tokens to.
type Session interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

// Navigator performs the full reset to the login entry point once the
// session has ended.
type Navigator interface {
	RedirectToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

// RedirectToLogin calls f(ctx).
func (f NavigatorFunc) RedirectToLogin(ctx context.Context) {
	f(ctx)
}

// TokenPair is the refresh endpoint response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Refresher exchanges a refresh token for a new token pair.
type Refresher func(ctx context.Context, refreshToken string) (TokenPair, error)

// Transport sends API requests with the session bearer token and recovers
// from 401 responses by refreshing the token once for all concurrent callers.
// It is safe for concurrent use.
type Transport struct {
	client    *http.Client
	session   Session
	navigator Navigator
	refresher Refresher
	logger    *slog.Logger
	metrics   *metrics
	breaker   *gobreaker.CircuitBreaker
	limiter   *rate.Limiter
	baseURL   string

	refreshPath    string
	userAgent      string
	timeout        time.Duration
	refreshTimeout time.Duration

	mu          sync.Mutex
	refreshing  bool
	queue       []chan error
	defaultAuth string
}

// New returns a transport for the API at baseURL.
func New(baseURL string, sess Session, opts ...Option) *Transport {
	t := &Transport{
		session:        sess,
		navigator:      nopNavigator{},
		logger:         logger.NewNope(),
		baseURL:        strings.TrimRight(baseURL, "/"),
		refreshPath:    DefaultRefreshPath,
		userAgent:      DefaultUserAgent,
		timeout:        DefaultTimeout,
		refreshTimeout: DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: t.timeout}
	}
	if t.refresher == nil {
		t.refresher = t.refreshToken
	}
	return t
}

// BaseURL returns the API base URL.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// RefreshPath returns the path the default refresher posts to.
func (t *Transport) RefreshPath() string {
	return t.refreshPath
}

// Do sends req. Non-2xx responses are returned as *HTTPError. A 401 on a
// request that was not replayed yet goes through the refresh protocol.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	return t.do(ctx, req, false)
}

// Get sends a GET request.
func (t *Transport) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return t.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a POST request with a JSON body.
func (t *Transport) Post(ctx context.Context, path string, body any) (*Response, error) {
	return t.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put sends a PUT request with a JSON body.
func (t *Transport) Put(ctx context.Context, path string, body any) (*Response, error) {
	return t.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch sends a PATCH request with a JSON body.
func (t *Transport) Patch(ctx context.Context, path string, query url.Values, body any) (*Response, error) {
	return t.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Query: query, Body: body})
}

// Delete sends a DELETE request.
func (t *Transport) Delete(ctx context.Context, path string) (*Response, error) {
	return t.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (t *Transport) do(ctx context.Context, req *Request, retried bool) (*Response, error) {
	if req.Anonymous {
		return t.send(ctx, req, false)
	}

	resp, err := t.send(ctx, req, true)
	if err == nil {
		return resp, nil
	}

	herr, ok := AsHTTPError(err)
	if !ok || !herr.IsUnauthorized() || retried {
		return nil, err
	}

	return t.recoverUnauthorized(ctx, req, herr)
}

// send performs one HTTP exchange with no recovery.
func (t *Transport) send(ctx context.Context, req *Request, auth bool) (*Response, error) {
	httpReq, requestID, err := t.newHTTPRequest(ctx, req, auth)
	if err != nil {
		return nil, err
	}
	ctx = httpReq.Context()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("transport: rate limit: %w", err)
		}
	}

	start := time.Now()
	resp, err := t.roundTrip(httpReq)
	if err != nil {
		t.metrics.request(0)
		t.logger.WarnContext(ctx, "request failed",
			slog.String("method", req.Method),
			slog.String("url", httpReq.URL.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("transport: %s %s: %w", req.Method, httpReq.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: read response: %w", err)
	}

	t.metrics.request(resp.StatusCode)
	t.logger.DebugContext(ctx, "request completed",
		slog.String("method", req.Method),
		slog.String("url", httpReq.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Method:     req.Method,
			URL:        httpReq.URL.String(),
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			Body:       body,
			RequestID:  requestID,
			bearer:     bearerToken(httpReq.Header),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (t *Transport) newHTTPRequest(ctx context.Context, req *Request, auth bool) (*http.Request, string, error) {
	u, err := t.resolve(req.Path, req.Query)
	if err != nil {
		return nil, "", err
	}

	var body io.Reader
	contentType := req.ContentType
	switch {
	case req.RawBody != nil:
		body = bytes.NewReader(req.RawBody)
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}
		body = bytes.NewReader(b)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	requestID := uuid.NewString()
	ctx = logger.WithRequestID(ctx, requestID)

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, "", fmt.Errorf("transport: new request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set(HeaderRequestID, requestID)

	if auth && httpReq.Header.Get(HeaderAuthorization) == "" {
		if token := t.bearer(); token != "" {
			httpReq.Header.Set(HeaderAuthorization, "Bearer "+token)
		}
	}

	return httpReq, requestID, nil
}

// bearer returns the session token, or the token installed by the last
// successful refresh when the session has none.
func (t *Transport) bearer() string {
	if token := t.session.AccessToken(); token != "" {
		return token
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.defaultAuth
}

func (t *Transport) resolve(path string, query url.Values) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if t.baseURL == "" {
			return "", ErrInvalidBaseURL
		}
		raw = t.baseURL + "/" + strings.TrimLeft(path, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

var errServerFailure = errors.New("server failure")

func (t *Transport) roundTrip(req *http.Request) (*http.Response, error) {
	if t.breaker == nil {
		return t.client.Do(req)
	}

	res, err := t.breaker.Execute(func() (any, error) {
		resp, err := t.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerFailure
		}
		return resp, nil
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, errors.Join(ErrCircuitOpen, err)
	case errors.Is(err, errServerFailure):
		return res.(*http.Response), nil
	case err != nil:
		return nil, err
	}
	return res.(*http.Response), nil
}

// refreshToken is the default Refresher: it posts the raw refresh token as
// text/plain, outside of the refresh protocol.
func (t *Transport) refreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	resp, err := t.send(ctx, &Request{
		Method:      http.MethodPost,
		Path:        t.refreshPath,
		RawBody:     []byte(refreshToken),
		ContentType: "text/plain",
		Anonymous:   true,
	}, false)
	if err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	if err := resp.Decode(&pair); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func bearerToken(h http.Header) string {
	return strings.TrimPrefix(h.Get(HeaderAuthorization), "Bearer ")
}

// errorMessage extracts "message" from a JSON error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

type nopNavigator struct{}

func (nopNavigator) RedirectToLogin(context.Context) {}
