// Package transport is the authenticated HTTP client used by every API call.
//
// Each request carries the session's bearer token, a fresh X-Request-ID and a
// JSON body when one is given. Non-2xx responses come back as *HTTPError with
// the server's "message" field when the body has one.
//
// # Token refresh
//
// When a request gets a 401 and has not been replayed yet, the transport runs
// one refresh cycle for all concurrent callers:
//
//   - the first caller posts the refresh token (text/plain) to the refresh
//     path and stores the new pair in the session;
//   - callers that hit a 401 while the refresh is in flight wait in a queue;
//   - when the refresh settles, the queue is drained in arrival order and the
//     in-flight flag cleared in one locked step, and every caller replays its
//     own request once with the new token.
//
// With no refresh token stored, or when the refresh call fails, the session is
// cleared, the Navigator is asked to redirect to login and every queued
// caller fails with the same error (ErrSessionEnded or ErrRefreshFailed).
// The refresh call itself never goes through this protocol, so a 401 from the
// refresh endpoint ends the session instead of waiting on itself.
//
// The refresh runs detached from the triggering caller's context, bounded by
// WithRefreshTimeout. A queued caller whose context ends stops waiting; the
// cycle continues for the others.
//
//	tr := transport.New("http://localhost:8080/api", sess,
//		transport.WithNavigator(nav),
//		transport.WithLogger(log),
//		transport.WithMetrics(prometheus.DefaultRegisterer),
//	)
//	resp, err := tr.Get(ctx, "/posts/published", url.Values{"page": {"0"}})
//
// Optional resilience: WithCircuitBreaker fails fast after consecutive network
// errors or 5xx responses, and WithRateLimit spaces out requests.
package transport
