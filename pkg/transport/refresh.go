package transport

import (
	"context"
	"errors"
	"log/slog"
)

var errEmptyAccessToken = errors.New("empty access token in refresh response")

// recoverUnauthorized runs the refresh protocol for a request that got a 401.
//
// The first caller becomes the refresher; callers arriving while a refresh
// is in flight queue up and are released together when it settles. A request
// sent with a token that has since been replaced is replayed without a new
// refresh. Each request is replayed at most once, so a replayed 401 is
// returned as is.
func (t *Transport) recoverUnauthorized(ctx context.Context, req *Request, unauthorized *HTTPError) (*Response, error) {
	t.mu.Lock()
	if t.refreshing {
		wait := make(chan error, 1)
		t.queue = append(t.queue, wait)
		t.mu.Unlock()

		select {
		case err := <-wait:
			if err != nil {
				return nil, err
			}
			return t.do(ctx, req.clone(), true)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if current := t.currentBearerLocked(); current != "" && current != unauthorized.bearer {
		// Another caller refreshed after this request was sent.
		t.mu.Unlock()
		return t.do(ctx, req.clone(), true)
	}
	t.refreshing = true
	t.mu.Unlock()

	// The cycle outlives the caller: a cancelled request must not leave
	// waiters hanging or the session half torn down.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.refreshTimeout)
	defer cancel()

	refreshToken := t.session.RefreshToken()
	if refreshToken == "" {
		err := errors.Join(ErrSessionEnded, unauthorized)
		t.logger.InfoContext(ctx, "unauthorized without refresh token, ending session")
		t.endSession(rctx)
		t.settle("no_token", err)
		return nil, err
	}

	pair, err := t.refresher(rctx, refreshToken)
	if err == nil && pair.AccessToken == "" {
		err = errEmptyAccessToken
	}
	if err != nil {
		err = errors.Join(ErrRefreshFailed, err)
		t.logger.WarnContext(ctx, "token refresh failed, ending session", slog.String("error", err.Error()))
		t.endSession(rctx)
		t.settle("failure", err)
		return nil, err
	}

	if err := t.session.SetTokens(rctx, pair.AccessToken, pair.RefreshToken); err != nil {
		// The session still holds the new tokens in memory.
		t.logger.WarnContext(ctx, "failed to persist refreshed tokens", slog.String("error", err.Error()))
	}

	t.mu.Lock()
	t.defaultAuth = pair.AccessToken
	t.mu.Unlock()

	t.logger.DebugContext(ctx, "token refreshed")
	t.settle("success", nil)

	return t.do(ctx, req.clone(), true)
}

// settle drains the queue and clears the in-flight flag in one step, then
// releases every waiter in arrival order with err.
func (t *Transport) settle(result string, err error) {
	t.mu.Lock()
	waiters := t.queue
	t.queue = nil
	t.refreshing = false
	t.mu.Unlock()

	t.metrics.refresh(result, len(waiters))

	for _, wait := range waiters {
		wait <- err
	}
}

// endSession clears the session and the default credential, then redirects.
func (t *Transport) endSession(ctx context.Context) {
	t.mu.Lock()
	t.defaultAuth = ""
	t.mu.Unlock()

	if err := t.session.Clear(ctx); err != nil {
		t.logger.WarnContext(ctx, "failed to clear session", slog.String("error", err.Error()))
	}
	t.navigator.RedirectToLogin(ctx)
}

func (t *Transport) currentBearerLocked() string {
	if token := t.session.AccessToken(); token != "" {
		return token
	}
	return t.defaultAuth
}

// Refreshing reports whether a refresh cycle is in flight.
func (t *Transport) Refreshing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refreshing
}
