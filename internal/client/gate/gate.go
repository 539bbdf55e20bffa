// Package gate wraps every outbound request of the client: it attaches the
// bearer token, detects 401 replies, coordinates a single token refresh
// across all in-flight requests, and replays the failed request with the new
// token. When the refresh itself fails the session is dead: the gate clears
// local state and signals the UI to show the login surface.
package gate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobtrack/internal/client/credentials"
	"github.com/dmitrijs2005/jobtrack/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// refreshKey collapses all concurrent refresh attempts into one flight.
const refreshKey = "refresh"

// DefaultRefreshTimeout bounds the refresh exchange. A hung refresh would
// wedge every request waiting on the flight, so it gets a deadline even
// though ordinary requests do not.
const DefaultRefreshTimeout = 15 * time.Second

// Refresher is the slice of the auth coordinator the gate needs: one token
// exchange plus the cascading cleanup it triggers on irrecoverable failure.
type Refresher interface {
	RefreshToken(ctx context.Context) (string, error)
	ClearSession(ctx context.Context)
}

// Navigator receives the redirect-to-login signal after a failed refresh.
type Navigator interface {
	ShowLogin()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) ShowLogin() { f() }

// Transport is an http.RoundTripper implementing the authenticated-request
// pipeline. It is safe for concurrent use.
type Transport struct {
	base           http.RoundTripper
	creds          credentials.Store
	refresher      Refresher
	nav            Navigator
	log            logging.Logger
	refreshTimeout time.Duration
	group          singleflight.Group
}

// Option configures a Transport.
type Option func(*Transport)

// WithBase sets the underlying transport (default http.DefaultTransport).
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) { t.base = rt }
}

// WithRefreshTimeout overrides the refresh deadline.
func WithRefreshTimeout(d time.Duration) Option {
	return func(t *Transport) { t.refreshTimeout = d }
}

// NewTransport builds the gate. The refresher is typically the auth
// coordinator; note the coordinator's own requests pass back through this
// gate, relying on the auth-endpoint exemption to avoid recursion.
func NewTransport(creds credentials.Store, refresher Refresher, nav Navigator, log logging.Logger, opts ...Option) *Transport {
	t := &Transport{
		base:           http.DefaultTransport,
		creds:          creds,
		refresher:      refresher,
		nav:            nav,
		log:            log,
		refreshTimeout: DefaultRefreshTimeout,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// isExempt reports whether the request targets an identity-service endpoint
// that must not carry (or be retried with) the access token. Logout is the
// exception: it authenticates like any other call.
func isExempt(u *url.URL) bool {
	return strings.Contains(u.Path, "/api/auth/") && !strings.Contains(u.Path, "/api/auth/logout")
}

// RoundTrip implements http.RoundTripper.
//
// A 401 from a non-exempt request joins the process-wide refresh flight:
// however many requests fault in the same window, exactly one refresh call
// goes out and every waiter shares its outcome. On success the request is
// replayed with the fresh token; on failure the session is cleared once,
// the navigator is signalled, and the refresh error (not the stale 401) is
// returned.
//
// Replaying needs a rewindable body. Requests with a body but no GetBody
// cannot be retried; for those the original 401 response is returned after
// the refresh settles.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	exempt := isExempt(req.URL)

	out := req.Clone(req.Context())
	out.Header.Set("X-Request-Id", uuid.NewString())
	if !exempt {
		if token, err := t.creds.AccessToken(req.Context()); err == nil && token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil || exempt || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	token, refreshErr := t.refresh(req.Context())
	if refreshErr != nil {
		drain(resp)
		return nil, refreshErr
	}

	if req.Body != nil && req.GetBody == nil {
		// Cannot rewind the body; the refresh still happened, so the next
		// attempt by the caller will succeed.
		return resp, nil
	}
	drain(resp)

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+token)
	retry.Header.Set("X-Request-Id", uuid.NewString())

	return t.base.RoundTrip(retry)
}

// refresh joins (or starts) the single refresh flight. Cleanup on failure
// runs inside the flight function, so it happens exactly once per window no
// matter how many requests shared the outcome.
func (t *Transport) refresh(ctx context.Context) (string, error) {
	v, err, shared := t.group.Do(refreshKey, func() (any, error) {
		// Detached from the triggering request: the flight serves every
		// waiter, so the first caller going away must not cancel it.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.refreshTimeout)
		defer cancel()

		token, err := t.refresher.RefreshToken(fctx)
		if err != nil {
			t.log.Warn(fctx, "token refresh failed, clearing session", "error", err)
			t.refresher.ClearSession(fctx)
			t.nav.ShowLogin()
			return "", err
		}
		return token, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		t.log.Debug(ctx, "joined in-flight token refresh")
	}
	return v.(string), nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
