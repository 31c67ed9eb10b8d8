// Package apiclient is the single call surface every feature module uses to
// reach the backend. It attaches the current access credential to outbound
// requests, transparently refreshes it once on 401 and retries the original
// request, and converts the remaining failures into uniform user-facing
// notifications.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout = 30 * time.Second

	defaultRefreshPath = "/auth/token/refresh"

	msgGenericError   = "An error occurred"
	msgNetworkError   = "Network error. Please check your connection."
	msgSessionExpired = "Session expired. Please login again."
)

// Request describes a single outbound call.
type Request struct {
	Method string
	Path   string // relative path, resolved against the client base URL
	Query  url.Values
	Body   any         // JSON-serialized when non-nil
	Header http.Header // per-request header overrides
}

// Client issues authenticated HTTP requests against a fixed base URL.
// It is safe for concurrent use.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	store            SessionStore
	notify           Notifier
	onSessionExpired func()
	refreshPath      string

	// Concurrent 401s share a single refresh call; every waiter retries
	// with its result.
	refreshGroup singleflight.Group
}

// Option modifies the Client during construction.
type Option func(*Client)

// WithTimeout overrides the default 30 second request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithNotifier sets the sink for user-facing error notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notify = n
	}
}

// WithOnSessionExpired sets the hook invoked when the session is cleared
// after an unrecoverable 401 — the redirect-to-login analogue.
func WithOnSessionExpired(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// WithRefreshPath overrides the token refresh endpoint path.
func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// New creates a Client for the given base URL and session store.
func New(baseURL string, store SessionStore, options ...Option) *Client {
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpClient:       &http.Client{Timeout: defaultTimeout},
		store:            store,
		notify:           NopNotifier{},
		onSessionExpired: func() {},
		refreshPath:      defaultRefreshPath,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// call wraps a Request with the retry bookkeeping the interceptor needs.
// The flag lives here rather than on the caller's Request so a retry never
// mutates caller-owned state.
type call struct {
	req     Request
	body    []byte // serialized once, reused by the retry
	retried bool
}

// Do issues the request and decodes a successful JSON response into out
// (out may be nil). Failures follow the client's recovery policy: a first
// 401 triggers a refresh and a single retry, everything else is surfaced as
// a notification and returned as an error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	cl := &call{req: req}

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("apiclient: marshal request body: %w", err)
		}
		cl.body = data
	}

	resp, err := c.send(ctx, cl)
	if err != nil {
		// No response at all.
		c.notify.Error(msgNetworkError)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return c.handleResponse(ctx, cl, resp, out)
}

// send transmits the call once, attaching the current access credential
// when one is present.
func (c *Client) send(ctx context.Context, cl *call) (*http.Response, error) {
	u := c.baseURL + cl.req.Path
	if len(cl.req.Query) > 0 {
		u += "?" + cl.req.Query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, cl.req.Method, u, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, vs := range cl.req.Header {
		httpReq.Header[k] = vs
	}
	if access := c.store.AccessToken(); access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}

	return c.httpClient.Do(httpReq)
}

func (c *Client) handleResponse(ctx context.Context, cl *call, resp *http.Response, out any) error {
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.notify.Error(msgNetworkError)
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeInto(respBody, out)
	}

	statusErr := &StatusError{
		StatusCode: resp.StatusCode,
		Message:    extractMessage(respBody),
		Body:       respBody,
	}

	if resp.StatusCode == http.StatusUnauthorized && !cl.retried {
		return c.recoverUnauthorized(ctx, cl, statusErr, out)
	}

	// 401 on an already-retried call stays silent: the session-expired path
	// has notified already or the retry outcome is terminal.
	if resp.StatusCode != http.StatusUnauthorized {
		c.notify.Error(statusErr.Message)
	}
	return statusErr
}

// recoverUnauthorized implements the refresh-and-retry transition: mark the
// call retried, obtain a fresh access token (shared across concurrent
// callers), and re-issue the original request exactly once.
func (c *Client) recoverUnauthorized(ctx context.Context, cl *call, cause *StatusError, out any) error {
	cl.retried = true

	if _, err := c.refreshAccessToken(ctx); err != nil {
		// Refresh failed: clear the whole session, send the caller back to
		// login, and surface the original failure.
		_ = c.store.Clear()
		c.onSessionExpired()
		c.notify.Error(msgSessionExpired)
		return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
	}

	resp, err := c.send(ctx, cl)
	if err != nil {
		c.notify.Error(msgNetworkError)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return c.handleResponse(ctx, cl, resp, out)
}

// refreshAccessToken exchanges the stored refresh credential for a new
// access token and persists it. Concurrent callers are coalesced behind a
// single request; each receives the same result.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	access, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken := c.store.RefreshToken()
		if refreshToken == "" {
			return "", fmt.Errorf("no refresh token stored")
		}

		payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
		if err != nil {
			return "", err
		}

		// Deliberately not routed through Do: the refresh call itself must
		// never be intercepted or retried.
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.refreshPath, bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", &StatusError{StatusCode: resp.StatusCode, Message: extractMessage(respBody), Body: respBody}
		}

		var result struct {
			Access string `json:"access"`
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return "", fmt.Errorf("decode refresh response: %w", err)
		}
		if result.Access == "" {
			return "", fmt.Errorf("refresh response missing access token")
		}

		if err := c.store.SetAccessToken(result.Access); err != nil {
			return "", fmt.Errorf("persist access token: %w", err)
		}
		return result.Access, nil
	})
	if err != nil {
		return "", err
	}
	return access.(string), nil
}

func decodeInto(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}

// extractMessage pulls the human-readable error text from a failure body:
// the message field first, then detail, then a generic fallback.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return msgGenericError
}
