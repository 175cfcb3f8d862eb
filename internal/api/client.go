// Package api is the HTTP client for the SIGPesq REST server. One file per
// resource maps each logical operation to a single HTTP call. The shared
// Client attaches the bearer token on every request and applies a global,
// injectable policy when the server answers 401 outside the login endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"sigpesq/internal/logging"
)

const loginPath = "/login"

// TokenSource supplies the current bearer token. It is consulted on every
// request, not cached at login, so a token refreshed elsewhere is picked up.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// UnauthorizedPolicy reacts to a 401 from any endpoint other than login.
// The client guarantees it fires at most once per armed session no matter
// how many in-flight requests fail concurrently.
type UnauthorizedPolicy func()

// Client is the single shared HTTP client for the SIGPesq API.
type Client struct {
	baseURL      string
	http         *http.Client
	tokens       TokenSource
	unauthorized UnauthorizedPolicy

	// 1 while armed; swapped to 0 by the first 401 so the policy runs once.
	armed atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUnauthorizedPolicy installs the reaction to a session-expired 401.
func WithUnauthorizedPolicy(p UnauthorizedPolicy) Option {
	return func(c *Client) { c.unauthorized = p }
}

// New creates a Client for the given base URL.
func New(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.armed.Store(true)
	return c
}

// Arm re-enables the one-shot 401 policy. Called after a successful login or
// a session restore, when a fresh 401 would again mean an expired session.
func (c *Client) Arm() {
	c.armed.Store(true)
}

func (c *Client) fireUnauthorized() {
	// CompareAndSwap makes the policy single-shot under concurrent 401s.
	if c.armed.CompareAndSwap(true, false) && c.unauthorized != nil {
		c.unauthorized()
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	reqID := uuid.NewString()
	timer := logging.StartTimer(logging.CategoryAPI, method+" "+path)
	defer timer.Stop()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logging.APIError("[req:%s] %s %s transport failure: %v", reqID, method, path, err)
		return &Error{Kind: KindConnectivity, cause: err}
	}
	defer resp.Body.Close()

	logging.APIDebug("[req:%s] %s %s -> %d", reqID, method, path, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized && path != loginPath {
		c.fireUnauthorized()
		return &Error{Kind: KindAuth, Status: resp.StatusCode}
	}

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		detail := extractDetail(data)

		kind := KindUnexpected
		if resp.StatusCode < 500 && detail != "" {
			kind = KindValidation
		}
		logging.APIError("[req:%s] %s %s failed: status=%d detail=%q", reqID, method, path, resp.StatusCode, detail)
		return &Error{Kind: kind, Status: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUnexpected, Status: resp.StatusCode, cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
