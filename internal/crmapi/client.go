// Package crmapi is the HTTP client of the CRM REST backend.
//
// Every call returns its decoded payload or exactly one of *NetworkError,
// *AuthError or *APIError. All three unwrap to the matching core sentinel.
package crmapi

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

	"github.com/JonMunkholm/crmdesk/internal/core"
)

var _ core.Backend = (*Client)(nil)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 32 << 20

// TokenSource returns the bearer token to attach, or "" for none.
type TokenSource func() string

// UnauthorizedHook is called when the backend answers 401.
type UnauthorizedHook func(ctx context.Context, blocked bool)

// Client talks to the backend's /api routes.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook sets the callback run on every 401.
func WithUnauthorizedHook(h UnauthorizedHook) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for apiBase, e.g. "http://localhost:5000/api".
// A zero timeout leaves requests bounded only by their context.
func New(apiBase string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(apiBase, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope holds the fields every backend response may carry.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// do sends one request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.tokens(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}

	// Bodies that are not JSON decode to an empty envelope.
	var env envelope
	_ = json.Unmarshal(data, &env)

	message := env.Message
	if message == "" {
		message = DefaultMessage
	}

	if resp.StatusCode == http.StatusUnauthorized {
		lower := strings.ToLower(env.Message)
		blocked := strings.Contains(lower, "blocked") || strings.Contains(lower, "deactivated")
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx, blocked)
		}
		return &AuthError{Blocked: blocked, Message: message}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: message}
	}
	// Some routes answer 200 with {"success": false, "message": ...}.
	if env.Success != nil && !*env.Success {
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("invalid response from %s: %v", path, err)}
	}
	return nil
}
