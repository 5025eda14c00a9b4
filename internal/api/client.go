// Package api is the single point of egress for every call to the municipal
// complaint backend. Cross-cutting behavior (bearer-token injection, request
// correlation IDs, 401 session invalidation) is a chain of explicit
// http.RoundTripper decorators so each link is independently testable.
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
	"time"

	"github.com/google/uuid"

	"github.com/civicdesk/civicdesk/internal/errors"
	"github.com/civicdesk/civicdesk/internal/log"
	"github.com/civicdesk/civicdesk/internal/secstore"
)

// TokenStore is the slice of the secure store the client needs: read the
// current token and clear all session data. *secstore.Store satisfies it.
type TokenStore interface {
	Get(key string) (string, bool)
	ClearAll()
}

// Client is the municipal backend API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	logger     *log.Logger
}

// NewClient creates a new API client. The transport chain is, outermost
// first: 401 invalidation, bearer injection, request-ID tagging.
func NewClient(baseURL string, store TokenStore, logger *log.Logger) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeAPIBaseURL, "base URL must not be empty")
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}
	logger = logger.With("component", "api")

	transport := Chain(http.DefaultTransport, store, logger)

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		store:  store,
		logger: logger,
	}, nil
}

// WithTimeout overrides the request timeout
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithBaseTransport replaces the innermost transport while keeping the
// decorator chain; tests use it to count or fake network calls.
func (c *Client) WithBaseTransport(base http.RoundTripper) *Client {
	c.httpClient.Transport = Chain(base, c.store, c.logger)
	return c
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chain wraps base with the client's decorators
func Chain(base http.RoundTripper, store TokenStore, logger *log.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &invalidateTransport{
		next:   &bearerTransport{next: &requestIDTransport{next: base}, store: store},
		store:  store,
		logger: logger,
	}
}

// requestIDTransport tags every outgoing request with a correlation ID
type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", uuid.NewString())
	return t.next.RoundTrip(req)
}

// bearerTransport attaches the stored token as a bearer credential. With no
// token the request goes out unauthenticated; the backend decides whether
// that is permitted for the endpoint.
type bearerTransport struct {
	next  http.RoundTripper
	store TokenStore
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, ok := t.store.Get(secstore.KeyToken); ok && token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.next.RoundTrip(req)
}

// invalidateTransport clears all persisted session data whenever any
// response carries a 401, before the error reaches the caller. This is the
// safety net that keeps a rejected token from lingering, regardless of
// which call site triggered it.
type invalidateTransport struct {
	next   http.RoundTripper
	store  TokenStore
	logger *log.Logger
}

func (t *invalidateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.logger.Warn("server rejected session, clearing stored credentials", "path", req.URL.Path)
		t.store.ClearAll()
	}

	return resp, nil
}

// doJSON performs a request with an optional JSON body and unwraps the
// response envelope into target
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, target any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeAPIRequest, "marshal request body", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := c.newRequest(ctx, method, path, query, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIRequest, fmt.Sprintf("%s %s", method, path), err)
	}

	return c.parseEnvelope(resp, path, target)
}

// doRaw performs a GET and returns the raw response bytes (no envelope)
func (c *Client) doRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIRequest, fmt.Sprintf("GET %s", path), err)
	}
	defer resp.Body.Close()

	if err := c.statusError(resp, path, nil); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIResponse, "read response body", err)
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIRequest, "create request", err)
	}
	return req, nil
}

// parseEnvelope consumes the response body, surfaces error statuses, and
// unwraps the {data, message} envelope into target
func (c *Client) parseEnvelope(resp *http.Response, path string, target any) error {
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)

	if err := c.statusError(resp, path, raw); err != nil {
		return err
	}
	if readErr != nil {
		return errors.Wrap(errors.ErrCodeAPIResponse, "read response body", readErr)
	}

	if target == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Wrap(errors.ErrCodeAPIEnvelope, fmt.Sprintf("decode response envelope: %s", path), err)
	}
	if env.Data == nil {
		return errors.New(errors.ErrCodeAPIEnvelope, fmt.Sprintf("response envelope has no data: %s", path))
	}

	if err := json.Unmarshal(env.Data, target); err != nil {
		return errors.Wrap(errors.ErrCodeAPIEnvelope, fmt.Sprintf("decode response payload: %s", path), err)
	}

	return nil
}

// statusError maps a non-2xx response to an error. Backend validation
// messages pass through unchanged; nothing is localized or rewritten here.
func (c *Client) statusError(resp *http.Response, path string, raw []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// The transport chain has already cleared the store.
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.NewUnauthorizedError(path)
	}

	if raw == nil {
		raw, _ = io.ReadAll(resp.Body)
	}

	if message := extractMessage(raw); message != "" {
		return errors.New(errors.ErrCodeAPIStatus, message)
	}

	return errors.New(errors.ErrCodeAPIStatus,
		fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
}

// extractMessage pulls the human-readable message out of an error envelope
func extractMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}
