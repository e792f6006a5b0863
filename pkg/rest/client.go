// Package rest implements the HTTP request helper used by the SDK to talk to
// the zkpay service: JSON encoding/decoding, per-client timeouts with a
// distinct timeout error kind, bearer authentication, and parsing of the
// service's structured error envelope.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client is a thin JSON client bound to one API base URL. All requests share
// the client's timeout; a request that exceeds it fails with *TimeoutError.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewClient constructs a Client for the given base URL. A non-positive timeout
// falls back to 10 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Option mutates a single outgoing request.
type Option func(*http.Request)

// WithBearer attaches an Authorization: Bearer header to the request.
func WithBearer(token string) Option {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// WithQuery attaches URL query values to the request.
func WithQuery(values url.Values) Option {
	return func(r *http.Request) {
		r.URL.RawQuery = values.Encode()
	}
}

// Get issues a GET request to path and decodes the JSON response into out
// (skipped when out is nil).
func (c *Client) Get(ctx context.Context, path string, out any, opts ...Option) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST request with body serialized as JSON and decodes the
// response into out (skipped when out is nil).
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Delete issues a DELETE request to path.
func (c *Client) Delete(ctx context.Context, path string, opts ...Option) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, opts...)
}

// Do performs an HTTP exchange against the service. Non-2xx responses are
// parsed as the service's error envelope and returned as *APIError; transport
// timeouts are returned as *TimeoutError carrying the configured timeout.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...Option) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Timeout: c.timeout, Err: err}
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			zap.L().Error("failed to close response body", zap.Error(cerr))
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(raw, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// BaseURL returns the base URL the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// parseAPIError decodes the service error envelope, falling back to the raw
// body when the envelope does not parse.
func parseAPIError(raw []byte, status int) error {
	apiErr := &APIError{}
	if err := json.Unmarshal(raw, apiErr); err == nil && apiErr.Message != "" {
		if apiErr.StatusCode == 0 {
			apiErr.StatusCode = status
		}
		return apiErr
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Message: msg, StatusCode: status}
}

// isTimeout reports whether err represents a deadline/timeout condition.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
